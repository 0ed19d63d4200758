// Copyright 2010-2025 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lpmodel holds the in-memory representation of a linear program.
//
// A `Model` has a fixed number of continuous decision variables, each with an
// implicit lower bound of 0 and no upper bound, one linear objective with a
// `Sense`, and an ordered, append-only list of `Constraint`s. The order of the
// constraints defines the index used to look up dual values and to target a
// constraint in a what-if analysis.
//
// Models are value-like aggregates: use `Clone` to obtain an independent copy
// before changing a right-hand side speculatively.
package lpmodel

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidArgument is returned for malformed construction input, such as a
	// non-positive variable count or a non-finite coefficient.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDimensionMismatch is returned when a coefficient slice does not have one
	// entry per variable.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrOutOfRange is returned for a constraint or variable index outside of the
	// model.
	ErrOutOfRange = errors.New("index out of range")
)

// Sense is the optimization direction of the objective.
type Sense int

const (
	// Maximize asks for the largest objective value.
	Maximize Sense = iota
	// Minimize asks for the smallest objective value.
	Minimize
)

// String returns "MAXIMIZE" or "MINIMIZE".
func (s Sense) String() string {
	switch s {
	case Maximize:
		return "MAXIMIZE"
	case Minimize:
		return "MINIMIZE"
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

func (s Sense) valid() bool {
	return s == Maximize || s == Minimize
}

// ParseSense parses "max", "maximize", "min" or "minimize", ignoring case.
func ParseSense(s string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "maximize", "maximise":
		return Maximize, nil
	case "min", "minimize", "minimise":
		return Minimize, nil
	}
	return 0, fmt.Errorf("%w: unknown objective sense %q", ErrInvalidArgument, s)
}

// Operator is the relation between the left-hand side and the right-hand side
// of a constraint.
type Operator int

const (
	// LessOrEqual is `lhs <= rhs`.
	LessOrEqual Operator = iota
	// GreaterOrEqual is `lhs >= rhs`.
	GreaterOrEqual
	// Equal is `lhs = rhs`.
	Equal
)

// String returns the operator token: "<=", ">=" or "=".
func (o Operator) String() string {
	switch o {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

func (o Operator) valid() bool {
	return o == LessOrEqual || o == GreaterOrEqual || o == Equal
}

// ParseOperator parses one of the tokens "<=", ">=", "=" or "==".
func ParseOperator(s string) (Operator, error) {
	switch strings.TrimSpace(s) {
	case "<=", "=<":
		return LessOrEqual, nil
	case ">=", "=>":
		return GreaterOrEqual, nil
	case "=", "==":
		return Equal, nil
	}
	return 0, fmt.Errorf("%w: unknown constraint operator %q", ErrInvalidArgument, s)
}

// Constraint is a single linear constraint `Coefficients . x  Operator  RHS`.
type Constraint struct {
	Coefficients []float64
	Operator     Operator
	RHS          float64
	Name         string
}

func (c Constraint) clone() Constraint {
	c.Coefficients = append([]float64(nil), c.Coefficients...)
	return c
}

// Model is a linear program over a fixed number of non-negative continuous
// variables.
//
// A Model is not safe for concurrent mutation. Clone it to hand an independent
// copy to another owner.
type Model struct {
	numVars      int
	sense        Sense
	objective    []float64
	hasObjective bool
	constraints  []Constraint
	varNames     []string
}

// New returns an empty model with `numVars` variables, no constraints and no
// objective.
func New(numVars int, sense Sense) (*Model, error) {
	if numVars < 1 {
		return nil, fmt.Errorf("%w: variable count must be at least 1, got %d", ErrInvalidArgument, numVars)
	}
	if !sense.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, sense)
	}
	return &Model{
		numVars:   numVars,
		sense:     sense,
		objective: make([]float64, numVars),
		varNames:  make([]string, numVars),
	}, nil
}

// NumVariables returns the number of decision variables.
func (m *Model) NumVariables() int {
	return m.numVars
}

// NumConstraints returns the number of constraints added so far.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// Sense returns the optimization direction.
func (m *Model) Sense() Sense {
	return m.sense
}

// HasObjective reports whether SetObjective has been called successfully.
func (m *Model) HasObjective() bool {
	return m.hasObjective
}

// Objective returns a copy of the objective coefficients. It is all zeros until
// SetObjective is called.
func (m *Model) Objective() []float64 {
	return append([]float64(nil), m.objective...)
}

// SetObjective replaces the objective coefficients. The model is unchanged on
// error.
func (m *Model) SetObjective(coeffs []float64) error {
	if err := m.checkCoefficients(coeffs); err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	m.objective = append([]float64(nil), coeffs...)
	m.hasObjective = true
	return nil
}

// AddConstraint appends the constraint `coeffs . x  op  rhs` and returns its
// index. The model is unchanged on error.
func (m *Model) AddConstraint(coeffs []float64, rhs float64, op Operator, name string) (int, error) {
	idx := len(m.constraints)
	if err := m.checkCoefficients(coeffs); err != nil {
		return -1, fmt.Errorf("constraint %d (%q): %w", idx, name, err)
	}
	if !op.valid() {
		return -1, fmt.Errorf("constraint %d (%q): %w: %v", idx, name, ErrInvalidArgument, op)
	}
	if !isFinite(rhs) {
		return -1, fmt.Errorf("constraint %d (%q): %w: right-hand side %v is not finite", idx, name, ErrInvalidArgument, rhs)
	}
	m.constraints = append(m.constraints, Constraint{
		Coefficients: append([]float64(nil), coeffs...),
		Operator:     op,
		RHS:          rhs,
		Name:         name,
	})
	return idx, nil
}

// Constraint returns a copy of the constraint at index `i`.
func (m *Model) Constraint(i int) (Constraint, error) {
	if err := m.checkConstraintIndex(i); err != nil {
		return Constraint{}, err
	}
	return m.constraints[i].clone(), nil
}

// Constraints returns a copy of all the constraints in order.
func (m *Model) Constraints() []Constraint {
	cts := make([]Constraint, len(m.constraints))
	for i, c := range m.constraints {
		cts[i] = c.clone()
	}
	return cts
}

// RHS returns the right-hand side of the constraint at index `i`.
func (m *Model) RHS(i int) (float64, error) {
	if err := m.checkConstraintIndex(i); err != nil {
		return 0, err
	}
	return m.constraints[i].RHS, nil
}

// SetRHS replaces the right-hand side of the constraint at index `i`, leaving
// its operator and coefficients unchanged. It is meant for clones used in
// what-if analyses.
func (m *Model) SetRHS(i int, rhs float64) error {
	if err := m.checkConstraintIndex(i); err != nil {
		return err
	}
	if !isFinite(rhs) {
		return fmt.Errorf("%w: right-hand side %v is not finite", ErrInvalidArgument, rhs)
	}
	m.constraints[i].RHS = rhs
	return nil
}

// SetVariableName sets the display name of variable `i`. Names are caller
// metadata and play no role in solving.
func (m *Model) SetVariableName(i int, name string) error {
	if i < 0 || i >= m.numVars {
		return fmt.Errorf("%w: variable %d not in [0, %d)", ErrOutOfRange, i, m.numVars)
	}
	m.varNames[i] = name
	return nil
}

// VariableName returns the display name of variable `i`, or "x{i+1}" if none
// was set.
func (m *Model) VariableName(i int) string {
	if i >= 0 && i < m.numVars && m.varNames[i] != "" {
		return m.varNames[i]
	}
	return fmt.Sprintf("x%d", i+1)
}

// ConstraintName returns the name of constraint `i`, or "R{i+1}" if it was
// added without one.
func (m *Model) ConstraintName(i int) string {
	if i >= 0 && i < len(m.constraints) && m.constraints[i].Name != "" {
		return m.constraints[i].Name
	}
	return fmt.Sprintf("R%d", i+1)
}

// Clone returns a deep copy of the model. Changes to the copy never affect `m`.
func (m *Model) Clone() *Model {
	c := &Model{
		numVars:      m.numVars,
		sense:        m.sense,
		objective:    append([]float64(nil), m.objective...),
		hasObjective: m.hasObjective,
		varNames:     append([]string(nil), m.varNames...),
	}
	if m.constraints != nil {
		c.constraints = make([]Constraint, len(m.constraints))
		for i, ct := range m.constraints {
			c.constraints[i] = ct.clone()
		}
	}
	return c
}

func (m *Model) checkCoefficients(coeffs []float64) error {
	if len(coeffs) != m.numVars {
		return fmt.Errorf("%w: got %d coefficients, want %d", ErrDimensionMismatch, len(coeffs), m.numVars)
	}
	for j, v := range coeffs {
		if !isFinite(v) {
			return fmt.Errorf("%w: coefficient %d is %v", ErrInvalidArgument, j, v)
		}
	}
	return nil
}

func (m *Model) checkConstraintIndex(i int) error {
	if i < 0 || i >= len(m.constraints) {
		return fmt.Errorf("%w: constraint %d not in [0, %d)", ErrOutOfRange, i, len(m.constraints))
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
