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

// Package linearsolver solves `lpmodel.Model`s and reports primal values,
// objective value and dual values (shadow prices).
//
// Use it like this:
//
//	solver, err := linearsolver.New("my_lp", linearsolver.GonumSimplex)
//	if err != nil {
//		...
//	}
//	if err := solver.LoadModel(model); err != nil {
//		...
//	}
//	status := solver.Solve()
//	sol := solver.Solution()
//
// Dual values are reported as the derivative of the optimal objective with
// respect to each constraint's right-hand side, in the model's own sense. They
// are only meaningful when the status is Optimal.
package linearsolver

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
)

// ErrNoModel is returned when a model is required but none was loaded.
var ErrNoModel = errors.New("no model loaded")

// SolverType selects the solving algorithm.
type SolverType int

const (
	// GonumSimplex is the dense two-phase simplex of
	// gonum.org/v1/gonum/optimize/convex/lp, with duals obtained from the dual
	// program.
	GonumSimplex SolverType = iota
)

// String returns the name of the solver type.
func (t SolverType) String() string {
	switch t {
	case GonumSimplex:
		return "GONUM_SIMPLEX"
	default:
		return fmt.Sprintf("SolverType(%d)", int(t))
	}
}

// SupportsProblemType returns whether the given solver type is available.
func SupportsProblemType(t SolverType) bool {
	return t == GonumSimplex
}

// ResponseStatus is the outcome of a solve.
type ResponseStatus int

const (
	// NotSolved means Solve has not been called since the model was loaded.
	NotSolved ResponseStatus = iota
	// Optimal means an optimal solution was found.
	Optimal
	// Feasible means a feasible, not provably optimal, solution was found.
	Feasible
	// Infeasible means no point satisfies all the constraints.
	Infeasible
	// Unbounded means the objective can be improved without limit.
	Unbounded
	// Abnormal means the solver failed, for instance for numerical reasons.
	Abnormal
	// ModelInvalid means the model could not be solved as given.
	ModelInvalid
)

// String returns the name of the status.
func (s ResponseStatus) String() string {
	switch s {
	case NotSolved:
		return "NOT_SOLVED"
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	case Abnormal:
		return "ABNORMAL"
	case ModelInvalid:
		return "MODEL_INVALID"
	default:
		return fmt.Sprintf("ResponseStatus(%d)", int(s))
	}
}

// Solution is the raw result of a solve.
//
// VariableValues has one entry per variable and DualValues one entry per
// constraint. Entries the solver could not determine are NaN.
type Solution struct {
	Status         ResponseStatus
	ObjectiveValue float64
	VariableValues []float64
	DualValues     []float64
}

func newSolution(numVars, numConstraints int) *Solution {
	return &Solution{
		Status:         NotSolved,
		VariableValues: nanSlice(numVars),
		DualValues:     nanSlice(numConstraints),
	}
}

func (s *Solution) clone() *Solution {
	c := *s
	c.VariableValues = append([]float64(nil), s.VariableValues...)
	c.DualValues = append([]float64(nil), s.DualValues...)
	return &c
}

// LinearSolver holds one model and the result of its last solve.
type LinearSolver struct {
	name        string
	problemType SolverType
	model       *lpmodel.Model
	solution    *Solution
}

// New initializes a new linear solver, given a name and a solver type.
func New(name string, t SolverType) (*LinearSolver, error) {
	if !SupportsProblemType(t) {
		return nil, fmt.Errorf("problem type %v not supported", t)
	}
	return &LinearSolver{name: name, problemType: t}, nil
}

// Name returns the name given to New.
func (ls *LinearSolver) Name() string {
	return ls.name
}

// ProblemType returns the solver type selected.
func (ls *LinearSolver) ProblemType() SolverType {
	return ls.problemType
}

// LoadModel loads a snapshot of `m`. Later changes to `m` are not seen by the
// solver.
func (ls *LinearSolver) LoadModel(m *lpmodel.Model) error {
	if m == nil {
		return ErrNoModel
	}
	ls.model = m.Clone()
	ls.solution = newSolution(m.NumVariables(), m.NumConstraints())
	return nil
}

// Model returns a copy of the loaded model, or nil.
func (ls *LinearSolver) Model() *lpmodel.Model {
	if ls.model == nil {
		return nil
	}
	return ls.model.Clone()
}

// NumVariables returns the number of variables of the loaded model.
func (ls *LinearSolver) NumVariables() int {
	if ls.model == nil {
		return 0
	}
	return ls.model.NumVariables()
}

// NumConstraints returns the number of constraints of the loaded model.
func (ls *LinearSolver) NumConstraints() int {
	if ls.model == nil {
		return 0
	}
	return ls.model.NumConstraints()
}

// Clear drops the loaded model and its solution.
func (ls *LinearSolver) Clear() {
	ls.model = nil
	ls.solution = nil
}

// Solve solves the model with default parameters and returns a status.
func (ls *LinearSolver) Solve() ResponseStatus {
	return ls.SolveWithParameters(NewParameters())
}

// SolveWithParameters is the same as Solve() except it takes Parameters.
func (ls *LinearSolver) SolveWithParameters(p *Parameters) ResponseStatus {
	if ls.model == nil {
		log.Errorf("linear solver %q: %v", ls.name, ErrNoModel)
		return ModelInvalid
	}
	if p == nil {
		p = NewParameters()
	}
	log.V(1).Infof("linear solver %q: solving %d variables, %d constraints (%v)",
		ls.name, ls.model.NumVariables(), ls.model.NumConstraints(), ls.model.Sense())
	ls.solution = solveModel(ls.model, p)
	log.V(1).Infof("linear solver %q: status %v, objective %v", ls.name, ls.solution.Status, ls.solution.ObjectiveValue)
	return ls.solution.Status
}

// Solution returns a copy of the last solution. Must be called after Solve()
// is called.
func (ls *LinearSolver) Solution() *Solution {
	if ls.solution == nil {
		return newSolution(0, 0)
	}
	return ls.solution.clone()
}

// ConstraintActivities returns activities of all constraints at the last
// solution. Entries are NaN when no primal solution is available.
func (ls *LinearSolver) ConstraintActivities() []float64 {
	if ls.model == nil {
		return nil
	}
	if ls.solution == nil || !hasValues(ls.solution.VariableValues) {
		return nanSlice(ls.model.NumConstraints())
	}
	act, err := ls.model.Activities(ls.solution.VariableValues)
	if err != nil {
		log.Errorf("linear solver %q: %v", ls.name, err)
		return nanSlice(ls.model.NumConstraints())
	}
	return act
}

// VerifySolution returns true if the last solution has no NaN value, respects
// the variable bounds and violates no constraint by more than `tolerance`.
func (ls *LinearSolver) VerifySolution(tolerance float64) bool {
	if ls.model == nil || ls.solution == nil || !hasValues(ls.solution.VariableValues) {
		return false
	}
	x := ls.solution.VariableValues
	for j, v := range x {
		if v < -tolerance {
			log.V(1).Infof("linear solver %q: variable %s = %v is below its lower bound", ls.name, ls.model.VariableName(j), v)
			return false
		}
	}
	for i := 0; i < ls.model.NumConstraints(); i++ {
		viol, err := ls.model.Violation(i, x)
		if err != nil {
			log.Errorf("linear solver %q: %v", ls.name, err)
			return false
		}
		if viol > tolerance {
			log.V(1).Infof("linear solver %q: constraint %s violated by %v", ls.name, ls.model.ConstraintName(i), viol)
			return false
		}
	}
	return true
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func hasValues(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
