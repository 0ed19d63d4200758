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

// Package lpsolve solves an `lpmodel.Model` once and returns a `Result` whose
// shape does not depend on the outcome: one primal value per variable and one
// dual value per constraint, all zero unless the status is Optimal.
package lpsolve

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/linearsolver"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
)

// Status is the closed set of solve outcomes.
type Status int

const (
	// Undefined covers every outcome other than the three below, including
	// backend failures.
	Undefined Status = iota
	// Optimal means an optimal solution was found.
	Optimal
	// Infeasible means no point satisfies all the constraints.
	Infeasible
	// Unbounded means the objective can be improved without limit.
	Unbounded
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	case Undefined:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one solve. Primal has one entry per variable and
// Duals one entry per constraint, in model order. Duals[i] is the rate of
// change of the optimal objective when the right-hand side of constraint i
// increases. Every number is 0 when Status is not Optimal.
type Result struct {
	Status         Status
	Primal         []float64
	ObjectiveValue float64
	Duals          []float64
}

// IsOptimal returns true if the result holds an optimal solution.
func (r Result) IsOptimal() bool {
	return r.Status == Optimal
}

// Backend solves one model. Implementations report unknown entries as NaN or
// leave the slices short.
type Backend interface {
	Solve(m *lpmodel.Model) (*linearsolver.Solution, error)
}

type simplexBackend struct {
	params *linearsolver.Parameters
}

// NewSimplexBackend returns a Backend running the gonum simplex with the given
// parameters. A nil `p` selects the defaults.
func NewSimplexBackend(p *linearsolver.Parameters) Backend {
	if p == nil {
		p = linearsolver.NewParameters()
	}
	return &simplexBackend{params: p.Clone()}
}

func (b *simplexBackend) Solve(m *lpmodel.Model) (*linearsolver.Solution, error) {
	solver, err := linearsolver.New("lpsolve", linearsolver.GonumSimplex)
	if err != nil {
		return nil, err
	}
	if err := solver.LoadModel(m); err != nil {
		return nil, err
	}
	solver.SolveWithParameters(b.params)
	return solver.Solution(), nil
}

// Solver turns Backend solutions into Results.
type Solver struct {
	backend Backend
}

// NewSolver returns a Solver using `b`.
func NewSolver(b Backend) *Solver {
	return &Solver{backend: b}
}

// DefaultSolver returns a Solver on the gonum simplex with default parameters.
func DefaultSolver() *Solver {
	return NewSolver(NewSimplexBackend(nil))
}

// Solve solves `m` with a new default solver.
func Solve(m *lpmodel.Model) Result {
	return DefaultSolver().Solve(m)
}

// Solve calls the backend exactly once and never fails: backend errors and
// unexpected statuses give an Undefined result.
func (s *Solver) Solve(m *lpmodel.Model) Result {
	if m == nil {
		log.Errorf("lpsolve: %v", linearsolver.ErrNoModel)
		return Result{Status: Undefined}
	}
	res := zeroResult(Undefined, m)
	sol, err := s.backend.Solve(m)
	if err != nil {
		log.Warningf("lpsolve: backend failed: %v", err)
		return res
	}
	if sol == nil {
		log.Warningf("lpsolve: backend returned no solution")
		return res
	}

	res.Status = mapStatus(sol.Status)
	if res.Status != Optimal {
		log.V(1).Infof("lpsolve: status %v (backend %v)", res.Status, sol.Status)
		return res
	}
	res.ObjectiveValue = sol.ObjectiveValue
	if !isFinite(res.ObjectiveValue) {
		log.Warningf("lpsolve: objective value %v unavailable, using 0", res.ObjectiveValue)
		res.ObjectiveValue = 0
	}
	if n := fill(res.Primal, sol.VariableValues); n > 0 {
		log.Warningf("lpsolve: %d primal values unavailable, using 0", n)
	}
	if n := fill(res.Duals, sol.DualValues); n > 0 {
		log.Warningf("lpsolve: %d dual values unavailable, using 0", n)
	}
	return res
}

func zeroResult(status Status, m *lpmodel.Model) Result {
	return Result{
		Status: status,
		Primal: make([]float64, m.NumVariables()),
		Duals:  make([]float64, m.NumConstraints()),
	}
}

func mapStatus(s linearsolver.ResponseStatus) Status {
	switch s {
	case linearsolver.Optimal:
		return Optimal
	case linearsolver.Infeasible:
		return Infeasible
	case linearsolver.Unbounded:
		return Unbounded
	default:
		return Undefined
	}
}

// fill copies `src` into `dst`, leaving 0 for missing or non-finite entries,
// and returns how many entries were left at 0 that way.
func fill(dst, src []float64) int {
	missing := 0
	for i := range dst {
		if i >= len(src) || !isFinite(src[i]) {
			missing++
			continue
		}
		dst[i] = src[i]
	}
	return missing
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
