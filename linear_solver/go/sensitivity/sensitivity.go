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

// Package sensitivity answers "what if" questions on a solved model: how the
// optimal objective moves when one constraint's right-hand side changes.
package sensitivity

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"github.com/google/lpwhatif/linear_solver/go/lpsolve"
)

// DeltaReport is the answer to one what-if question.
type DeltaReport struct {
	// NewObjectiveValue is the optimum of the perturbed model, or the original
	// optimum when the perturbed model has no optimal solution.
	NewObjectiveValue float64
	// Improvement is NewObjectiveValue minus the original optimum.
	Improvement float64
	// IsBeneficialAndFeasible is true when NewObjectiveValue is at least as
	// good as the original optimum in the model's sense. A perturbation
	// without optimal solution counts as no change; check PerturbedStatus to
	// tell it apart.
	IsBeneficialAndFeasible bool
	// PredictedImprovement is the first order estimate dual * delta.
	PredictedImprovement float64
	// PerturbedStatus is the status of the perturbed solve, Undefined when no
	// solve ran.
	PerturbedStatus lpsolve.Status
}

// AnalyzeDelta solves a copy of `m` where the right-hand side of constraint
// `constraintIndex` is increased by `delta`, and compares its optimum with
// `original`, the result of solving `m`.
//
// The right-hand side is shifted by +delta whatever the operator: for a `>=`
// constraint this tightens the feasible region.
//
// Errors wrap lpmodel.ErrOutOfRange for a bad index and
// lpmodel.ErrInvalidArgument for a negative or non-finite delta; in both cases
// nothing is solved. When `original` is not optimal no solve runs either and
// the report is the zero value: not beneficial.
// Neither `m` nor `original` is modified. A nil `s` solves with
// lpsolve.DefaultSolver().
func AnalyzeDelta(s *lpsolve.Solver, m *lpmodel.Model, original lpsolve.Result, constraintIndex int, delta float64) (DeltaReport, error) {
	if m == nil {
		return DeltaReport{}, fmt.Errorf("%w: nil model", lpmodel.ErrInvalidArgument)
	}
	if constraintIndex < 0 || constraintIndex >= m.NumConstraints() {
		return DeltaReport{}, fmt.Errorf("%w: constraint %d not in [0, %d)", lpmodel.ErrOutOfRange, constraintIndex, m.NumConstraints())
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return DeltaReport{}, fmt.Errorf("%w: delta %v must be finite and non-negative", lpmodel.ErrInvalidArgument, delta)
	}

	if !original.IsOptimal() {
		log.V(1).Infof("sensitivity: original status %v, skipping what-if on %s", original.Status, m.ConstraintName(constraintIndex))
		return DeltaReport{PerturbedStatus: lpsolve.Undefined}, nil
	}

	if s == nil {
		s = lpsolve.DefaultSolver()
	}
	perturbed := m.Clone()
	rhs, err := perturbed.RHS(constraintIndex)
	if err != nil {
		return DeltaReport{}, err
	}
	if err := perturbed.SetRHS(constraintIndex, rhs+delta); err != nil {
		return DeltaReport{}, err
	}
	res := s.Solve(perturbed)

	rep := DeltaReport{
		NewObjectiveValue: original.ObjectiveValue,
		PerturbedStatus:   res.Status,
	}
	if constraintIndex < len(original.Duals) {
		rep.PredictedImprovement = original.Duals[constraintIndex] * delta
	}
	if res.IsOptimal() {
		rep.NewObjectiveValue = res.ObjectiveValue
	}
	rep.Improvement = rep.NewObjectiveValue - original.ObjectiveValue
	if m.Sense() == lpmodel.Maximize {
		rep.IsBeneficialAndFeasible = rep.NewObjectiveValue >= original.ObjectiveValue
	} else {
		rep.IsBeneficialAndFeasible = rep.NewObjectiveValue <= original.ObjectiveValue
	}
	log.V(1).Infof("sensitivity: %s %v -> %v: status %v, objective %v -> %v",
		m.ConstraintName(constraintIndex), rhs, rhs+delta, res.Status, original.ObjectiveValue, rep.NewObjectiveValue)
	return rep, nil
}

// AnalyzeEach runs AnalyzeDelta with the same `delta` on every constraint of
// `m`, in order.
func AnalyzeEach(s *lpsolve.Solver, m *lpmodel.Model, original lpsolve.Result, delta float64) ([]DeltaReport, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", lpmodel.ErrInvalidArgument)
	}
	reports := make([]DeltaReport, 0, m.NumConstraints())
	for i := 0; i < m.NumConstraints(); i++ {
		rep, err := AnalyzeDelta(s, m, original, i, delta)
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", m.ConstraintName(i), err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
