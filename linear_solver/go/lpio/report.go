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

package lpio

import (
	"fmt"
	"math"

	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"github.com/google/lpwhatif/linear_solver/go/lpsolve"
	"github.com/google/lpwhatif/linear_solver/go/sensitivity"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// BindingTolerance is the largest gap between a constraint's activity and its
// right-hand side for which the constraint is reported as binding.
const BindingTolerance = 1e-6

// ResultToStruct renders `r`, the result of solving `m`, as a Struct:
//
//	{
//	  "status": "OPTIMAL",
//	  "objective_value": 340,
//	  "variables": [{"name": "x1", "value": 4}, ...],
//	  "constraints": [{"name": "R1", "operator": "<=", "rhs": 16,
//	                   "dual": 2.5, "activity": 16, "binding": true}, ...]
//	}
//
// Activities and binding flags are only set for optimal results.
func ResultToStruct(m *lpmodel.Model, r lpsolve.Result) (*structpb.Struct, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", lpmodel.ErrInvalidArgument)
	}
	if len(r.Primal) != m.NumVariables() || len(r.Duals) != m.NumConstraints() {
		return nil, fmt.Errorf("%w: result has %d values and %d duals for %d variables and %d constraints",
			lpmodel.ErrDimensionMismatch, len(r.Primal), len(r.Duals), m.NumVariables(), m.NumConstraints())
	}

	var activities []float64
	if r.IsOptimal() {
		var err error
		if activities, err = m.Activities(r.Primal); err != nil {
			return nil, err
		}
	}

	vars := make([]any, m.NumVariables())
	for j, v := range r.Primal {
		vars[j] = map[string]any{
			"name":  m.VariableName(j),
			"value": v,
		}
	}
	cts := make([]any, m.NumConstraints())
	for i, ct := range m.Constraints() {
		c := map[string]any{
			"name":     m.ConstraintName(i),
			"operator": ct.Operator.String(),
			"rhs":      ct.RHS,
			"dual":     r.Duals[i],
		}
		if activities != nil {
			c["activity"] = activities[i]
			c["binding"] = math.Abs(activities[i]-ct.RHS) <= BindingTolerance*(1+math.Abs(ct.RHS))
		}
		cts[i] = c
	}

	return structpb.NewStruct(map[string]any{
		"status":          r.Status.String(),
		"sense":           m.Sense().String(),
		"objective_value": r.ObjectiveValue,
		"variables":       vars,
		"constraints":     cts,
	})
}

// DeltaReportToStruct renders the what-if report `rep`, obtained by increasing
// the right-hand side of constraint `constraintIndex` of `m` by `delta`.
func DeltaReportToStruct(m *lpmodel.Model, constraintIndex int, delta float64, rep sensitivity.DeltaReport) (*structpb.Struct, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", lpmodel.ErrInvalidArgument)
	}
	rhs, err := m.RHS(constraintIndex)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{
		"constraint":                 m.ConstraintName(constraintIndex),
		"index":                      constraintIndex,
		"delta":                      delta,
		"new_rhs":                    rhs + delta,
		"new_objective_value":        rep.NewObjectiveValue,
		"improvement":                rep.Improvement,
		"predicted_improvement":      rep.PredictedImprovement,
		"is_beneficial_and_feasible": rep.IsBeneficialAndFeasible,
		"perturbed_status":           rep.PerturbedStatus.String(),
	})
}

// MarshalJSON renders `s` as indented JSON.
func MarshalJSON(s *structpb.Struct) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}
