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

package sensitivity_test

import (
	"fmt"

	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"github.com/google/lpwhatif/linear_solver/go/lpsolve"
	"github.com/google/lpwhatif/linear_solver/go/sensitivity"
)

func ExampleAnalyzeDelta() {
	model, _ := lpmodel.New(2, lpmodel.Maximize)
	model.SetObjective([]float64{40, 30})
	model.AddConstraint([]float64{1, 2}, 16, lpmodel.LessOrEqual, "wood")
	model.AddConstraint([]float64{3, 2}, 24, lpmodel.LessOrEqual, "labor")

	solver := lpsolve.DefaultSolver()
	result := solver.Solve(model)
	fmt.Printf("%v: x = [%.2f %.2f], objective = %.2f, duals = [%.2f %.2f]\n",
		result.Status, result.Primal[0], result.Primal[1], result.ObjectiveValue, result.Duals[0], result.Duals[1])

	report, err := sensitivity.AnalyzeDelta(solver, model, result, 0, 8)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("wood += 8: objective = %.2f, improvement = %.2f, beneficial = %v\n",
		report.NewObjectiveValue, report.Improvement, report.IsBeneficialAndFeasible)
	// Output:
	// OPTIMAL: x = [4.00 6.00], objective = 340.00, duals = [2.50 12.50]
	// wood += 8: objective = 360.00, improvement = 20.00, beneficial = true
}
