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

// [START program]
// The simple_lp_program command solves a small product mix problem, prints its
// shadow prices and checks one of them by relaxing a constraint.
package main

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"github.com/google/lpwhatif/linear_solver/go/lpsolve"
	"github.com/google/lpwhatif/linear_solver/go/sensitivity"
)

func simpleLpProgram() error {
	// [START model]
	model, err := lpmodel.New(2, lpmodel.Maximize)
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	for j, name := range []string{"tables", "chairs"} {
		if err := model.SetVariableName(j, name); err != nil {
			return fmt.Errorf("failed to name variable %d: %w", j, err)
		}
	}
	if err := model.SetObjective([]float64{40, 30}); err != nil {
		return fmt.Errorf("failed to set the objective: %w", err)
	}
	wood, err := model.AddConstraint([]float64{1, 2}, 16, lpmodel.LessOrEqual, "wood")
	if err != nil {
		return fmt.Errorf("failed to add the wood constraint: %w", err)
	}
	if _, err := model.AddConstraint([]float64{3, 2}, 24, lpmodel.LessOrEqual, "labor"); err != nil {
		return fmt.Errorf("failed to add the labor constraint: %w", err)
	}
	// [END model]

	// [START solve]
	solver := lpsolve.DefaultSolver()
	result := solver.Solve(model)
	// [END solve]

	// [START print_solution]
	if !result.IsOptimal() {
		fmt.Printf("No optimal solution found: %v\n", result.Status)
		return nil
	}
	fmt.Printf("Objective value = %.2f\n", result.ObjectiveValue)
	for j, v := range result.Primal {
		fmt.Printf("%s = %.2f\n", model.VariableName(j), v)
	}
	for i, d := range result.Duals {
		fmt.Printf("Shadow price of %s = %.2f\n", model.ConstraintName(i), d)
	}
	// [END print_solution]

	// [START what_if]
	report, err := sensitivity.AnalyzeDelta(solver, model, result, wood, 8)
	if err != nil {
		return fmt.Errorf("failed to analyze the wood constraint: %w", err)
	}
	fmt.Printf("With 8 more units of wood: objective %.2f (%+.2f), beneficial: %v\n",
		report.NewObjectiveValue, report.Improvement, report.IsBeneficialAndFeasible)
	// [END what_if]

	return nil
}

func main() {
	if err := simpleLpProgram(); err != nil {
		log.Exitf("simpleLpProgram returned with error: %v", err)
	}
}

// [END program]
