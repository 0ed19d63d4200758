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
// The diet_lp_program command finds the cheapest mix of two foods meeting two
// nutrient requirements, using the linearsolver package directly.
package main

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/linearsolver"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
)

func dietLpProgram() error {
	model, err := lpmodel.New(2, lpmodel.Minimize)
	if err != nil {
		return fmt.Errorf("failed to create the model: %w", err)
	}
	if err := model.SetObjective([]float64{2, 3}); err != nil {
		return fmt.Errorf("failed to set the objective: %w", err)
	}
	if _, err := model.AddConstraint([]float64{1, 3}, 6, lpmodel.GreaterOrEqual, "protein"); err != nil {
		return fmt.Errorf("failed to add the protein constraint: %w", err)
	}
	if _, err := model.AddConstraint([]float64{2, 1}, 4, lpmodel.GreaterOrEqual, "fiber"); err != nil {
		return fmt.Errorf("failed to add the fiber constraint: %w", err)
	}

	lp, err := linearsolver.ExportModelAsLpFormat(model, linearsolver.ExportOptions{})
	if err != nil {
		return fmt.Errorf("failed to export the model: %w", err)
	}
	fmt.Print(lp)

	solver, err := linearsolver.New("diet", linearsolver.GonumSimplex)
	if err != nil {
		return fmt.Errorf("failed to create the solver: %w", err)
	}
	if err := solver.LoadModel(model); err != nil {
		return fmt.Errorf("failed to load the model: %w", err)
	}
	params := linearsolver.NewParameters()
	params.SetDoubleParam(linearsolver.PrimalTolerance, 1e-9)

	switch status := solver.SolveWithParameters(params); status {
	case linearsolver.Optimal:
		sol := solver.Solution()
		fmt.Printf("Cost = %.2f\n", sol.ObjectiveValue)
		fmt.Printf("x1 = %.2f, x2 = %.2f\n", sol.VariableValues[0], sol.VariableValues[1])
		fmt.Printf("Shadow prices = %.2f, %.2f\n", sol.DualValues[0], sol.DualValues[1])
		fmt.Printf("Verified: %v\n", solver.VerifySolution(1e-6))
	default:
		fmt.Printf("No solution found: %v\n", status)
	}

	return nil
}

func main() {
	if err := dietLpProgram(); err != nil {
		log.Exitf("dietLpProgram returned with error: %v", err)
	}
}

// [END program]
