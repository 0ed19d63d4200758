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

package lpmodel

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Activities returns the left-hand side value of every constraint at point
// `x`, in constraint order.
func (m *Model) Activities(x []float64) ([]float64, error) {
	if len(x) != m.numVars {
		return nil, fmt.Errorf("%w: point has %d values, want %d", ErrDimensionMismatch, len(x), m.numVars)
	}
	act := make([]float64, len(m.constraints))
	for i, c := range m.constraints {
		act[i] = floats.Dot(c.Coefficients, x)
	}
	return act, nil
}

// ObjectiveValue evaluates the objective at point `x`.
func (m *Model) ObjectiveValue(x []float64) (float64, error) {
	if len(x) != m.numVars {
		return 0, fmt.Errorf("%w: point has %d values, want %d", ErrDimensionMismatch, len(x), m.numVars)
	}
	return floats.Dot(m.objective, x), nil
}

// Violation returns how far the constraint at index `i` is from being
// satisfied at `x`; it is 0 for a satisfied constraint.
func (m *Model) Violation(i int, x []float64) (float64, error) {
	if err := m.checkConstraintIndex(i); err != nil {
		return 0, err
	}
	if len(x) != m.numVars {
		return 0, fmt.Errorf("%w: point has %d values, want %d", ErrDimensionMismatch, len(x), m.numVars)
	}
	c := m.constraints[i]
	lhs := floats.Dot(c.Coefficients, x)
	switch c.Operator {
	case LessOrEqual:
		return max(lhs-c.RHS, 0), nil
	case GreaterOrEqual:
		return max(c.RHS-lhs, 0), nil
	default:
		if lhs > c.RHS {
			return lhs - c.RHS, nil
		}
		return c.RHS - lhs, nil
	}
}
