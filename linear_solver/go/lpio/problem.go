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

// Package lpio reads linear programs from YAML or JSON problem files and
// renders results and what-if reports as protobuf Structs and JSON.
//
// A problem file looks like:
//
//	name: product_mix
//	sense: maximize
//	variables: [tables, chairs]
//	objective: [40, 30]
//	constraints:
//	  - name: wood
//	    coefficients: [1, 2]
//	    operator: "<="
//	    rhs: 16
//	  - name: labor
//	    coefficients: [3, 2]
//	    operator: "<="
//	    rhs: 24
//	what_if:
//	  - constraint: wood
//	    delta: 8
package lpio

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"gopkg.in/yaml.v3"
)

// Problem is the file representation of a linear program.
type Problem struct {
	Name        string           `yaml:"name"`
	Sense       string           `yaml:"sense"`
	Variables   []string         `yaml:"variables"`
	Objective   []float64        `yaml:"objective"`
	Constraints []ConstraintSpec `yaml:"constraints"`
	WhatIf      []WhatIfSpec     `yaml:"what_if"`
}

// ConstraintSpec is one constraint of a Problem.
type ConstraintSpec struct {
	Name         string    `yaml:"name"`
	Coefficients []float64 `yaml:"coefficients"`
	Operator     string    `yaml:"operator"`
	RHS          float64   `yaml:"rhs"`
}

// WhatIfSpec asks how the optimum changes when the right-hand side of
// Constraint, a constraint name or a 0-based index, increases by Delta.
type WhatIfSpec struct {
	Constraint string  `yaml:"constraint"`
	Delta      float64 `yaml:"delta"`
}

// ParseProblemYAML parses a Problem from YAML (or JSON) bytes and validates it.
func ParseProblemYAML(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse problem yaml: %w", err)
	}

	if err := validateProblem(&p); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}

	return &p, nil
}

// ParseProblemYAMLString parses a Problem from a YAML string and validates it.
func ParseProblemYAMLString(yamlText string) (*Problem, error) {
	return ParseProblemYAML([]byte(yamlText))
}

// LoadProblem loads and parses a problem file
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file %s: %w", path, err)
	}
	p, err := ParseProblemYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse problem file %s: %w", path, err)
	}
	return p, nil
}

func validateProblem(p *Problem) error {
	if _, err := lpmodel.ParseSense(p.Sense); err != nil {
		return err
	}

	n := len(p.Variables)
	if n == 0 {
		return fmt.Errorf("at least one variable must be defined")
	}
	varNames := make(map[string]bool)
	for i, name := range p.Variables {
		if name == "" {
			return fmt.Errorf("variable %d: name cannot be empty", i)
		}
		if varNames[name] {
			return fmt.Errorf("duplicate variable name: %s", name)
		}
		varNames[name] = true
	}

	if len(p.Objective) != 0 && len(p.Objective) != n {
		return fmt.Errorf("objective has %d coefficients, want %d", len(p.Objective), n)
	}

	ctNames := make(map[string]bool)
	for i, ct := range p.Constraints {
		if len(ct.Coefficients) != n {
			return fmt.Errorf("constraint %d: %d coefficients, want %d", i, len(ct.Coefficients), n)
		}
		if _, err := lpmodel.ParseOperator(ct.Operator); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
		name := constraintName(ct, i)
		if ctNames[name] {
			return fmt.Errorf("duplicate constraint name: %s", name)
		}
		ctNames[name] = true
	}

	for i, w := range p.WhatIf {
		if _, err := p.ConstraintIndex(w.Constraint); err != nil {
			return fmt.Errorf("what_if %d: %w", i, err)
		}
		if w.Delta < 0 {
			return fmt.Errorf("what_if %d: delta %v must be non-negative", i, w.Delta)
		}
	}
	return nil
}

// Build returns the model described by the problem. Constraints without a name
// are named R1, R2, ... after their position.
func (p *Problem) Build() (*lpmodel.Model, error) {
	sense, err := lpmodel.ParseSense(p.Sense)
	if err != nil {
		return nil, err
	}
	m, err := lpmodel.New(len(p.Variables), sense)
	if err != nil {
		return nil, err
	}
	for i, name := range p.Variables {
		if err := m.SetVariableName(i, name); err != nil {
			return nil, err
		}
	}
	if len(p.Objective) != 0 {
		if err := m.SetObjective(p.Objective); err != nil {
			return nil, fmt.Errorf("objective: %w", err)
		}
	}
	for i, ct := range p.Constraints {
		op, err := lpmodel.ParseOperator(ct.Operator)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		if _, err := m.AddConstraint(ct.Coefficients, ct.RHS, op, constraintName(ct, i)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ConstraintIndex resolves `ref`, a constraint name or a 0-based index, to the
// position of the constraint. Names take precedence.
func (p *Problem) ConstraintIndex(ref string) (int, error) {
	for i, ct := range p.Constraints {
		if constraintName(ct, i) == ref {
			return i, nil
		}
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("%w: no constraint named %q", lpmodel.ErrOutOfRange, ref)
	}
	if i < 0 || i >= len(p.Constraints) {
		return 0, fmt.Errorf("%w: constraint %d not in [0, %d)", lpmodel.ErrOutOfRange, i, len(p.Constraints))
	}
	return i, nil
}

func constraintName(ct ConstraintSpec, i int) string {
	if ct.Name != "" {
		return ct.Name
	}
	return fmt.Sprintf("R%d", i+1)
}
