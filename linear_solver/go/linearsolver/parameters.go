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

package linearsolver

// DoubleParam names a floating point solver parameter.
type DoubleParam int

// IntegerParam names an integer solver parameter.
type IntegerParam int

// Double params.
const (
	// PrimalTolerance bounds the accepted constraint violation of a solution.
	// Values smaller in magnitude are reported as exactly 0.
	PrimalTolerance DoubleParam = iota
	// DualTolerance is the reduced cost threshold below which the simplex
	// kernel declares optimality. It also bounds the accepted duality gap.
	DualTolerance
)

// Integer params.
const (
	// Presolve controls the optional model reductions.
	Presolve IntegerParam = iota
)

// Values of the Presolve parameter.
const (
	PresolveOff = 0
	PresolveOn  = 1
)

const (
	defaultPrimalTolerance = 1e-7
	defaultDualTolerance   = 1e-9
)

// Parameters holds the solver parameters.
//
// Use it like this:
//
//	p := NewParameters()
//	p.SetDoubleParam(PrimalTolerance, 1e-4)
//	p.SetIntegerParam(Presolve, PresolveOff)
type Parameters struct {
	doubles map[DoubleParam]float64
	ints    map[IntegerParam]int
}

// NewParameters returns parameters set to their defaults.
func NewParameters() *Parameters {
	return &Parameters{
		doubles: map[DoubleParam]float64{
			PrimalTolerance: defaultPrimalTolerance,
			DualTolerance:   defaultDualTolerance,
		},
		ints: map[IntegerParam]int{
			Presolve: PresolveOn,
		},
	}
}

// SetDoubleParam sets a floating point parameter.
func (p *Parameters) SetDoubleParam(k DoubleParam, v float64) {
	p.doubles[k] = v
}

// GetDoubleParam returns a floating point parameter.
func (p *Parameters) GetDoubleParam(k DoubleParam) float64 {
	return p.doubles[k]
}

// SetIntegerParam sets an integer parameter.
func (p *Parameters) SetIntegerParam(k IntegerParam, v int) {
	p.ints[k] = v
}

// GetIntegerParam returns an integer parameter.
func (p *Parameters) GetIntegerParam(k IntegerParam) int {
	return p.ints[k]
}

// Clone returns an independent copy of the parameters.
func (p *Parameters) Clone() *Parameters {
	c := NewParameters()
	for k, v := range p.doubles {
		c.doubles[k] = v
	}
	for k, v := range p.ints {
		c.ints[k] = v
	}
	return c
}
