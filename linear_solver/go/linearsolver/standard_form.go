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

import (
	"errors"
	"math"
	"slices"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// standardForm is a model rewritten as
//
//	minimize  c.x
//	s.t.      A x = b
//	          x >= 0
//
// where the first len(cols) columns of A are the kept structural variables and
// the remaining columns are one slack per kept inequality row.
type standardForm struct {
	// sign is +1 for a minimization and -1 for a maximization: c = sign * objective.
	sign float64
	// rows maps a row of A to its constraint index in the model.
	rows []int
	// cols maps a structural column of A to its variable index in the model.
	cols []int

	c []float64
	a *mat.Dense
	b []float64

	// infeasible is set when presolve proved the model infeasible.
	infeasible bool
	// improvingFreeCols lists variables with no constraint coefficient whose
	// cost improves the objective: the model is unbounded if it is feasible.
	improvingFreeCols []int
}

func (sf *standardForm) numRows() int {
	return len(sf.rows)
}

func (sf *standardForm) numCols() int {
	return len(sf.c)
}

// newStandardForm converts `m`. Rows without any non-zero coefficient are
// checked against their right-hand side and dropped, and so are columns without
// any non-zero coefficient: the simplex kernel rejects both. With presolve on,
// equality rows that are linear combinations of the equality rows kept before
// them are dropped as well, so that A has full row rank. A dropped row keeps a
// zero dual value.
func newStandardForm(m *lpmodel.Model, p *Parameters) *standardForm {
	tol := p.GetDoubleParam(PrimalTolerance)
	sf := &standardForm{sign: 1}
	if m.Sense() == lpmodel.Maximize {
		sf.sign = -1
	}
	cts := m.Constraints()

	for i, ct := range cts {
		if isZero(ct.Coefficients) {
			if !emptyRowSatisfied(ct, tol) {
				log.V(1).Infof("presolve: empty constraint %s (0 %v %v) is violated", m.ConstraintName(i), ct.Operator, ct.RHS)
				sf.infeasible = true
			}
			log.V(1).Infof("presolve: dropping empty constraint %s", m.ConstraintName(i))
			continue
		}
		if p.GetIntegerParam(Presolve) == PresolveOn && ct.Operator == lpmodel.Equal {
			if dependent, consistent := sf.dependentEquality(cts, ct, tol); dependent {
				if !consistent {
					log.V(1).Infof("presolve: equality constraint %s conflicts with the ones before it", m.ConstraintName(i))
					sf.infeasible = true
				}
				log.V(1).Infof("presolve: dropping constraint %s, a combination of the equalities before it", m.ConstraintName(i))
				continue
			}
		}
		sf.rows = append(sf.rows, i)
	}

	obj := m.Objective()
	for j := 0; j < m.NumVariables(); j++ {
		used := false
		for _, i := range sf.rows {
			if cts[i].Coefficients[j] != 0 {
				used = true
				break
			}
		}
		if used {
			sf.cols = append(sf.cols, j)
			continue
		}
		if sf.sign*obj[j] < 0 {
			sf.improvingFreeCols = append(sf.improvingFreeCols, j)
		}
		log.V(1).Infof("presolve: fixing unconstrained variable %s at 0", m.VariableName(j))
	}

	numSlacks := 0
	for _, i := range sf.rows {
		if cts[i].Operator != lpmodel.Equal {
			numSlacks++
		}
	}
	numCols := len(sf.cols) + numSlacks
	sf.c = make([]float64, numCols)
	for k, j := range sf.cols {
		sf.c[k] = sf.sign * obj[j]
	}
	if len(sf.rows) == 0 {
		return sf
	}

	sf.a = mat.NewDense(len(sf.rows), numCols, nil)
	sf.b = make([]float64, len(sf.rows))
	slack := len(sf.cols)
	for r, i := range sf.rows {
		ct := cts[i]
		for k, j := range sf.cols {
			sf.a.Set(r, k, ct.Coefficients[j])
		}
		switch ct.Operator {
		case lpmodel.LessOrEqual:
			sf.a.Set(r, slack, 1)
			slack++
		case lpmodel.GreaterOrEqual:
			sf.a.Set(r, slack, -1)
			slack++
		}
		sf.b[r] = ct.RHS
	}
	return sf
}

// dependentEquality reports whether the coefficients of `ct` are a linear
// combination of the equality rows kept so far, and if so whether its
// right-hand side equals the same combination of theirs. Kept equality rows are
// independent, so the combination is the least squares solution of E^T l = a.
func (sf *standardForm) dependentEquality(cts []lpmodel.Constraint, ct lpmodel.Constraint, tol float64) (dependent, consistent bool) {
	var eq []int
	for _, i := range sf.rows {
		if cts[i].Operator == lpmodel.Equal {
			eq = append(eq, i)
		}
	}
	n := len(ct.Coefficients)
	if len(eq) == 0 || len(eq) > n {
		return false, false
	}
	et := mat.NewDense(n, len(eq), nil)
	rhs := make([]float64, len(eq))
	for k, i := range eq {
		et.SetCol(k, cts[i].Coefficients)
		rhs[k] = cts[i].RHS
	}

	a := mat.NewVecDense(n, slices.Clone(ct.Coefficients))
	var l mat.VecDense
	if err := l.SolveVec(et, a); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return false, false
		}
	}
	var fit mat.VecDense
	fit.MulVec(et, &l)
	fit.SubVec(&fit, a)
	depTol := math.Max(tol, 1e-9)
	if mat.Norm(&fit, math.Inf(1)) > depTol*(1+floats.Norm(ct.Coefficients, math.Inf(1))) {
		return false, false
	}

	combined := 0.0
	for k, v := range rhs {
		combined += l.AtVec(k) * v
	}
	return true, math.Abs(combined-ct.RHS) <= depTol*(1+math.Abs(ct.RHS))
}

// expand maps a standard form point back to the model's variables.
func (sf *standardForm) expand(x []float64, numVars int) []float64 {
	values := make([]float64, numVars)
	for k, j := range sf.cols {
		values[j] = x[k]
	}
	return values
}

func emptyRowSatisfied(ct lpmodel.Constraint, tol float64) bool {
	switch ct.Operator {
	case lpmodel.LessOrEqual:
		return ct.RHS >= -tol
	case lpmodel.GreaterOrEqual:
		return ct.RHS <= tol
	default:
		return math.Abs(ct.RHS) <= tol
	}
}

func isZero(s []float64) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}
