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
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	errKernelPanic = errors.New("simplex kernel panicked")
	errTooManyRows = errors.New("more rows than columns")
	errDualityGap  = errors.New("primal and dual objectives differ")
	errNoBasis     = errors.New("no basis at the primal solution")
	errDualInfeas  = errors.New("basis is not dual feasible")
)

// maxBasisCond is the largest condition number accepted for a basis matrix.
const maxBasisCond = 1e12

// solveModel runs the whole pipeline on `m` and always returns a solution;
// failures are reported through its status.
func solveModel(m *lpmodel.Model, p *Parameters) *Solution {
	sol := newSolution(m.NumVariables(), m.NumConstraints())
	primalTol := p.GetDoubleParam(PrimalTolerance)
	dualTol := p.GetDoubleParam(DualTolerance)

	sf := newStandardForm(m, p)
	if sf.infeasible {
		sol.Status = Infeasible
		return sol
	}

	var x []float64
	if sf.numRows() > 0 {
		if sf.numRows() > sf.numCols() {
			log.V(1).Infof("simplex: %d rows, %d columns: %v", sf.numRows(), sf.numCols(), errTooManyRows)
			sol.Status = Abnormal
			return sol
		}
		_, xs, err := runSimplex(sf.c, sf.a, sf.b, dualTol)
		switch {
		case err == nil:
		case errors.Is(err, lp.ErrInfeasible):
			sol.Status = Infeasible
			return sol
		case errors.Is(err, lp.ErrUnbounded):
			sol.Status = Unbounded
			return sol
		default:
			log.V(1).Infof("simplex: primal solve failed: %v", err)
			sol.Status = Abnormal
			return sol
		}
		x = xs
	}
	if len(sf.improvingFreeCols) > 0 {
		log.V(1).Infof("simplex: unconstrained variables %v improve the objective", sf.improvingFreeCols)
		sol.Status = Unbounded
		return sol
	}

	values := sf.expand(x, m.NumVariables())
	snap(values, primalTol)
	objective, err := m.ObjectiveValue(values)
	if err != nil {
		log.Errorf("simplex: %v", err)
		sol.Status = Abnormal
		return sol
	}
	sol.Status = Optimal
	sol.VariableValues = values
	sol.ObjectiveValue = objective

	for i := range sol.DualValues {
		sol.DualValues[i] = 0
	}
	if sf.numRows() == 0 {
		return sol
	}
	y, err := basisDuals(sf, x, primalTol, dualTol)
	if err != nil {
		log.V(1).Infof("simplex: %v, solving the dual program", err)
		y, err = solveDual(sf, dualTol)
	}
	if err == nil {
		primalObj := floats.Dot(sf.c, x)
		dualObj := floats.Dot(sf.b, y)
		if math.Abs(primalObj-dualObj) > gapTolerance(primalTol, primalObj) {
			err = fmt.Errorf("%w: %v vs %v", errDualityGap, primalObj, dualObj)
		}
	}
	if err != nil {
		log.Warningf("simplex: dual values unavailable: %v", err)
		for _, i := range sf.rows {
			sol.DualValues[i] = math.NaN()
		}
		return sol
	}
	for r, i := range sf.rows {
		sol.DualValues[i] = sf.sign * y[r]
	}
	snap(sol.DualValues, primalTol)
	return sol
}

// basisDuals computes y = B^-T c_B for the basis B of the vertex `x`: the
// columns where x is positive, completed with linearly independent columns when
// x is degenerate. It fails if no such basis exists or if the reduced costs
// c - A^T y are not all non-negative, which can happen on degenerate vertices.
func basisDuals(sf *standardForm, x []float64, primalTol, dualTol float64) ([]float64, error) {
	m, n := sf.numRows(), sf.numCols()
	var basic []int
	inBasis := make([]bool, n)
	for j, v := range x {
		if v > primalTol {
			basic = append(basic, j)
			inBasis[j] = true
		}
	}
	if len(basic) > m {
		return nil, fmt.Errorf("%w: %d positive columns for %d rows", errNoBasis, len(basic), m)
	}
	if len(basic) > 0 && !independent(sf.a, basic) {
		return nil, fmt.Errorf("%w: positive columns are dependent", errNoBasis)
	}
	// Slack columns come last; walking backwards prefers them.
	for j := n - 1; j >= 0 && len(basic) < m; j-- {
		if inBasis[j] {
			continue
		}
		if independent(sf.a, append(basic, j)) {
			basic = append(basic, j)
			inBasis[j] = true
		}
	}
	if len(basic) < m {
		return nil, fmt.Errorf("%w: rank below %d", errNoBasis, m)
	}

	ab := mat.NewDense(m, m, nil)
	extractColumns(ab, sf.a, basic)
	cb := make([]float64, m)
	for k, j := range basic {
		cb[k] = sf.c[j]
	}
	var yv mat.VecDense
	if err := yv.SolveVec(ab.T(), mat.NewVecDense(m, cb)); err != nil {
		return nil, fmt.Errorf("%w: %v", errNoBasis, err)
	}
	y := make([]float64, m)
	for i := range y {
		y[i] = yv.AtVec(i)
	}

	col := make([]float64, m)
	for j := 0; j < n; j++ {
		mat.Col(col, j, sf.a)
		if reduced := sf.c[j] - floats.Dot(col, y); reduced < -math.Max(dualTol, 1e-9)*(1+math.Abs(sf.c[j])) {
			return nil, fmt.Errorf("%w: column %d has reduced cost %v", errDualInfeas, j, reduced)
		}
	}
	return y, nil
}

// independent reports whether the given columns of `a` are linearly
// independent.
func independent(a *mat.Dense, cols []int) bool {
	m, _ := a.Dims()
	if len(cols) > m {
		return false
	}
	sub := mat.NewDense(m, len(cols), nil)
	extractColumns(sub, a, cols)
	return mat.Cond(sub, 1) < maxBasisCond
}

// extractColumns copies the columns `cols` of `a` into the columns of `dst`.
func extractColumns(dst *mat.Dense, a mat.Matrix, cols []int) {
	r, _ := dst.Dims()
	col := make([]float64, r)
	for k, j := range cols {
		mat.Col(col, j, a)
		dst.SetCol(k, col)
	}
}

// solveDual solves the dual of the standard form program,
//
//	maximize  b.y
//	s.t.      A^T y <= c,  y free,
//
// rewritten in standard form over y+, y- and one slack per column of A:
//
//	minimize  -b.y+ + b.y-
//	s.t.      A^T y+ - A^T y- + t = c
//	          y+, y-, t >= 0.
//
// It returns y = y+ - y-, the derivative of the optimal value of the standard
// form program with respect to b.
func solveDual(sf *standardForm, tol float64) ([]float64, error) {
	m, n := sf.numRows(), sf.numCols()
	d := mat.NewDense(n, 2*m+n, nil)
	cost := make([]float64, 2*m+n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := sf.a.At(i, j)
			d.Set(j, i, v)
			d.Set(j, m+i, -v)
		}
		cost[i] = -sf.b[i]
		cost[m+i] = sf.b[i]
	}
	for j := 0; j < n; j++ {
		d.Set(j, 2*m+j, 1)
	}

	_, z, err := runSimplex(cost, d, sf.c, tol)
	if err != nil {
		return nil, fmt.Errorf("dual solve: %w", err)
	}
	y := make([]float64, m)
	floats.SubTo(y, z[:m], z[m:2*m])
	return y, nil
}

// runSimplex calls the gonum kernel, turning its panics on malformed input into
// errors.
func runSimplex(c []float64, a mat.Matrix, b []float64, tol float64) (opt float64, x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("simplex: recovered from kernel panic: %v", r)
			opt, x, err = math.NaN(), nil, fmt.Errorf("%w: %v", errKernelPanic, r)
		}
	}()
	return lp.Simplex(c, a, b, tol, nil)
}

func gapTolerance(tol, obj float64) float64 {
	return math.Max(tol, 1e-6) * (1 + math.Abs(obj))
}

// snap replaces values within `tol` of zero by 0.
func snap(s []float64, tol float64) {
	for i, v := range s {
		if math.Abs(v) <= tol {
			s[i] = 0
		}
	}
}
