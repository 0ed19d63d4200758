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

package sensitivity

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/lpwhatif/linear_solver/go/linearsolver"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"github.com/google/lpwhatif/linear_solver/go/lpsolve"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

// countingBackend runs the simplex and counts the calls.
type countingBackend struct {
	backend lpsolve.Backend
	calls   int
}

func (c *countingBackend) Solve(m *lpmodel.Model) (*linearsolver.Solution, error) {
	c.calls++
	return c.backend.Solve(m)
}

func newCountingSolver() (*lpsolve.Solver, *countingBackend) {
	cb := &countingBackend{backend: lpsolve.NewSimplexBackend(nil)}
	return lpsolve.NewSolver(cb), cb
}

type row struct {
	coeffs []float64
	op     lpmodel.Operator
	rhs    float64
}

func buildModel(t *testing.T, sense lpmodel.Sense, obj []float64, rows ...row) *lpmodel.Model {
	t.Helper()
	m, err := lpmodel.New(len(obj), sense)
	if err != nil {
		t.Fatalf("lpmodel.New() returned with unexpected error %v", err)
	}
	if err := m.SetObjective(obj); err != nil {
		t.Fatalf("SetObjective() returned with unexpected error %v", err)
	}
	for i, r := range rows {
		if _, err := m.AddConstraint(r.coeffs, r.rhs, r.op, ""); err != nil {
			t.Fatalf("AddConstraint(%d) returned with unexpected error %v", i, err)
		}
	}
	return m
}

func productMix(t *testing.T) *lpmodel.Model {
	return buildModel(t, lpmodel.Maximize, []float64{40, 30},
		row{[]float64{1, 2}, lpmodel.LessOrEqual, 16},
		row{[]float64{3, 2}, lpmodel.LessOrEqual, 24})
}

func diet(t *testing.T) *lpmodel.Model {
	return buildModel(t, lpmodel.Minimize, []float64{2, 3},
		row{[]float64{1, 3}, lpmodel.GreaterOrEqual, 6},
		row{[]float64{2, 1}, lpmodel.GreaterOrEqual, 4})
}

func TestAnalyzeDelta(t *testing.T) {
	testCases := []struct {
		name  string
		model func(t *testing.T) *lpmodel.Model
		index int
		delta float64
		want  DeltaReport
	}{
		{
			name:  "relax first resource",
			model: productMix,
			index: 0,
			delta: 8,
			want: DeltaReport{
				NewObjectiveValue:       360,
				Improvement:             20,
				IsBeneficialAndFeasible: true,
				PredictedImprovement:    20,
				PerturbedStatus:         lpsolve.Optimal,
			},
		},
		{
			name:  "relax second resource",
			model: productMix,
			index: 1,
			delta: 8,
			want: DeltaReport{
				NewObjectiveValue:       440,
				Improvement:             100,
				IsBeneficialAndFeasible: true,
				PredictedImprovement:    100,
				PerturbedStatus:         lpsolve.Optimal,
			},
		},
		{
			name:  "zero delta",
			model: productMix,
			index: 1,
			delta: 0,
			want: DeltaReport{
				NewObjectiveValue:       340,
				IsBeneficialAndFeasible: true,
				PerturbedStatus:         lpsolve.Optimal,
			},
		},
		{
			name:  "greater or equal is tightened",
			model: diet,
			index: 0,
			delta: 3,
			want: DeltaReport{
				NewObjectiveValue:    9.6,
				Improvement:          2.4,
				PredictedImprovement: 2.4,
				PerturbedStatus:      lpsolve.Optimal,
			},
		},
		{
			name: "perturbation becomes infeasible",
			model: func(t *testing.T) *lpmodel.Model {
				return buildModel(t, lpmodel.Maximize, []float64{1},
					row{[]float64{1}, lpmodel.LessOrEqual, 5},
					row{[]float64{1}, lpmodel.GreaterOrEqual, 3})
			},
			index: 1,
			delta: 5,
			want: DeltaReport{
				NewObjectiveValue:       5,
				IsBeneficialAndFeasible: true,
				PerturbedStatus:         lpsolve.Infeasible,
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			m := test.model(t)
			s, cb := newCountingSolver()
			original := s.Solve(m)
			if !original.IsOptimal() {
				t.Fatalf("Solve() = %v, want %v", original.Status, lpsolve.Optimal)
			}
			got, err := AnalyzeDelta(s, m, original, test.index, test.delta)
			if err != nil {
				t.Fatalf("AnalyzeDelta() returned with unexpected error %v", err)
			}
			if diff := cmp.Diff(test.want, got, approx); diff != "" {
				t.Errorf("AnalyzeDelta() returned with unexpected diff (-want+got):\n%s", diff)
			}
			if cb.calls != 2 {
				t.Errorf("backend called %d times, want 2", cb.calls)
			}
		})
	}
}

func TestAnalyzeDelta_DoesNotMutateInputs(t *testing.T) {
	m := productMix(t)
	s, _ := newCountingSolver()
	original := s.Solve(m)
	saved := lpsolve.Result{
		Status:         original.Status,
		Primal:         append([]float64(nil), original.Primal...),
		ObjectiveValue: original.ObjectiveValue,
		Duals:          append([]float64(nil), original.Duals...),
	}

	if _, err := AnalyzeDelta(s, m, original, 0, 8); err != nil {
		t.Fatalf("AnalyzeDelta() returned with unexpected error %v", err)
	}
	if rhs, err := m.RHS(0); err != nil || rhs != 16 {
		t.Errorf("RHS(0) after AnalyzeDelta() = %v, %v, want 16, nil", rhs, err)
	}
	if diff := cmp.Diff(saved, original); diff != "" {
		t.Errorf("AnalyzeDelta() mutated the original result (-before+after):\n%s", diff)
	}
	if diff := cmp.Diff(original, s.Solve(m)); diff != "" {
		t.Errorf("Solve() after AnalyzeDelta() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestAnalyzeDelta_InvalidArguments(t *testing.T) {
	m := productMix(t)
	original := lpsolve.Result{
		Status:         lpsolve.Optimal,
		Primal:         []float64{4, 6},
		ObjectiveValue: 340,
		Duals:          []float64{2.5, 12.5},
	}
	testCases := []struct {
		name    string
		index   int
		delta   float64
		wantErr error
	}{
		{"negative index", -1, 1, lpmodel.ErrOutOfRange},
		{"index too large", 2, 1, lpmodel.ErrOutOfRange},
		{"negative delta", 0, -0.5, lpmodel.ErrInvalidArgument},
		{"NaN delta", 0, math.NaN(), lpmodel.ErrInvalidArgument},
		{"infinite delta", 0, math.Inf(1), lpmodel.ErrInvalidArgument},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			s, cb := newCountingSolver()
			_, err := AnalyzeDelta(s, m, original, test.index, test.delta)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("AnalyzeDelta(%d, %v) err = %v, want %v", test.index, test.delta, err, test.wantErr)
			}
			if cb.calls != 0 {
				t.Errorf("AnalyzeDelta(%d, %v) called the backend %d times, want 0", test.index, test.delta, cb.calls)
			}
		})
	}

	s, _ := newCountingSolver()
	if _, err := AnalyzeDelta(s, nil, original, 0, 1); !errors.Is(err, lpmodel.ErrInvalidArgument) {
		t.Errorf("AnalyzeDelta(nil model) err = %v, want %v", err, lpmodel.ErrInvalidArgument)
	}
}

func TestAnalyzeDelta_NilSolver(t *testing.T) {
	m := productMix(t)
	original := lpsolve.Solve(m)
	got, err := AnalyzeDelta(nil, m, original, 0, 8)
	if err != nil {
		t.Fatalf("AnalyzeDelta(nil solver) returned with unexpected error %v", err)
	}
	want := DeltaReport{
		NewObjectiveValue:       360,
		Improvement:             20,
		IsBeneficialAndFeasible: true,
		PredictedImprovement:    20,
		PerturbedStatus:         lpsolve.Optimal,
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("AnalyzeDelta(nil solver) returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestAnalyzeDelta_NonOptimalOriginal(t *testing.T) {
	m := buildModel(t, lpmodel.Maximize, []float64{1, 1},
		row{[]float64{1, 1}, lpmodel.LessOrEqual, 2},
		row{[]float64{1, 1}, lpmodel.GreaterOrEqual, 5})
	s, cb := newCountingSolver()
	original := s.Solve(m)
	if original.Status != lpsolve.Infeasible {
		t.Fatalf("Solve() = %v, want %v", original.Status, lpsolve.Infeasible)
	}

	got, err := AnalyzeDelta(s, m, original, 0, 10)
	if err != nil {
		t.Fatalf("AnalyzeDelta() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff(DeltaReport{PerturbedStatus: lpsolve.Undefined}, got); diff != "" {
		t.Errorf("AnalyzeDelta() returned with unexpected diff (-want+got):\n%s", diff)
	}
	if cb.calls != 1 {
		t.Errorf("backend called %d times, want 1", cb.calls)
	}
}

func TestAnalyzeEach(t *testing.T) {
	m := productMix(t)
	s, cb := newCountingSolver()
	original := s.Solve(m)

	got, err := AnalyzeEach(s, m, original, 8)
	if err != nil {
		t.Fatalf("AnalyzeEach() returned with unexpected error %v", err)
	}
	want := []DeltaReport{
		{NewObjectiveValue: 360, Improvement: 20, IsBeneficialAndFeasible: true, PredictedImprovement: 20, PerturbedStatus: lpsolve.Optimal},
		{NewObjectiveValue: 440, Improvement: 100, IsBeneficialAndFeasible: true, PredictedImprovement: 100, PerturbedStatus: lpsolve.Optimal},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("AnalyzeEach() returned with unexpected diff (-want+got):\n%s", diff)
	}
	if cb.calls != 3 {
		t.Errorf("backend called %d times, want 3", cb.calls)
	}

	if _, err := AnalyzeEach(s, m, original, -1); !errors.Is(err, lpmodel.ErrInvalidArgument) {
		t.Errorf("AnalyzeEach(-1) err = %v, want %v", err, lpmodel.ErrInvalidArgument)
	}
}
