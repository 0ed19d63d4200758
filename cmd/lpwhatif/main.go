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

// The lpwhatif command solves the linear program of a problem file, prints its
// optimal solution with shadow prices, and answers what-if questions on the
// constraints' right-hand sides.
//
// Usage:
//
//	lpwhatif -problem=product_mix.yaml
//	lpwhatif -problem=product_mix.yaml -constraint=wood -delta=8
//	lpwhatif -problem=product_mix.yaml -what_if_all=1 -format=json
//	lpwhatif -problem=product_mix.yaml -format=lp
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	log "github.com/golang/glog"
	"github.com/google/lpwhatif/linear_solver/go/linearsolver"
	"github.com/google/lpwhatif/linear_solver/go/lpio"
	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
	"github.com/google/lpwhatif/linear_solver/go/lpsolve"
	"github.com/google/lpwhatif/linear_solver/go/sensitivity"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	problemPath = flag.String("problem", "", "Path of the YAML or JSON problem file.")
	format      = flag.String("format", "text", "Output format: text, json or lp.")
	constraint  = flag.String("constraint", "", "Name or 0-based index of a constraint whose right-hand side is increased by -delta.")
	delta       = flag.Float64("delta", 0, "Increase of the right-hand side of -constraint.")
	whatIfAll   = flag.Float64("what_if_all", -1, "If non-negative, increase of the right-hand side tried on every constraint.")
	primalTol   = flag.Float64("primal_tolerance", 1e-7, "Primal feasibility tolerance of the simplex.")
	dualTol     = flag.Float64("dual_tolerance", 1e-9, "Dual feasibility tolerance of the simplex.")
	presolve    = flag.Bool("presolve", true, "Drop linearly dependent equality constraints before solving.")
)

type options struct {
	problemPath string
	format      string
	constraint  string
	delta       float64
	whatIfAll   float64
	primalTol   float64
	dualTol     float64
	presolve    bool
}

// whatIf is one answered what-if question.
type whatIf struct {
	index  int
	delta  float64
	report sensitivity.DeltaReport
}

func run(w io.Writer, opts options) error {
	if opts.problemPath == "" {
		return fmt.Errorf("-problem is required")
	}
	p, err := lpio.LoadProblem(opts.problemPath)
	if err != nil {
		return err
	}
	m, err := p.Build()
	if err != nil {
		return fmt.Errorf("failed to build the model: %w", err)
	}

	if opts.format == "lp" {
		s, err := linearsolver.ExportModelAsLpFormat(m, linearsolver.ExportOptions{MaxLineLength: 80})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q, want text, json or lp", opts.format)
	}

	params := linearsolver.NewParameters()
	params.SetDoubleParam(linearsolver.PrimalTolerance, opts.primalTol)
	params.SetDoubleParam(linearsolver.DualTolerance, opts.dualTol)
	if !opts.presolve {
		params.SetIntegerParam(linearsolver.Presolve, linearsolver.PresolveOff)
	}
	solver := lpsolve.NewSolver(lpsolve.NewSimplexBackend(params))
	res := solver.Solve(m)
	log.V(1).Infof("lpwhatif: %s solved, status %v", opts.problemPath, res.Status)

	type question struct {
		index int
		delta float64
	}
	var questions []question
	for _, q := range p.WhatIf {
		i, err := p.ConstraintIndex(q.Constraint)
		if err != nil {
			return err
		}
		questions = append(questions, question{i, q.Delta})
	}
	if opts.constraint != "" {
		i, err := p.ConstraintIndex(opts.constraint)
		if err != nil {
			return fmt.Errorf("-constraint: %w", err)
		}
		questions = append(questions, question{i, opts.delta})
	}
	if opts.whatIfAll >= 0 {
		for i := 0; i < m.NumConstraints(); i++ {
			questions = append(questions, question{i, opts.whatIfAll})
		}
	}

	var answers []whatIf
	for _, q := range questions {
		rep, err := sensitivity.AnalyzeDelta(solver, m, res, q.index, q.delta)
		if err != nil {
			return fmt.Errorf("what-if on %s: %w", m.ConstraintName(q.index), err)
		}
		answers = append(answers, whatIf{q.index, q.delta, rep})
	}

	if opts.format == "json" {
		return writeJSON(w, p.Name, m, res, answers)
	}
	return writeText(w, p.Name, m, res, answers)
}

func writeJSON(w io.Writer, name string, m *lpmodel.Model, res lpsolve.Result, answers []whatIf) error {
	rs, err := lpio.ResultToStruct(m, res)
	if err != nil {
		return err
	}
	reports := &structpb.ListValue{}
	for _, a := range answers {
		s, err := lpio.DeltaReportToStruct(m, a.index, a.delta, a.report)
		if err != nil {
			return err
		}
		reports.Values = append(reports.Values, structpb.NewStructValue(s))
	}
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":    structpb.NewStringValue(name),
		"result":  structpb.NewStructValue(rs),
		"what_if": structpb.NewListValue(reports),
	}}
	data, err := lpio.MarshalJSON(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeText(w io.Writer, name string, m *lpmodel.Model, res lpsolve.Result, answers []whatIf) error {
	if name != "" {
		fmt.Fprintf(w, "Problem %s (%v)\n", name, m.Sense())
	}
	switch res.Status {
	case lpsolve.Optimal:
		fmt.Fprintln(w, "Feasible solution")
	case lpsolve.Infeasible:
		fmt.Fprintln(w, "Infeasible solution: no point satisfies all the constraints.")
		return nil
	case lpsolve.Unbounded:
		fmt.Fprintln(w, "Unbounded solution: the objective can be improved without limit.")
		return nil
	default:
		fmt.Fprintf(w, "No solution: the solver ended with status %v.\n", res.Status)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nVariable\tValue")
	for j, v := range res.Primal {
		fmt.Fprintf(tw, "%s\t%.2f\n", m.VariableName(j), v)
	}
	fmt.Fprintf(tw, "\nObjective value\t%.2f\n", res.ObjectiveValue)

	act, err := m.Activities(res.Primal)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "\nConstraint\tActivity\tRHS\tShadow price\tBinding")
	for i, ct := range m.Constraints() {
		binding := math.Abs(act[i]-ct.RHS) <= lpio.BindingTolerance*(1+math.Abs(ct.RHS))
		fmt.Fprintf(tw, "%s\t%.2f\t%s %.2f\t%.2f\t%v\n", m.ConstraintName(i), act[i], ct.Operator, ct.RHS, res.Duals[i], binding)
	}
	if len(answers) > 0 {
		fmt.Fprintln(tw, "\nWhat if\tNew objective\tImprovement\tPredicted\tStatus\tBeneficial")
		for _, a := range answers {
			fmt.Fprintf(tw, "%s += %g\t%.2f\t%+.2f\t%+.2f\t%v\t%v\n", m.ConstraintName(a.index), a.delta,
				a.report.NewObjectiveValue, a.report.Improvement, a.report.PredictedImprovement,
				a.report.PerturbedStatus, a.report.IsBeneficialAndFeasible)
		}
	}
	return tw.Flush()
}

func main() {
	flag.Parse()
	opts := options{
		problemPath: *problemPath,
		format:      *format,
		constraint:  *constraint,
		delta:       *delta,
		whatIfAll:   *whatIfAll,
		primalTol:   *primalTol,
		dualTol:     *dualTol,
		presolve:    *presolve,
	}
	if err := run(os.Stdout, opts); err != nil {
		log.Exitf("lpwhatif returned with error: %v", err)
	}
}
