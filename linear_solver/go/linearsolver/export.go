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
	"regexp"
	"strconv"
	"strings"

	"github.com/google/lpwhatif/linear_solver/go/lpmodel"
)

// ExportOptions groups all options for exporting models to text formats.
type ExportOptions struct {
	// Obfuscate replaces variable and constraint names by V<i> and C<i>.
	Obfuscate bool
	// MaxLineLength wraps long expressions; 0 means no limit.
	MaxLineLength int
}

// validLpName matches the names accepted by the CPLEX LP format.
var validLpName = regexp.MustCompile(`^[A-Za-z!"#$%&()/,;?@_'{}|~][A-Za-z0-9!"#$%&()/,.;?@_'{}|~]{0,254}$`)

// ExportModelAsLpFormat outputs the model as a string in CPLEX LP format.
//
// Usage:
//
//	modelStr, err := ExportModelAsLpFormat(model, ExportOptions{MaxLineLength: 80})
func ExportModelAsLpFormat(m *lpmodel.Model, options ExportOptions) (string, error) {
	if m == nil {
		return "", errors.New("cannot export a nil model as LP format")
	}
	varName := func(j int) string {
		if options.Obfuscate {
			return fmt.Sprintf("V%d", j)
		}
		return m.VariableName(j)
	}
	ctName := func(i int) string {
		if options.Obfuscate {
			return fmt.Sprintf("C%d", i)
		}
		return m.ConstraintName(i)
	}
	if !options.Obfuscate {
		for j := 0; j < m.NumVariables(); j++ {
			if !validLpName.MatchString(varName(j)) {
				return "", fmt.Errorf("cannot export variable name %q as LP format", varName(j))
			}
		}
		for i := 0; i < m.NumConstraints(); i++ {
			if !validLpName.MatchString(ctName(i)) {
				return "", fmt.Errorf("cannot export constraint name %q as LP format", ctName(i))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("\\ Generated by lpwhatif\n")
	if m.Sense() == lpmodel.Maximize {
		sb.WriteString("Maximize\n")
	} else {
		sb.WriteString("Minimize\n")
	}
	writeExpr(&sb, " Obj:", m.Objective(), varName, "", options.MaxLineLength)

	sb.WriteString("Subject To\n")
	for i, ct := range m.Constraints() {
		tail := fmt.Sprintf(" %s %s", ct.Operator, formatNumber(ct.RHS))
		writeExpr(&sb, " "+ctName(i)+":", ct.Coefficients, varName, tail, options.MaxLineLength)
	}

	sb.WriteString("Bounds\n")
	for j := 0; j < m.NumVariables(); j++ {
		fmt.Fprintf(&sb, " %s >= 0\n", varName(j))
	}
	sb.WriteString("End\n")
	return sb.String(), nil
}

// writeExpr writes `head term term ... tail` and a newline, wrapping before a
// term when the line would exceed maxLen.
func writeExpr(sb *strings.Builder, head string, coeffs []float64, name func(int) string, tail string, maxLen int) {
	var terms []string
	for j, v := range coeffs {
		if v == 0 {
			continue
		}
		terms = append(terms, formatTerm(v, name(j), len(terms) == 0))
	}
	if len(terms) == 0 {
		terms = append(terms, "0 "+name(0))
	}
	terms = append(terms, strings.TrimSpace(tail))

	line := head
	for _, t := range terms {
		if t == "" {
			continue
		}
		if maxLen > 0 && len(line)+1+len(t) > maxLen && strings.TrimSpace(line) != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
			line = " "
		}
		line += " " + t
	}
	sb.WriteString(line)
	sb.WriteString("\n")
}

func formatTerm(v float64, name string, first bool) string {
	sign := "+ "
	if v < 0 {
		sign = "- "
		v = -v
	}
	if first {
		sign = strings.TrimPrefix(sign, "+ ")
		if sign == "- " {
			sign = "-"
		}
	}
	if v == 1 {
		return sign + name
	}
	return sign + formatNumber(v) + " " + name
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
