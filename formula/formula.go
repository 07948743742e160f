// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package formula evaluates user-defined ratio expressions over canonical
// (or custom) statement line items. Expressions are plain arithmetic and may
// reference other custom ratios; references are resolved through an explicit
// dependency graph with cycle detection rather than recursive substitution.
package formula

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/penny-vault/pvratios/data"
)

var (
	// ErrUnresolvedReference indicates a custom ratio references a name that
	// is neither a statement line item nor another custom ratio, or that the
	// custom ratio definitions form a cycle.
	ErrUnresolvedReference = errors.New("unresolved reference in custom ratio")
)

// identRe matches word-like tokens in a rewritten expression. After
// substitution the only legal identifiers are the placeholders assigned to
// known names; any other token is an unresolved reference.
var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// arithmetic is the expression language used for custom ratios: gval's
// arithmetic with division redefined to propagate NaN on zero denominators
// instead of returning infinity.
var arithmetic = gval.NewLanguage(
	gval.Arithmetic(),
	gval.InfixNumberOperator("/", func(a, b float64) (interface{}, error) {
		return data.SafeDiv(a, b), nil
	}),
)

// Registry holds named custom ratio definitions. Definitions are not
// validated when added; resolution errors surface when the registry is
// evaluated against a set of statements.
type Registry struct {
	names []string
	exprs map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		exprs: make(map[string]string),
	}
}

// Define adds or replaces a custom ratio. Definition order is preserved in
// the evaluated output.
func (registry *Registry) Define(name, expression string) {
	if _, ok := registry.exprs[name]; !ok {
		registry.names = append(registry.names, name)
	}

	registry.exprs[name] = expression
}

// Names returns the custom ratio names in definition order.
func (registry *Registry) Names() []string {
	return registry.names
}

// Len returns the number of defined custom ratios.
func (registry *Registry) Len() int {
	return len(registry.names)
}

// Evaluate computes every custom ratio against one ticker's normalized
// statements and returns them as a table aligned to the statement periods.
// Definition order does not matter: ratios referencing other custom ratios
// are ordered by dependency first. A reference to an undefined name or a
// dependency cycle fails with ErrUnresolvedReference.
func (registry *Registry) Evaluate(statements *data.Statements) (*data.Table, error) {
	periods := statements.IncomeStatement.Periods()

	// line-item series available to expressions, later joined by computed
	// custom ratios
	available := make(map[string]data.Series)
	for _, table := range []*data.Table{statements.BalanceSheet, statements.IncomeStatement, statements.CashFlow} {
		if table == nil {
			continue
		}

		for _, label := range table.Labels() {
			if _, ok := available[label]; !ok {
				available[label] = table.Row(label)
			}
		}
	}

	compiled, err := registry.compile(available)
	if err != nil {
		return nil, err
	}

	order, err := registry.topoSort(compiled)
	if err != nil {
		return nil, err
	}

	for _, name := range order {
		series, err := compiled[name].evaluate(periods, available)
		if err != nil {
			return nil, err
		}

		available[name] = series
	}

	result := data.NewTable(periods)
	for _, name := range registry.names {
		result.SetRow(name, available[name])
	}

	return result, nil
}

// compiledExpr is a custom ratio expression with every known name replaced
// by a placeholder variable.
type compiledExpr struct {
	name      string
	rewritten string
	vars      map[string]string // placeholder -> referenced name
	deps      []string          // referenced custom ratio names
}

// compile rewrites each expression, replacing statement line items and
// custom ratio names (longest first, so names that contain other names as
// substrings resolve correctly) with placeholder identifiers.
func (registry *Registry) compile(available map[string]data.Series) (map[string]*compiledExpr, error) {
	known := make([]string, 0, len(available)+len(registry.names))
	for label := range available {
		known = append(known, label)
	}

	known = append(known, registry.names...)
	sort.Slice(known, func(i, j int) bool {
		return len(known[i]) > len(known[j])
	})

	compiled := make(map[string]*compiledExpr, len(registry.names))
	for _, name := range registry.names {
		expr := &compiledExpr{
			name: name,
			vars: make(map[string]string),
		}

		original := registry.exprs[name]
		rewritten := original
		nextVar := 0
		for _, candidate := range known {
			if !strings.Contains(rewritten, candidate) {
				continue
			}

			// skip placeholder names the expression already contains so an
			// unknown token can never masquerade as a substitution
			placeholder := fmt.Sprintf("v%d", nextVar)
			for strings.Contains(original, placeholder) {
				nextVar++
				placeholder = fmt.Sprintf("v%d", nextVar)
			}
			nextVar++

			rewritten = strings.ReplaceAll(rewritten, candidate, placeholder)
			expr.vars[placeholder] = candidate

			if _, isCustom := registry.exprs[candidate]; isCustom {
				expr.deps = append(expr.deps, candidate)
			}
		}

		// anything word-like that is not an assigned placeholder references
		// an unknown line item or ratio; comparing against the assigned set
		// catches unknown names that merely look like placeholders
		for _, ident := range identRe.FindAllString(rewritten, -1) {
			if _, assigned := expr.vars[ident]; !assigned {
				return nil, fmt.Errorf("%w: %q references unknown name %q", ErrUnresolvedReference, name, ident)
			}
		}

		expr.rewritten = rewritten
		compiled[name] = expr
	}

	return compiled, nil
}

// topoSort orders custom ratios so that every ratio is evaluated after the
// ratios it references. A cycle fails with ErrUnresolvedReference naming
// the ratios involved.
func (registry *Registry) topoSort(compiled map[string]*compiledExpr) ([]string, error) {
	inDegree := make(map[string]int, len(compiled))
	dependents := make(map[string][]string, len(compiled))

	for name, expr := range compiled {
		if _, ok := inDegree[name]; !ok {
			inDegree[name] = 0
		}

		for _, dep := range expr.deps {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	queue := make([]string, 0, len(compiled))
	for _, name := range registry.names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, len(compiled))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(compiled) {
		cyclic := make([]string, 0)
		for _, name := range registry.names {
			if inDegree[name] > 0 {
				cyclic = append(cyclic, name)
			}
		}

		return nil, fmt.Errorf("%w: cyclic definitions %s", ErrUnresolvedReference, strings.Join(cyclic, ", "))
	}

	return order, nil
}

// evaluate computes the rewritten expression once per period, binding each
// placeholder to the referenced series value at that period.
func (expr *compiledExpr) evaluate(periods []data.Period, available map[string]data.Series) (data.Series, error) {
	evaluable, err := arithmetic.NewEvaluable(expr.rewritten)
	if err != nil {
		return data.Series{}, fmt.Errorf("could not parse custom ratio %q: %w", expr.name, err)
	}

	result := data.NewSeries(periods)
	for idx, period := range periods {
		params := make(map[string]interface{}, len(expr.vars))
		for placeholder, name := range expr.vars {
			params[placeholder] = available[name].At(period)
		}

		value, err := evaluable.EvalFloat64(context.Background(), params)
		if err != nil {
			return data.Series{}, fmt.Errorf("could not evaluate custom ratio %q: %w", expr.name, err)
		}

		result.Values[idx] = value
	}

	return result, nil
}
