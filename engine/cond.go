package engine

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/mkcmd/lang"
)

// operands is the expression environment shared by every comparison.
type operands struct {
	Left  string `expr:"left"`
	Right string `expr:"right"`
}

var comparisons = map[string]string{
	lang.OpEqual:        "left == right",
	lang.OpNotEqual:     "left != right",
	lang.OpGreater:      "left > right",
	lang.OpLess:         "left < right",
	lang.OpGreaterEqual: "left >= right",
	lang.OpLessEqual:    "left <= right",
	lang.OpContains:     "left contains right",
	lang.OpStartsWith:   "left startsWith right",
	lang.OpEndsWith:     "left endsWith right",
	lang.OpMatches:      "left matches right",
}

var programs = sync.OnceValue(func() map[string]func() (*vm.Program, error) {
	m := make(map[string]func() (*vm.Program, error), len(comparisons))
	for op, src := range comparisons {
		m[op] = sync.OnceValues(func() (*vm.Program, error) {
			return expr.Compile(src, expr.Env(operands{}), expr.AsBool())
		})
	}

	return m
})

// EvalCondition expands both operands of cond and compares them.
// Ordering operators compare strings lexicographically. An unrecognized
// operator, or a "matches" pattern that is not a valid regular expression,
// evaluates false.
func (e *Env) EvalCondition(cond lang.Condition) bool {
	compile, ok := programs()[cond.Op]
	if !ok {
		return false
	}

	program, err := compile()
	if err != nil {
		return false
	}

	out, err := expr.Run(program, operands{
		Left:  e.Expand(cond.Left),
		Right: e.Expand(cond.Right),
	})
	if err != nil {
		return false
	}

	result, _ := out.(bool)

	return result
}
