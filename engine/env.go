package engine

import (
	"cmp"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a flat, mutable mapping from variable names to string values.
// A single Env is shared by every statement of an invocation; there is no
// lexical scoping.
//
// The zero Env is empty and ready to use. An Env must not be used
// concurrently.
type Env struct {
	vars map[string]string

	// bound names ordered longest first, rebuilt lazily after a new name
	// is bound
	byLength []string
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{vars: make(map[string]string)}
}

// Set binds name to value, overwriting any previous binding.
func (e *Env) Set(name, value string) {
	if e.vars == nil {
		e.vars = make(map[string]string)
	}

	if _, ok := e.vars[name]; !ok {
		e.byLength = nil
	}

	e.vars[name] = value
}

// Get returns the value bound to name.
func (e *Env) Get(name string) (string, bool) {
	v, ok := e.vars[name]

	return v, ok
}

// Len returns the number of bound names.
func (e *Env) Len() int { return len(e.vars) }

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// All returns an iterator over all bindings in name order.
func (e *Env) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range e.Names() {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// Expand substitutes variable references in text.
//
// At each '$' the longest bound name that appears immediately after it is
// replaced by its value; "${name}" selects exactly name. References to
// unbound names are left as written. Substituted values are not expanded
// again.
func (e *Env) Expand(text string) string {
	if len(e.vars) == 0 || !strings.Contains(text, "$") {
		return text
	}

	var b strings.Builder

	b.Grow(len(text))

	for {
		i := strings.IndexByte(text, '$')
		if i < 0 {
			b.WriteString(text)

			return b.String()
		}

		b.WriteString(text[:i])
		text = text[i+1:]

		if value, n, ok := e.lookupRef(text); ok {
			b.WriteString(value)
			text = text[n:]

			continue
		}

		b.WriteByte('$')
	}
}

// lookupRef resolves the reference at the start of s (just past a '$') and
// reports how many bytes of s it consumed.
func (e *Env) lookupRef(s string) (string, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", 0, false
		}

		v, ok := e.vars[s[1:end]]

		return v, end + 1, ok
	}

	for _, name := range e.sortedByLength() {
		if strings.HasPrefix(s, name) {
			return e.vars[name], len(name), true
		}
	}

	return "", 0, false
}

func (e *Env) sortedByLength() []string {
	if e.byLength == nil {
		names := make([]string, 0, len(e.vars))
		for name := range e.vars {
			if name != "" {
				names = append(names, name)
			}
		}

		slices.SortFunc(names, func(a, b string) int {
			if c := cmp.Compare(len(b), len(a)); c != 0 {
				return c
			}

			return strings.Compare(a, b)
		})

		e.byLength = names
	}

	return e.byLength
}

// LoadDotenv binds every variable defined in the dotenv-formatted stream r.
// Existing bindings with the same names are overwritten.
func (e *Env) LoadDotenv(r io.Reader) error {
	vars, err := godotenv.Parse(r)
	if err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(vars)) {
		e.Set(name, vars[name])
	}

	return nil
}
