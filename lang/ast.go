package lang

import (
	"iter"
	"strconv"
)

// Position identifies a location in the source text.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Script is the root of a parsed source file.
type Script struct {
	Nodes []*Node
}

// Node is a named, optionally parameterized command.
// Nested commands appear in Body as [Command] statements.
type Node struct {
	Name   string
	Params []string
	Body   []Statement
	Pos    Position
}

// Children returns an iterator over the direct sub-nodes of n in
// declaration order.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, s := range n.Body {
			if c, ok := s.(*Command); ok && c.Node != nil {
				if !yield(c.Node) {
					return
				}
			}
		}
	}
}

// Child returns the first direct sub-node named name, or nil.
func (n *Node) Child(name string) *Node {
	for c := range n.Children() {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// All returns a depth-first iterator over every node in the script, paired
// with its path of names from the top level.
// The yielded path slice is owned by the caller.
func (s *Script) All() iter.Seq2[[]string, *Node] {
	return func(yield func([]string, *Node) bool) {
		var walk func(prefix []string, n *Node) bool

		walk = func(prefix []string, n *Node) bool {
			path := append(prefix[:len(prefix):len(prefix)], n.Name)
			if !yield(path, n) {
				return false
			}

			for c := range n.Children() {
				if !walk(path, c) {
					return false
				}
			}

			return true
		}

		for _, n := range s.Nodes {
			if !walk(nil, n) {
				return
			}
		}
	}
}

// Statement is one of [Command], [Exec], [Assign], [Depends], [If] or [For].
type Statement interface {
	statement()
}

type (
	// Command declares a nested node.
	Command struct {
		Node *Node
	}

	// Exec runs Text through the shell after variable expansion.
	Exec struct {
		Text string
	}

	// Assign binds Name to the expansion of Value.
	Assign struct {
		Name  string
		Value string
	}

	// Depends runs each named top-level node before continuing.
	Depends struct {
		Names []string
	}

	// If runs Then when Cond holds, otherwise Else.
	// A nil Else means the statement has no else branch.
	If struct {
		Cond Condition
		Then []Statement
		Else []Statement
	}

	// For binds Var to each expanded item in turn and runs Body.
	For struct {
		Var   string
		Items []string
		Body  []Statement
	}
)

func (*Command) statement() {}
func (*Exec) statement()    {}
func (*Assign) statement()  {}
func (*Depends) statement() {}
func (*If) statement()      {}
func (*For) statement()     {}

// Condition compares two operands with an operator. Both operands are
// expanded before comparison.
type Condition struct {
	Left  string
	Op    string
	Right string
}

// Operators recognized by the parser. Any other operator is carried in the
// tree unchanged and evaluates false at run time.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpContains     = "contains"
	OpStartsWith   = "startsWith"
	OpEndsWith     = "endsWith"
	OpMatches      = "matches"
)

// Keywords that cannot be used as node, parameter or variable names.
const (
	KeywordDepends = "depends"
	KeywordIf      = "if"
	KeywordElse    = "else"
	KeywordFor     = "for"
	KeywordIn      = "in"
)

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	switch s {
	case KeywordDepends, KeywordIf, KeywordElse, KeywordFor, KeywordIn:
		return true
	}

	return false
}
