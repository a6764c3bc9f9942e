package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
)

// Format writes the script in canonical source syntax to the writer.
// Blocks are indented with indent spaces per level, or a tab if indent is
// not positive.
func (s *Script) Format(_ context.Context, w io.Writer, indent int) error {
	f := formatter{unit: "\t"}
	if indent > 0 {
		f.unit = strings.Repeat(" ", indent)
	}

	for i, n := range s.Nodes {
		if i > 0 {
			f.b.WriteByte('\n')
		}

		f.node(n, 0)
		f.b.WriteByte('\n')
	}

	_, err := io.WriteString(w, f.b.String())

	return err
}

// FormatJSON writes the syntax tree as JSON to the writer.
func (s *Script) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(s, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(s)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax tree as YAML to the writer.
func (s *Script) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, s.document(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// MarshalJSON implements json.Marshaler for Script.
func (s *Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.document())
}

type formatter struct {
	b    strings.Builder
	unit string
}

func (f *formatter) indent(depth int) {
	for range depth {
		f.b.WriteString(f.unit)
	}
}

func (f *formatter) node(n *Node, depth int) {
	f.b.WriteString(n.Name)

	for _, param := range n.Params {
		f.b.WriteByte(' ')
		f.b.WriteString(param)
	}

	f.b.WriteByte(' ')
	f.block(n.Body, depth)
}

func (f *formatter) block(body []Statement, depth int) {
	if len(body) == 0 {
		f.b.WriteString("{}")

		return
	}

	f.b.WriteString("{\n")

	for _, st := range body {
		f.indent(depth + 1)
		f.statement(st, depth+1)
		f.b.WriteByte('\n')
	}

	f.indent(depth)
	f.b.WriteByte('}')
}

func (f *formatter) statement(st Statement, depth int) {
	switch s := st.(type) {
	case *Command:
		f.node(s.Node, depth)

	case *Exec:
		f.b.WriteString("> ")
		f.b.WriteString(s.Text)

	case *Assign:
		f.b.WriteString(s.Name)
		f.b.WriteString(" = ")
		f.b.WriteString(quote(s.Value))

	case *Depends:
		f.b.WriteString(KeywordDepends + " ")
		f.b.WriteString(strings.Join(s.Names, ", "))

	case *If:
		f.ifStatement(s, depth)

	case *For:
		f.b.WriteString(KeywordFor + " ")
		f.b.WriteString(s.Var)
		f.b.WriteString(" " + KeywordIn + " [")

		for i, item := range s.Items {
			if i > 0 {
				f.b.WriteString(", ")
			}

			f.b.WriteString(quote(item))
		}

		f.b.WriteString("] ")
		f.block(s.Body, depth)
	}
}

func (f *formatter) ifStatement(s *If, depth int) {
	f.b.WriteString(KeywordIf + " ")
	f.b.WriteString(quote(s.Cond.Left))
	f.b.WriteByte(' ')
	f.b.WriteString(s.Cond.Op)
	f.b.WriteByte(' ')
	f.b.WriteString(quote(s.Cond.Right))
	f.b.WriteByte(' ')
	f.block(s.Then, depth)

	if s.Else == nil {
		return
	}

	f.b.WriteString(" " + KeywordElse + " ")

	if len(s.Else) == 1 {
		if nested, ok := s.Else[0].(*If); ok {
			f.ifStatement(nested, depth)

			return
		}
	}

	f.block(s.Else, depth)
}

// quote returns v unchanged if it reads back as the same bare word in
// any value position, otherwise as a double-quoted string.
func quote(v string) string {
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "//") {
		return strconv.Quote(v)
	}

	for _, r := range v {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) ||
			strings.ContainsRune(condStop, r) {
			return strconv.Quote(v)
		}
	}

	return v
}

// Document types give the tree a stable shape for JSON and YAML output.
type (
	scriptDoc struct {
		Nodes []nodeDoc `json:"nodes" yaml:"nodes"`
	}

	nodeDoc struct {
		Name   string    `json:"name"             yaml:"name"`
		Params []string  `json:"params,omitempty" yaml:"params,omitempty"`
		Body   []stmtDoc `json:"body,omitempty"   yaml:"body,omitempty"`
		Pos    Position  `json:"pos"              yaml:"pos"`
	}

	stmtDoc struct {
		Kind  string    `json:"kind"            yaml:"kind"`
		Node  *nodeDoc  `json:"node,omitempty"  yaml:"node,omitempty"`
		Text  string    `json:"text,omitempty"  yaml:"text,omitempty"`
		Name  string    `json:"name,omitempty"  yaml:"name,omitempty"`
		Value *string   `json:"value,omitempty" yaml:"value,omitempty"`
		Names []string  `json:"names,omitempty" yaml:"names,omitempty"`
		Cond  *condDoc  `json:"cond,omitempty"  yaml:"cond,omitempty"`
		Then  []stmtDoc `json:"then,omitempty"  yaml:"then,omitempty"`
		Else  []stmtDoc `json:"else,omitempty"  yaml:"else,omitempty"`
		Var   string    `json:"var,omitempty"   yaml:"var,omitempty"`
		Items []string  `json:"items,omitempty" yaml:"items,omitempty"`
		Body  []stmtDoc `json:"body,omitempty"  yaml:"body,omitempty"`
	}

	condDoc struct {
		Left  string `json:"left"  yaml:"left"`
		Op    string `json:"op"    yaml:"op"`
		Right string `json:"right" yaml:"right"`
	}
)

func (s *Script) document() scriptDoc {
	doc := scriptDoc{Nodes: make([]nodeDoc, 0, len(s.Nodes))}
	for _, n := range s.Nodes {
		doc.Nodes = append(doc.Nodes, nodeDocument(n))
	}

	return doc
}

func nodeDocument(n *Node) nodeDoc {
	return nodeDoc{
		Name:   n.Name,
		Params: n.Params,
		Body:   bodyDocument(n.Body),
		Pos:    n.Pos,
	}
}

func bodyDocument(body []Statement) []stmtDoc {
	if len(body) == 0 {
		return nil
	}

	docs := make([]stmtDoc, 0, len(body))

	for _, st := range body {
		switch s := st.(type) {
		case *Command:
			nd := nodeDocument(s.Node)
			docs = append(docs, stmtDoc{Kind: "command", Node: &nd})

		case *Exec:
			docs = append(docs, stmtDoc{Kind: "exec", Text: s.Text})

		case *Assign:
			docs = append(docs, stmtDoc{Kind: "assign", Name: s.Name, Value: &s.Value})

		case *Depends:
			docs = append(docs, stmtDoc{Kind: "depends", Names: s.Names})

		case *If:
			docs = append(docs, stmtDoc{
				Kind: "if",
				Cond: &condDoc{Left: s.Cond.Left, Op: s.Cond.Op, Right: s.Cond.Right},
				Then: bodyDocument(s.Then),
				Else: bodyDocument(s.Else),
			})

		case *For:
			docs = append(docs, stmtDoc{
				Kind:  "for",
				Var:   s.Var,
				Items: s.Items,
				Body:  bodyDocument(s.Body),
			})
		}
	}

	return docs
}
