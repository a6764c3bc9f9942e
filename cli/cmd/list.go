package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/mkcmd/lang"
	"github.com/ardnew/mkcmd/pkg"
)

// List prints the nodes of the command script.
type List struct {
	Flat bool `help:"Print one full node path per line." short:"F"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context, opts *Options) error {
	script, err := opts.LoadScript(ctx)
	if err != nil {
		return err
	}

	w := opts.stdout()

	if l.Flat {
		return listFlat(w, script)
	}

	return listTree(w, script, opts.Color)
}

// signature renders a node name followed by its parameters.
func signature(name string, params []string) string {
	if len(params) == 0 {
		return name
	}

	return name + " " + strings.Join(slices.Collect(pkg.Map(params, func(p string) string {
		return "<" + p + ">"
	})), " ")
}

func listFlat(w io.Writer, script *lang.Script) error {
	for path, node := range script.All() {
		var params []string
		if len(path) == 1 {
			params = node.Params
		}

		if _, err := fmt.Fprintln(w, signature(strings.Join(path, " "), params)); err != nil {
			return err
		}
	}

	return nil
}

func listTree(w io.Writer, script *lang.Script, color bool) error {
	renderer := lipgloss.NewRenderer(w)

	root := renderer.NewStyle()
	item := renderer.NewStyle()
	enum := renderer.NewStyle().PaddingRight(1)

	if color {
		root = root.Foreground(lipgloss.Color("6")).Bold(true)
		item = item.Foreground(lipgloss.Color("6"))
		enum = enum.Foreground(lipgloss.Color("8"))
	}

	for _, node := range script.Nodes {
		t := subtree(node).
			Enumerator(tree.RoundedEnumerator).
			RootStyle(root).
			ItemStyle(item).
			EnumeratorStyle(enum)

		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}

	return nil
}

func subtree(node *lang.Node) *tree.Tree {
	t := tree.Root(signature(node.Name, node.Params))

	for child := range node.Children() {
		if hasChildren(child) {
			t.Child(subtree(child))
		} else {
			t.Child(child.Name)
		}
	}

	return t
}

func hasChildren(node *lang.Node) bool {
	for range node.Children() {
		return true
	}

	return false
}
