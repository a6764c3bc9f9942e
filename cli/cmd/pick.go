package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/mkcmd/lang"
	"github.com/ardnew/mkcmd/log"
)

// Pick selects a node path interactively and runs it.
type Pick struct {
	Args []string `arg:"" help:"Parameter arguments of the picked node, each prefixed with --." optional:"" passthrough:""`
}

// Run executes the pick command.
func (p *Pick) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := opts.LoadScript(ctx)
	if err != nil {
		return err
	}

	env, err := opts.LoadEnv()
	if err != nil {
		return err
	}

	prog := tea.NewProgram(newPicker(nodePaths(script)),
		tea.WithContext(ctx),
		tea.WithInput(opts.stdin()),
		tea.WithOutput(opts.stderr()),
	)

	final, err := prog.Run()
	if err != nil {
		return err
	}

	chosen := final.(picker).chosen
	if chosen == "" {
		return ErrPickAborted
	}

	log.Debug("picked", slog.String("path", chosen))

	return opts.NewEngine(script).Invoke(ctx, env, append(strings.Fields(chosen), p.Args...))
}

// nodePaths returns every node path of script in declaration order.
func nodePaths(script *lang.Script) []string {
	var paths []string

	for path := range script.All() {
		paths = append(paths, strings.Join(path, " "))
	}

	return paths
}

const (
	pickPrompt    = "➜ "
	pickMaxHeight = 10
)

var (
	pickPromptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	pickItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	pickSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4"))
	pickHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// picker is the Bubble Tea model of the pick command.
type picker struct {
	input   textinput.Model
	paths   []string // all candidates
	matches []string // candidates matching the query, best first
	cursor  int      // index into matches
	height  int      // visible rows of matches
	chosen  string
}

func newPicker(paths []string) picker {
	ti := textinput.New()
	ti.Prompt = pickPromptStyle.Render(pickPrompt)
	ti.Placeholder = "node path"
	ti.Focus()

	m := picker{
		input:  ti,
		paths:  paths,
		height: pickMaxHeight,
	}
	m.filter()

	return m
}

// filter recomputes matches from the current query.
func (m *picker) filter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = m.paths
	} else {
		m.matches = nil
		for _, match := range fuzzy.Find(query, m.paths) {
			m.matches = append(m.matches, match.Str)
		}
	}

	m.cursor = min(m.cursor, max(len(m.matches)-1, 0))
}

func (m picker) Init() tea.Cmd {
	return textinput.Blink
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.matches) > 0 {
				m.chosen = m.matches[m.cursor]
			}

			return m, tea.Quit

		case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}

			return m, nil

		case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}

			return m, nil
		}

	case tea.WindowSizeMsg:
		m.height = max(min(msg.Height-2, pickMaxHeight), 1)
		m.input.Width = msg.Width - len(pickPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.filter()

	return m, cmd
}

func (m picker) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.matches) == 0 {
		b.WriteString(pickHintStyle.Render("no matching nodes"))
		b.WriteString("\n")

		return b.String()
	}

	// Scroll so the cursor stays visible.
	first := max(m.cursor-m.height+1, 0)
	last := min(first+m.height, len(m.matches))

	for i := first; i < last; i++ {
		if i == m.cursor {
			b.WriteString(pickSelectedStyle.Render(m.matches[i]))
		} else {
			b.WriteString(pickItemStyle.Render(m.matches[i]))
		}

		b.WriteString("\n")
	}

	return b.String()
}
