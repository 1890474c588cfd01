// Package ui is the interactive presentation adapter: it feeds user code
// and a call expression through a guest session and shows the result, the
// captured output and the rendered call tree.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"calltree/internal/render"
	"calltree/internal/script"
)

type focusArea int

const (
	focusCode focusArea = iota
	focusCall
	focusOutput
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	focusedPanel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6"))
	blurredPanel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)

// Model is the Bubble Tea model for the tracer workbench.
type Model struct {
	code   textarea.Model
	call   textinput.Model
	out    viewport.Model
	style  render.Style
	focus  focusArea
	status string
	failed bool
	width  int
	height int
	ready  bool
}

// New seeds the workbench with initial code and call expression text.
func New(code, call string, style render.Style) Model {
	ta := textarea.New()
	ta.Placeholder = "// script code, e.g.\n@trace\nfn fib(n) { if n < 2 { return n } return fib(n-1) + fib(n-2) }"
	ta.SetValue(code)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "fib(3)"
	ti.SetValue(call)

	return Model{
		code:   ta,
		call:   ti,
		style:  style,
		status: "ctrl+r: run   tab: switch panel   ctrl+c: quit",
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m = m.cycleFocus()
			return m, nil
		case "ctrl+r":
			m = m.evaluate()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resize()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.focus {
	case focusCode:
		m.code, cmd = m.code.Update(msg)
		cmds = append(cmds, cmd)
	case focusCall:
		m.call, cmd = m.call.Update(msg)
		cmds = append(cmds, cmd)
	case focusOutput:
		m.out, cmd = m.out.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	codePanel := m.panelStyle(focusCode).Render(m.code.View())
	callPanel := m.panelStyle(focusCall).Render(m.call.View())
	outPanel := m.panelStyle(focusOutput).Render(m.out.View())

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("code"),
		codePanel,
		titleStyle.Render("call expression"),
		callPanel,
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("trace"),
		outPanel,
	)

	statusStyle := okStyle
	if m.failed {
		statusStyle = errorStyle
	}
	status := statusStyle.Render(truncate(m.status, m.width-2))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		status,
		hintStyle.Render("ctrl+r: run   tab: switch panel   ctrl+c: quit"),
	)
}

func (m Model) panelStyle(area focusArea) lipgloss.Style {
	if m.focus == area {
		return focusedPanel
	}
	return blurredPanel
}

func (m Model) cycleFocus() Model {
	m.code.Blur()
	m.call.Blur()
	m.focus = (m.focus + 1) % 3
	switch m.focus {
	case focusCode:
		m.code.Focus()
	case focusCall:
		m.call.Focus()
	}
	return m
}

func (m Model) resize() Model {
	half := m.width/2 - 4
	if half < 20 {
		half = 20
	}
	body := m.height - 8
	if body < 6 {
		body = 6
	}
	m.code.SetWidth(half)
	m.code.SetHeight(body - 3)
	m.call.Width = half
	if !m.ready {
		m.out = viewport.New(half, body)
		m.ready = true
	} else {
		m.out.Width = half
		m.out.Height = body
	}
	return m
}

// evaluate runs the current code and call expression in a fresh session
// and fills the output panel. A failed run keeps whatever the guest
// already printed.
func (m Model) evaluate() Model {
	session := script.NewSession()
	m.failed = false

	if err := session.Run(m.code.Value()); err != nil {
		m.failed = true
		m.status = "script error: " + err.Error()
		m.out.SetContent(errorStyle.Render(err.Error()))
		return m
	}

	result, err := session.EvalCall(m.call.Value())
	var b strings.Builder
	if err != nil {
		m.failed = true
		m.status = "evaluation failed: " + err.Error()
		fmt.Fprintf(&b, "error: %s\n", err.Error())
	} else {
		m.status = "ok: " + result.Format()
		fmt.Fprintf(&b, "result: %s\n", result.Format())
	}
	if out := session.Output(); out != "" {
		b.WriteString("\noutput:\n")
		b.WriteString(out)
	}
	b.WriteString("\n")
	b.WriteString(render.Render(session.Table(), m.style, nil))
	m.out.SetContent(b.String())
	return m
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
