package pager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tldr/log"
)

//nolint:gochecknoglobals
var statusStyle = lipgloss.NewStyle().Reverse(true)

// Fits reports whether content is short enough to show without paging on a
// terminal of the given height.
func Fits(content string, height int) bool {
	return height > 0 && strings.Count(content, "\n") < height
}

// Run displays content until the user quits or ctx is done.
// Title is shown in the status line.
func Run(ctx context.Context, title, content string, in io.Reader, out io.Writer) error {
	log.TraceContext(ctx, "pager start",
		slog.String("title", title),
		slog.Int("lines", strings.Count(content, "\n")),
	)

	p := tea.NewProgram(
		newModel(title, content),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	_, err := p.Run()

	return err
}

type model struct {
	view    viewport.Model
	title   string
	content string
	ready   bool
}

func newModel(title, content string) model {
	return model{title: title, content: strings.TrimRight(content, "\n")}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-1, 1) // status line

		if !m.ready {
			m.view = viewport.New(msg.Width, height)
			m.view.SetContent(m.content)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = height
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "esc", "ctrl+c":
			return m, tea.Quit

		case "g", "home":
			m.view.GotoTop()

			return m, nil

		case "G", "end":
			m.view.GotoBottom()

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.view, cmd = m.view.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return ""
	}

	return m.view.View() + "\n" + m.status()
}

func (m model) status() string {
	pct := fmt.Sprintf(" %3.f%% ", m.view.ScrollPercent()*100) //nolint:mnd

	title := " " + m.title
	if pad := m.view.Width - lipgloss.Width(title) - lipgloss.Width(pct); pad > 0 {
		title += strings.Repeat(" ", pad)
	}

	return statusStyle.Render(title + pct)
}
