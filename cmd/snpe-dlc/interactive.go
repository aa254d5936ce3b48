package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/snpe-runtime/runtime"
)

// maxPreview bounds how much of a record the hex view renders.
const maxPreview = 64 << 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserModel struct {
	err      error
	filename string
	records  []recordRow
	loaded   bool
	loading  bool
	selected int
	shown    int
	state    browserState
	view     viewport.Model
	width    int
	height   int

	// Commands reach the container only through withContainer.
	mu        sync.Mutex
	container *runtime.Container
	detached  bool
}

type browserState int

const (
	stateList browserState = iota
	stateRecord
)

func newBrowserModel(filename string, c *runtime.Container) *browserModel {
	return &browserModel{
		container: c,
		filename:  filename,
		state:     stateList,
		view:      viewport.New(80, 20),
		width:     80,
		height:    24,
	}
}

type catalogMsg struct {
	err     error
	records []recordRow
}

type recordMsg struct {
	err   error
	index int
	name  string
	data  []byte
}

func (m *browserModel) Init() tea.Cmd {
	m.loading = true
	return m.loadCatalog
}

// withContainer runs fn against the container unless detach has already
// been called, in which case the command yields no message.
func (m *browserModel) withContainer(fn func(c *runtime.Container) tea.Msg) tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return nil
	}
	return fn(m.container)
}

// detach waits for a running command and stops later ones from touching
// the container. The caller may close the container afterwards.
func (m *browserModel) detach() {
	m.mu.Lock()
	m.detached = true
	m.mu.Unlock()
}

func (m *browserModel) loadCatalog() tea.Msg {
	return m.withContainer(func(c *runtime.Container) tea.Msg {
		names, err := c.Names()
		if err != nil {
			return catalogMsg{err: err}
		}

		rows := make([]recordRow, 0, len(names))
		for _, name := range names {
			rec, err := c.Record(name)
			if err != nil {
				return catalogMsg{err: err}
			}
			rows = append(rows, recordRow{Name: name, Size: rec.Size()})
			rec.Close()
		}
		return catalogMsg{records: rows}
	})
}

func (m *browserModel) loadRecord(index int, name string) tea.Cmd {
	return func() tea.Msg {
		return m.withContainer(func(c *runtime.Container) tea.Msg {
			rec, err := c.Record(name)
			if err != nil {
				return recordMsg{err: err, index: index, name: name}
			}
			defer rec.Close()

			data, err := rec.Data()
			return recordMsg{err: err, index: index, name: name, data: data}
		})
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.records)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			if m.state == stateList && !m.loading && len(m.records) > 0 {
				m.loading = true
				return m, m.loadRecord(m.selected, m.records[m.selected].Name)
			}

		case "esc", "backspace":
			if m.state == stateRecord {
				m.state = stateList
				m.err = nil
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-4, 1)

	case catalogMsg:
		m.loaded = true
		m.loading = false
		m.err = msg.err
		m.records = msg.records
		return m, nil

	case recordMsg:
		m.loading = false
		m.shown = msg.index
		m.state = stateRecord
		m.err = msg.err
		if msg.err == nil {
			m.view.SetContent(renderHex(msg.data))
			m.view.GotoTop()
		}
		return m, nil
	}

	if m.state == stateRecord {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func renderHex(data []byte) string {
	if len(data) == 0 {
		return "(empty record)"
	}
	if len(data) > maxPreview {
		return hex.Dump(data[:maxPreview]) +
			fmt.Sprintf("... %d more bytes not shown", len(data)-maxPreview)
	}
	return hex.Dump(data)
}

func (m *browserModel) View() string {
	if !m.loaded {
		return "Loading catalog..."
	}
	if m.err != nil && m.state == stateList {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("SNPE Container"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		if len(m.records) == 0 {
			b.WriteString("The container has no records.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		for i, r := range m.records {
			line := nameStyle.Render(r.Name) + "  " + sizeStyle.Render(formatSize(r.Size))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + r.Name + "  " + formatSize(r.Size)))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter view • q quit"))

	case stateRecord:
		r := m.records[m.shown]
		b.WriteString(fmt.Sprintf("%s %s\n\n", nameStyle.Render(r.Name), sizeStyle.Render(formatSize(r.Size))))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.view.View())
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runBrowser(ctx context.Context, filename string, c *runtime.Container, in io.Reader, out io.Writer) error {
	m := newBrowserModel(filename, c)
	defer m.detach()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
