// Package ui renders live lint progress in a terminal.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lwcgraph/internal/driver"
)

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []fileItem
	index    map[string]int
	width    int
	done     bool
	problems int
}

type fileItem struct {
	path     string
	status   string
	stage    driver.Stage
	messages int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lint progress
// for files. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: "queued"})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// maxRows bounds the file list; large runs show busy and failed files first.
const maxRows = 12

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var out strings.Builder

	title := fmt.Sprintf("%s (%d/%d files, %d problems)", m.title, m.finished(), len(m.items), m.problems)
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}
	out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(lead + " " + title))
	out.WriteString("\n\n")

	rows := m.visibleRows()
	nameWidth := max(m.width-24, 20)
	for _, idx := range rows {
		item := m.items[idx]
		line := "  " + styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status)) + " " + truncate(item.path, nameWidth)
		if item.messages > 0 {
			line += fmt.Sprintf(" (%d)", item.messages)
		}
		out.WriteString(line + "\n")
	}
	if hidden := len(m.items) - len(rows); hidden > 0 {
		fmt.Fprintf(&out, "  %12s %d more\n", "", hidden)
	}

	out.WriteString("\n")
	bar := m.prog.View()
	if m.done {
		bar = m.prog.ViewAs(1.0)
	}
	out.WriteString(bar + "\n")
	return out.String()
}

// visibleRows returns item indexes in list order: every row when they fit,
// otherwise working files, then failures, then the rest, up to maxRows.
func (m *progressModel) visibleRows() []int {
	rows := make([]int, 0, min(len(m.items), maxRows))
	if len(m.items) <= maxRows {
		for i := range m.items {
			rows = append(rows, i)
		}
		return rows
	}
	rank := func(it fileItem) int {
		switch {
		case !it.finished() && it.status != "queued":
			return 0
		case it.status == string(driver.StatusError):
			return 1
		}
		return 2
	}
	for r := 0; r <= 2 && len(rows) < maxRows; r++ {
		for i, it := range m.items {
			if rank(it) == r && len(rows) < maxRows {
				rows = append(rows, i)
			}
		}
	}
	slices.Sort(rows)
	return rows
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	switch ev.Status {
	case driver.StatusQueued:
		item.status = "queued"
	case driver.StatusWorking:
		if st, ok := stages[ev.Stage]; ok {
			item.status = st.label
			item.stage = ev.Stage
		}
	case driver.StatusDone, driver.StatusError:
		item.status = string(ev.Status)
		item.messages = ev.Messages
		m.problems += ev.Messages
	}
	return m.prog.SetPercent(m.percent())
}

func (it fileItem) finished() bool {
	return it.status == string(driver.StatusDone) || it.status == string(driver.StatusError)
}

func (m *progressModel) finished() int {
	n := 0
	for _, item := range m.items {
		if item.finished() {
			n++
		}
	}
	return n
}

// percent weighs unfinished files by how far into the protocol they are.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if item.finished() {
			total++
		} else {
			total += stages[item.stage].weight
		}
	}
	return total / float64(len(m.items))
}

type stageInfo struct {
	label  string
	weight float64
}

var stages = map[driver.Stage]stageInfo{
	driver.StageRead:        {"reading", 0.05},
	driver.StagePreprocess:  {"bundling", 0.2},
	driver.StageRules:       {"analyzing", 0.5},
	driver.StagePostprocess: {"collecting", 0.9},
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

func styleStatus(status string) lipgloss.Style {
	switch status {
	case string(driver.StatusDone):
		return doneStyle
	case string(driver.StatusError):
		return errorStyle
	case "queued":
		return idleStyle
	}
	return workingStyle
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
