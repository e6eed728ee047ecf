// Package tui provides the interactive plan viewer behind `remedy view`.
//
// The viewer shows one phase at a time as a tab, lists its tasks in
// scheduled order and shows the selected task's details below the list.
// When the plan is being watched, the caller sends PlanMsg values into the
// running program and the viewer swaps the new plan in place.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/tui/styles"
	"github.com/Iron-Ham/remedy/internal/util"
)

// PlanMsg delivers a regenerated plan, or the error that prevented one.
type PlanMsg struct {
	Plan *cleanup.CleanupPlan
	Err  error
}

const (
	headerHeight = 3
	footerHeight = 2
)

// Model is the bubbletea model for the plan viewer.
type Model struct {
	plan   *cleanup.CleanupPlan
	source string

	phase  int // index into plan.Phases
	cursor int // index into the current phase's tasks

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	showHelp bool
	quitting bool
	lastErr  error
	reloads  int

	keys   keyMap
	styles styles.Styles
}

// New returns a viewer for plan. source labels the header.
func New(plan *cleanup.CleanupPlan, source string) Model {
	return Model{
		plan:   plan,
		source: source,
		keys:   defaultKeyMap(),
		styles: styles.New(nil),
	}
}

// WithStyles replaces the palette, e.g. with styles.Plain() when colour is off.
func (m Model) WithStyles(s styles.Styles) Model {
	m.styles = s
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(m.height-headerHeight-footerHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(m.width, bodyHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = bodyHeight
		}
		m.refresh()
		return m, nil

	case PlanMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err
			return m, nil
		}
		m.lastErr = nil
		m.reloads++
		m.setPlan(msg.Plan)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = max(len(m.currentTasks())-1, 0)
		case key.Matches(msg, m.keys.NextPhase):
			m.switchPhase(1)
		case key.Matches(msg, m.keys.PrevPhase):
			m.switchPhase(-1)
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Plan returns the plan currently shown.
func (m Model) Plan() *cleanup.CleanupPlan {
	return m.plan
}

// Selected returns the highlighted task, or nil when the plan is empty.
func (m Model) Selected() *cleanup.CleanupTask {
	tasks := m.currentTasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return nil
	}
	return &tasks[m.cursor]
}

// Phase returns the number of the phase being shown, or 0 when there is none.
func (m Model) Phase() int {
	if m.plan == nil || m.phase >= len(m.plan.Phases) {
		return 0
	}
	return m.plan.Phases[m.phase].PhaseNumber
}

func (m *Model) currentTasks() []cleanup.CleanupTask {
	if m.plan == nil || m.phase >= len(m.plan.Phases) {
		return nil
	}
	return m.plan.Phases[m.phase].Tasks
}

func (m *Model) moveCursor(delta int) {
	n := len(m.currentTasks())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

func (m *Model) switchPhase(delta int) {
	if m.plan == nil || len(m.plan.Phases) == 0 {
		return
	}
	n := len(m.plan.Phases)
	m.phase = (m.phase + delta + n) % n
	m.cursor = 0
}

// setPlan swaps in a new plan, keeping the selection on the same phase
// number and task id when they still exist.
func (m *Model) setPlan(plan *cleanup.CleanupPlan) {
	prevPhase := m.Phase()
	var prevID string
	if sel := m.Selected(); sel != nil {
		prevID = sel.ID
	}

	m.plan = plan
	m.phase, m.cursor = 0, 0
	if plan == nil {
		m.refresh()
		return
	}
	for i, phase := range plan.Phases {
		if phase.PhaseNumber != prevPhase {
			continue
		}
		m.phase = i
		for j, task := range phase.Tasks {
			if task.ID == prevID {
				m.cursor = j
			}
		}
	}
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBody())
}

func (m Model) renderHeader() string {
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Title.Render("remedy"))
	if m.source != "" {
		b.WriteString(st.Muted.Render("  " + m.source))
	}
	if m.plan != nil {
		fmt.Fprintf(&b, "  %d tasks · %s · risk %s",
			len(m.plan.Tasks), m.plan.EstimatedDuration, st.Risk(m.plan.RiskAssessment.OverallRisk))
	}
	if m.reloads > 0 {
		b.WriteString(st.Muted.Render(fmt.Sprintf("  (reloaded %d×)", m.reloads)))
	}
	b.WriteString("\n")

	if m.plan != nil {
		tabs := make([]string, 0, len(m.plan.Phases))
		for i, phase := range m.plan.Phases {
			label := fmt.Sprintf("%d %s", phase.PhaseNumber, phase.PhaseName)
			if i == m.phase {
				tabs = append(tabs, st.TabActive.Render(label))
			} else {
				tabs = append(tabs, st.TabInactive.Render(label))
			}
		}
		b.WriteString(strings.Join(tabs, " "))
	}
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(st.ErrorMsg.Render("reload failed: " + m.lastErr.Error()))
	}
	return b.String()
}

func (m Model) renderBody() string {
	if m.showHelp {
		return m.renderHelp()
	}

	st := m.styles
	tasks := m.currentTasks()
	if len(tasks) == 0 {
		return st.Muted.Render("No cleanup tasks: nothing to remediate.")
	}

	var b strings.Builder
	phase := m.plan.Phases[m.phase]
	b.WriteString(st.Subtitle.Render(phase.Description))
	b.WriteString("\n\n")

	for i, task := range tasks {
		line := fmt.Sprintf("%s %s", task.Title, st.TaskID.Render("["+task.ID+"]"))
		if m.width > 0 {
			line = util.Truncate(line, max(m.width-2, 10))
		}
		if i == m.cursor {
			b.WriteString(st.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetail(tasks[m.cursor]))
	return b.String()
}

func (m Model) renderDetail(task cleanup.CleanupTask) string {
	st := m.styles
	var b strings.Builder

	label := func(name, value string) {
		fmt.Fprintf(&b, "%s %s\n", st.Label.Render(name+":"), value)
	}
	label("ID", task.ID)
	label("Category", string(task.Category))
	label("Effort", string(task.EstimatedEffort))
	label("Risk", st.Risk(task.RiskLevel))
	if task.RequiresTests {
		label("Tests", "required")
	}
	if len(task.Dependencies) > 0 {
		titles := make([]string, 0, len(task.Dependencies))
		for _, id := range task.Dependencies {
			titles = append(titles, m.taskTitle(id))
		}
		label("After", util.Summarize(titles, 4))
	}
	if len(task.AffectedFiles) > 0 {
		label("Files", strings.Join(task.AffectedFiles, ", "))
	}
	b.WriteString("\n")
	b.WriteString(task.Description)
	b.WriteString("\n\n")
	for i, step := range task.ActionSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	width := max(m.width-4, 20)
	return st.ContentBox.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// taskTitle resolves a task id to its title, falling back to the id.
func (m Model) taskTitle(id string) string {
	for _, task := range m.plan.Tasks {
		if task.ID == id {
			return task.Title
		}
	}
	return id
}

func (m Model) renderHelp() string {
	var b strings.Builder
	for _, binding := range m.keys.fullHelp() {
		h := binding.Help()
		fmt.Fprintf(&b, "%-14s %s\n", m.styles.HelpKey.Render(h.Key), h.Desc)
	}
	return b.String()
}

func (m Model) renderFooter() string {
	parts := make([]string, 0, len(m.keys.shortHelp()))
	for _, binding := range m.keys.shortHelp() {
		h := binding.Help()
		parts = append(parts, m.styles.HelpKey.Render(h.Key)+" "+h.Desc)
	}
	return m.styles.HelpBar.Render(strings.Join(parts, " • "))
}

// Run starts the viewer and blocks until the user quits. If updates is not
// nil, every PlanMsg received on it is forwarded to the viewer.
func Run(m Model, updates <-chan PlanMsg, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(m, opts...)

	if updates != nil {
		go func() {
			for msg := range updates {
				p.Send(msg)
			}
		}()
	}

	_, err := p.Run()
	return err
}
