// Package tui implements the interactive repository browser on top of
// bubbletea. It owns no Git logic: everything it shows comes from the
// gitops dispatcher as plain data.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cj3636/gtaz/internal/config"
	"github.com/cj3636/gtaz/internal/export"
	"github.com/cj3636/gtaz/internal/gitops"
	"github.com/cj3636/gtaz/internal/repo"
)

const (
	sidebarWidth    = 34
	helpPanelHeight = 11
	historyRows     = 8
)

// checkoutState holds the branch/tag picker modal.
type checkoutState struct {
	visible bool
	targets []string
	cursor  int
	err     error
}

// Model represents the application state
type Model struct {
	repository repo.Repository
	dispatcher *gitops.Dispatcher
	tools      []gitops.Tool
	cfg        *config.Config
	styles     *Styles

	cursor   int
	result   *gitops.Result
	branch   string
	history  []gitops.Commit
	running  bool
	status   string
	showHelp bool
	checkout checkoutState

	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

// NewModel creates a new TUI model for the given repository snapshot.
func NewModel(r repo.Repository, dispatcher *gitops.Dispatcher, cfg *config.Config) Model {
	styles := createStyles(cfg.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cfg.Theme.AccentFg)

	return Model{
		repository: r,
		dispatcher: dispatcher,
		tools:      gitops.Catalog(),
		cfg:        cfg,
		styles:     styles,
		viewport:   viewport.New(40, 20),
		spinner:    sp,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.checkout.visible {
			return m.handleCheckoutKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case repoLoadedMsg:
		m.repository = msg.snapshot
		m.branch = msg.branch
		m.history = msg.history
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}

	case toolResultMsg:
		m.running = false
		res := msg.res
		m.result = &res
		m.status = ""
		m.viewport.SetContent(m.renderOutput(res))
		m.viewport.GotoTop()

	case checkoutTargetsMsg:
		m.checkout.visible = true
		m.checkout.targets = msg.targets
		m.checkout.cursor = 0
		m.checkout.err = msg.err

	case checkoutDoneMsg:
		m.status = msg.res.Message
		if msg.res.Success {
			return m, m.refreshCmd()
		}

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "output copied to clipboard"
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keyIs(msg, "quit"):
		return m, tea.Quit

	case m.keyIs(msg, "toggle_help"):
		m.showHelp = !m.showHelp
		m.layout()

	case m.keyIs(msg, "next_tool"):
		if m.cursor < len(m.tools)-1 {
			m.cursor++
		}

	case m.keyIs(msg, "prev_tool"):
		if m.cursor > 0 {
			m.cursor--
		}

	case m.keyIs(msg, "run_tool"):
		if m.running {
			return m, nil
		}
		m.running = true
		m.status = "running " + m.tools[m.cursor].Label + "..."
		return m, tea.Batch(m.runToolCmd(m.tools[m.cursor].ID), m.spinner.Tick)

	case m.keyIs(msg, "refresh"):
		m.status = "refreshing..."
		return m, m.refreshCmd()

	case m.keyIs(msg, "checkout"):
		return m, m.checkoutTargetsCmd()

	case m.keyIs(msg, "copy_output"):
		if m.result == nil {
			m.status = "nothing to copy"
			return m, nil
		}
		return m, m.copyCmd(*m.result)

	case m.keyIs(msg, "scroll_down"):
		m.viewport.LineDown(1)

	case m.keyIs(msg, "scroll_up"):
		m.viewport.LineUp(1)

	case m.keyIs(msg, "page_down"):
		m.viewport.HalfViewDown()

	case m.keyIs(msg, "page_up"):
		m.viewport.HalfViewUp()

	case m.keyIs(msg, "go_top"):
		m.viewport.GotoTop()

	case m.keyIs(msg, "go_bottom"):
		m.viewport.GotoBottom()
	}

	return m, nil
}

func (m Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.checkout = checkoutState{}
	case "up", "k":
		if m.checkout.cursor > 0 {
			m.checkout.cursor--
		}
	case "down", "j":
		if m.checkout.cursor < len(m.checkout.targets)-1 {
			m.checkout.cursor++
		}
	case "enter":
		if len(m.checkout.targets) == 0 {
			m.checkout = checkoutState{}
			return m, nil
		}
		target := m.checkout.targets[m.checkout.cursor]
		m.checkout = checkoutState{}
		m.status = "checking out " + target + "..."
		return m, m.checkoutCmd(target)
	}

	return m, nil
}

// keyIs reports whether the pressed key is bound to the action.
func (m Model) keyIs(msg tea.KeyMsg, action string) bool {
	pressed := msg.String()
	for _, key := range m.cfg.Keybindings[action] {
		if pressed == key {
			return true
		}
	}
	return false
}

// Commands. Each one captures the data it needs by value so a refresh
// mid-flight never races with a running tool.

func (m Model) runToolCmd(id gitops.ToolID) tea.Cmd {
	dispatcher := m.dispatcher
	snapshot := m.repository
	return func() tea.Msg {
		return toolResultMsg{res: dispatcher.Run(id, snapshot)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	path := m.repository.Path
	gateway := m.dispatcher.Gateway()
	limit := m.cfg.LogLimit
	return func() tea.Msg {
		snapshot := repo.FromPath(path)
		msg := repoLoadedMsg{snapshot: snapshot}
		if snapshot.IsGitRepo {
			msg.branch = gateway.CurrentBranch(snapshot)
			msg.history, msg.err = gateway.History(snapshot, limit)
		}
		return msg
	}
}

func (m Model) checkoutTargetsCmd() tea.Cmd {
	gateway := m.dispatcher.Gateway()
	snapshot := m.repository
	return func() tea.Msg {
		targets, err := gateway.CheckoutTargets(snapshot)
		return checkoutTargetsMsg{targets: targets, err: err}
	}
}

func (m Model) checkoutCmd(target string) tea.Cmd {
	gateway := m.dispatcher.Gateway()
	snapshot := m.repository
	return func() tea.Msg {
		return checkoutDoneMsg{res: gateway.Checkout(snapshot, target)}
	}
}

func (m Model) copyCmd(res gitops.Result) tea.Cmd {
	return func() tea.Msg {
		content := res.Output
		if !res.Success {
			content = res.Err
		}
		// Stderr bypasses bubbletea's renderer; terminals accept
		// OSC52 on either stream.
		return copiedMsg{err: export.CopyToClipboard(content, os.Stderr)}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var sections []string
	sections = append(sections, m.renderTitle())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderMain()))

	if m.showHelp {
		sections = append(sections, m.renderHelpPanel())
	}
	sections = append(sections, m.renderStatusBar())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.checkout.visible {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderCheckout())
	}

	return content
}

func (m Model) renderTitle() string {
	title := "gtaz: " + m.repository.Name
	if m.branch != "" {
		title += " (" + m.branch + ")"
	}
	return m.styles.title.Width(m.width).Render(title)
}

func (m Model) renderSidebar() string {
	var lines []string

	lines = append(lines, m.styles.panelTitle.Render("Repository"))
	lines = append(lines, m.styles.repoName.Render(m.repository.Name))
	lines = append(lines, m.styles.repoPath.Render(truncate(m.repository.Path, sidebarWidth-4)))

	switch {
	case !m.repository.Exists:
		lines = append(lines, m.styles.outputErr.Render("path does not exist"))
	case !m.repository.IsGitRepo:
		lines = append(lines, m.styles.outputErr.Render("not a git repository"))
	case m.branch != "":
		lines = append(lines, m.styles.branch.Render("on "+m.branch))
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.panelTitle.Render("Tools"))
	category := ""
	for i, tool := range m.tools {
		if tool.Category != category {
			category = tool.Category
			lines = append(lines, m.styles.menuCategory.Render(category))
		}
		label := "  " + tool.Label
		if i == m.cursor {
			lines = append(lines, m.styles.menuSelected.Render("➜ "+tool.Label))
		} else {
			lines = append(lines, m.styles.menuItem.Render(label))
		}
	}

	if len(m.history) > 0 {
		lines = append(lines, "")
		lines = append(lines, m.styles.panelTitle.Render("Recent commits"))
		for i, c := range m.history {
			if i >= historyRows {
				break
			}
			entry := fmt.Sprintf("%s %s", c.Hash[:7], truncate(c.Subject, sidebarWidth-14))
			lines = append(lines, m.styles.repoPath.Render(entry))
		}
	}

	height := m.bodyHeight()
	return m.styles.panel.
		Width(sidebarWidth - 2).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderMain() string {
	title := "Output"
	if m.result != nil {
		if tool, ok := gitops.Lookup(m.result.ToolID); ok {
			title = "Output — " + tool.Label
		}
	}

	header := m.styles.panelTitle.Render(title)
	body := m.viewport.View()
	if m.result == nil {
		hint := "Select a tool and press enter to run it."
		body = m.styles.help.Render(hint)
	}

	return m.styles.panel.
		Width(m.mainWidth()).
		Height(m.bodyHeight()).
		Render(header + "\n" + body)
}

// renderOutput styles a result for the viewport. Failures render in
// the error style so they stand apart from normal output.
func (m Model) renderOutput(res gitops.Result) string {
	if !res.Success {
		return m.styles.outputErr.Render("error: " + res.Err)
	}

	if res.ToolID == gitops.ToolDiff {
		var lines []string
		for _, line := range strings.Split(res.Output, "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				lines = append(lines, m.styles.branch.Render(line))
			case strings.HasPrefix(line, "-"):
				lines = append(lines, m.styles.outputErr.Render(line))
			default:
				lines = append(lines, m.styles.output.Render(line))
			}
		}
		return strings.Join(lines, "\n")
	}

	return m.styles.output.Render(res.Output)
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.running {
		left = m.spinner.View() + " " + left
	}
	if left == "" {
		tool := m.tools[m.cursor]
		left = tool.Label + " — " + tool.Description
	}

	hints := "enter:run ctrl+r:refresh ctrl+b:checkout y:copy ?:help q:quit"
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hints) - 4
	if gap < 1 {
		return m.styles.statusBar.Width(m.width).Render(left)
	}

	return m.styles.statusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + hints)
}

func (m Model) renderHelpPanel() string {
	helpText := []string{
		"Keyboard shortcuts:",
		"  j/↓, k/↑   Select tool        │  enter    Run selected tool",
		"  J, K       Scroll output      │  d, u     Half page down/up",
		"  g, G       Output top/bottom  │  y        Copy output",
		"  ctrl+r     Refresh repository │  ctrl+b   Checkout branch/tag",
		"  ?          Toggle this help   │  q        Quit",
	}

	helpStyle := m.styles.help.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.cfg.Theme.BorderFg).
		Padding(0, 1).
		Width(m.width - 2)

	return helpStyle.Render(strings.Join(helpText, "\n"))
}

func (m Model) renderCheckout() string {
	var lines []string
	lines = append(lines, m.styles.panelTitle.Render("Checkout branch or tag (enter to switch, esc to close)"))

	if m.checkout.err != nil {
		lines = append(lines, m.styles.outputErr.Render("Error: "+m.checkout.err.Error()))
	}
	if len(m.checkout.targets) == 0 && m.checkout.err == nil {
		lines = append(lines, m.styles.help.Render("no branches or tags"))
	}

	for i, target := range m.checkout.targets {
		prefix := "  "
		if i == m.checkout.cursor {
			prefix = "➜ "
			lines = append(lines, prefix+m.styles.menuSelected.Render(target))
			continue
		}
		lines = append(lines, prefix+m.styles.menuItem.Render(target))
	}

	return m.styles.modal.Width(m.width - 4).Render(strings.Join(lines, "\n"))
}

// layout recomputes the viewport size from the window size and the
// visible panels.
func (m *Model) layout() {
	width := m.mainWidth() - 4
	if width < 20 {
		width = 20
	}

	height := m.bodyHeight() - 1
	if height < 5 {
		height = 5
	}

	m.viewport.Width = width
	m.viewport.Height = height
}

func (m Model) mainWidth() int {
	width := m.width - sidebarWidth
	if width < 24 {
		width = 24
	}
	return width
}

func (m Model) bodyHeight() int {
	// Total minus title bar and status bar.
	height := m.height - 2
	if m.showHelp {
		height -= helpPanelHeight
	}
	if height < 7 {
		height = 7
	}
	return height
}

func truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
