package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/wm"
)

const (
	refreshInterval = 2 * time.Second
	statusTimeout   = 3 * time.Second
)

// stateMsg carries a fetched snapshot, or the error that stopped it.
type stateMsg struct {
	snap *wm.Snapshot
	err  error
}

type tickMsg time.Time

// actionMsg is sent after an IPC command completes.
type actionMsg struct {
	text string
	err  error
}

// clearStatusMsg clears the status message if nothing newer replaced it.
type clearStatusMsg struct {
	seq int
}

func fetchState(desk Desk) tea.Cmd {
	return func() tea.Msg {
		snap, err := desk.GetState()
		return stateMsg{snap: snap, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// action runs fn off the UI goroutine and reports its outcome.
func action(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := fn()
		return actionMsg{text: text, err: err}
	}
}

// model is the root bubbletea model for the TUI.
type model struct {
	desk Desk
	cfg  *config.Config

	snap      *wm.Snapshot
	connected bool

	// Tab navigation
	activeTab Tab

	// Sub-models
	windowsTab WindowsTab
	groupsTab  GroupsTab
	layoutsTab LayoutsTab

	status    string
	statusErr bool
	statusSeq int

	// Terminal dimensions
	width  int
	height int
}

func newModel(desk Desk, cfg *config.Config) model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	viewport := daemon.Viewport(cfg)
	return model{
		desk:       desk,
		cfg:        cfg,
		activeTab:  TabWindows,
		windowsTab: NewWindowsTab(viewport),
		groupsTab:  NewGroupsTab(),
		layoutsTab: NewLayoutsTab(cfg),
	}
}

// capturing reports whether a form on the active tab owns the keyboard.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabWindows:
		return m.windowsTab.Editing()
	case TabGroups:
		return m.groupsTab.Editing()
	}
	return false
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchState(m.desk), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		if msg.err != nil {
			m.connected = false
			return m, nil
		}
		m.connected = true
		m.snap = msg.snap
		m.windowsTab.SetSnapshot(msg.snap)
		m.groupsTab.SetSnapshot(msg.snap)
		m.layoutsTab.SetSnapshot(msg.snap)
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchState(m.desk), tick())

	case actionMsg:
		m.statusSeq++
		seq := m.statusSeq
		if msg.err != nil {
			m.status, m.statusErr = "error: "+msg.err.Error(), true
		} else {
			m.status, m.statusErr = msg.text, false
		}
		return m, tea.Batch(fetchState(m.desk), tea.Tick(statusTimeout, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		}))

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Forward to sub-models with content dimensions
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.windowsTab, _ = m.windowsTab.Update(subMsg, m.desk)
		m.groupsTab, _ = m.groupsTab.Update(subMsg, m.desk)
		m.layoutsTab, _ = m.layoutsTab.Update(subMsg, m.desk)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			case "shift+tab":
				m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
				return m, nil
			case "1":
				m.activeTab = TabWindows
				return m, nil
			case "2":
				m.activeTab = TabGroups
				return m, nil
			case "3":
				m.activeTab = TabLayouts
				return m, nil
			case "r":
				return m, fetchState(m.desk)
			}
		}
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg, m.desk)
	case TabGroups:
		m.groupsTab, cmd = m.groupsTab.Update(msg, m.desk)
	case TabLayouts:
		m.layoutsTab, cmd = m.layoutsTab.Update(msg, m.desk)
	}
	return m, cmd
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	windows, groups := 0, 0
	if m.snap != nil {
		windows, groups = len(m.snap.Windows), len(m.snap.Groups)
	}
	statusBar := renderStatusBar(m.connected, windows, groups, m.cfg.DefaultLayout, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)

	var content, keys string
	switch m.activeTab {
	case TabWindows:
		content, keys = m.windowsTab.View(), m.windowsTab.Keys()
	case TabGroups:
		content, keys = m.groupsTab.View(), m.groupsTab.Keys()
	case TabLayouts:
		content, keys = m.layoutsTab.View(), m.layoutsTab.Keys()
	}
	helpBar := renderHelpBar(keys, m.status, m.statusErr, m.width)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
