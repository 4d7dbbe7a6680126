package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/preview"
	"github.com/1broseidon/deskwm/internal/tiling"
	"github.com/1broseidon/deskwm/internal/wm"
)

// windowItem implements list.Item for the window list.
type windowItem struct {
	w     wm.Window
	group string
}

func (i windowItem) Title() string {
	title := fmt.Sprintf("%d  %s", i.w.ID, i.w.Title)
	if i.w.IsActive {
		title += " " + okStyle.Render("●")
	}
	return title
}

func (i windowItem) Description() string {
	parts := []string{i.group, fmt.Sprintf("%d,%d %d×%d", i.w.X, i.w.Y, i.w.Width, i.w.Height)}
	if flags := preview.Flags(i.w); len(flags) > 0 {
		parts = append(parts, strings.Join(flags, ","))
	}
	if i.w.Dirty() {
		parts = append(parts, "unsaved")
	}
	return strings.Join(parts, " · ")
}

func (i windowItem) FilterValue() string { return i.w.Title }

// windowForm holds the create form's bound values. It lives behind a
// pointer so copies of the tab share one set of fields with the form.
type windowForm struct {
	title  string
	width  string
	height string
	group  string
}

// WindowsTab lists windows next to a sketch of the desktop.
type WindowsTab struct {
	list     list.Model
	snap     *wm.Snapshot
	viewport tiling.Rect

	form   *huh.Form
	values *windowForm

	width  int
	height int
}

// NewWindowsTab creates the windows tab drawing against viewport.
func NewWindowsTab(viewport tiling.Rect) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, viewport: viewport}
}

// Editing reports whether the create form is open.
func (t WindowsTab) Editing() bool {
	return t.form != nil
}

// Keys returns the help line for the tab.
func (t WindowsTab) Keys() string {
	if t.Editing() {
		return "enter:next  esc:cancel"
	}
	return "enter:focus  c:create  x:close  m:max  n:min  s:saved"
}

// SetSnapshot replaces the listed windows, keeping the selection on the
// same window id when it still exists.
func (t *WindowsTab) SetSnapshot(snap *wm.Snapshot) {
	t.snap = snap
	selected := 0
	if item, ok := t.list.SelectedItem().(windowItem); ok {
		selected = item.w.ID
	}

	names := make(map[string]string, len(snap.Groups))
	for _, g := range snap.Groups {
		names[g.ID] = g.Name
	}
	items := make([]list.Item, 0, len(snap.Windows))
	index := 0
	for i, w := range snap.Windows {
		items = append(items, windowItem{w: w, group: names[w.GroupID]})
		if w.ID == selected {
			index = i
		}
	}
	t.list.SetItems(items)
	t.list.Select(index)
}

func (t WindowsTab) selected() (wm.Window, bool) {
	item, ok := t.list.SelectedItem().(windowItem)
	if !ok {
		return wm.Window{}, false
	}
	return item.w, true
}

// Update handles input for the tab.
func (t WindowsTab) Update(msg tea.Msg, desk Desk) (WindowsTab, tea.Cmd) {
	if t.form != nil {
		return t.updateForm(msg, desk)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(sidebarWidth(t.width), t.height)
		return t, nil

	case tea.KeyMsg:
		if msg.String() == "c" {
			t.startCreate()
			return t, t.form.Init()
		}
		w, ok := t.selected()
		if !ok {
			break
		}
		switch msg.String() {
		case "enter", "f":
			return t, windowAction(desk, ipc.CommandFocusWindow, w.ID, "focused")
		case "x":
			return t, windowAction(desk, ipc.CommandCloseWindow, w.ID, "closed")
		case "m":
			return t, windowAction(desk, ipc.CommandToggleMaximize, w.ID, "toggled maximize on")
		case "n":
			return t, windowAction(desk, ipc.CommandToggleMinimize, w.ID, "toggled minimize on")
		case "s":
			return t, windowAction(desk, ipc.CommandMarkSaved, w.ID, "marked saved")
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

func windowAction(desk Desk, command ipc.CommandType, id int, verb string) tea.Cmd {
	return action(func() (string, error) {
		if err := desk.Call(command, ipc.WindowPayload{WindowID: id}, nil); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s window %d", verb, id), nil
	})
}

func (t *WindowsTab) startCreate() {
	t.values = &windowForm{group: wm.DefaultGroupID}

	var groupOpts []huh.Option[string]
	if t.snap != nil {
		for _, g := range t.snap.Groups {
			groupOpts = append(groupOpts, huh.NewOption(g.Name, g.ID))
		}
	}
	if len(groupOpts) == 0 {
		groupOpts = append(groupOpts, huh.NewOption("Default", wm.DefaultGroupID))
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Blank uses the configured default").
				Value(&t.values.title),
			huh.NewInput().
				Key("width").
				Title("Width").
				Description("Blank uses the configured default").
				Validate(optionalSize).
				Value(&t.values.width),
			huh.NewInput().
				Key("height").
				Title("Height").
				Description("Blank uses the configured default").
				Validate(optionalSize).
				Value(&t.values.height),
			huh.NewSelect[string]().
				Key("group").
				Title("Group").
				Options(groupOpts...).
				Value(&t.values.group),
		),
	).WithWidth(max(t.width-4, 40)).WithShowHelp(true).WithShowErrors(true)
}

func (t WindowsTab) updateForm(msg tea.Msg, desk Desk) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			t.form, t.values = nil, nil
			return t, nil
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(sidebarWidth(t.width), t.height)
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	switch t.form.State {
	case huh.StateCompleted:
		values := *t.values
		t.form, t.values = nil, nil
		return t, createWindow(desk, values)
	case huh.StateAborted:
		t.form, t.values = nil, nil
		return t, nil
	}
	return t, cmd
}

func createWindow(desk Desk, v windowForm) tea.Cmd {
	// Validated by the form.
	width, _ := parseOptionalSize(v.width)
	height, _ := parseOptionalSize(v.height)
	return action(func() (string, error) {
		id, err := desk.CreateWindow(ipc.CreateWindowPayload{
			Title:   strings.TrimSpace(v.title),
			Width:   width,
			Height:  height,
			GroupID: v.group,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("created window %d", id), nil
	})
}

func parseOptionalSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("must be a positive number")
	}
	return v, nil
}

func optionalSize(s string) error {
	_, err := parseOptionalSize(s)
	return err
}

// View renders the tab.
func (t WindowsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	if t.form != nil {
		content := formTitle.Render("New Window") + dimStyle.Render("  (esc to cancel)") + "\n\n" + t.form.View()
		return lipgloss.NewStyle().Width(t.width).Height(t.height).Padding(1, 2).Render(content)
	}

	sw := sidebarWidth(t.width)
	sidebar := lipgloss.NewStyle().Width(sw).Height(t.height).Render(t.list.View())
	if t.snap == nil || len(t.snap.Windows) == 0 {
		empty := dimStyle.Render("  No windows. Press 'c' to create one.")
		return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, empty)
	}

	previewWidth := max(t.width-sw-3, 10)
	title := headerStyle.Render(fmt.Sprintf(" Desktop %d×%d", t.viewport.Width, t.viewport.Height))
	lines := preview.DrawSnapshot(t.snap, t.viewport, previewWidth, max(t.height-2, 3))
	canvas := lipgloss.NewStyle().Foreground(lipgloss.Color("247")).Render(strings.Join(lines, "\n"))
	pane := lipgloss.JoinVertical(lipgloss.Left, title, "", canvas)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", pane)
}
