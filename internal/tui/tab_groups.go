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
	"github.com/1broseidon/deskwm/internal/wm"
)

// groupItem implements list.Item for the group list.
type groupItem struct {
	g       wm.Group
	members []wm.Window
}

func (i groupItem) Title() string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(i.g.Color)).Render("■")
	return swatch + " " + i.g.Name
}

func (i groupItem) Description() string {
	return fmt.Sprintf("%s · %d windows", i.g.ID, len(i.members))
}

func (i groupItem) FilterValue() string { return i.g.Name }

type groupForm struct {
	name  string
	color string
}

// GroupsTab lists groups and edits them through a form.
type GroupsTab struct {
	list list.Model

	form *huh.Form
	// editID is the group being edited; empty while creating.
	editID string
	values *groupForm

	width  int
	height int
}

// NewGroupsTab creates the groups tab.
func NewGroupsTab() GroupsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Groups"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return GroupsTab{list: l}
}

// Editing reports whether a form is open.
func (t GroupsTab) Editing() bool {
	return t.form != nil
}

// Keys returns the help line for the tab.
func (t GroupsTab) Keys() string {
	if t.Editing() {
		return "enter:next  esc:cancel"
	}
	return "c:create  e:edit  d:delete"
}

// SetSnapshot replaces the listed groups in display order.
func (t *GroupsTab) SetSnapshot(snap *wm.Snapshot) {
	selected := t.list.Index()
	members := make(map[string][]wm.Window, len(snap.Groups))
	for _, w := range snap.Windows {
		members[w.GroupID] = append(members[w.GroupID], w)
	}
	items := make([]list.Item, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		items = append(items, groupItem{g: g, members: members[g.ID]})
	}
	t.list.SetItems(items)
	t.list.Select(min(selected, max(len(items)-1, 0)))
}

func (t GroupsTab) selected() (groupItem, bool) {
	item, ok := t.list.SelectedItem().(groupItem)
	return item, ok
}

// Update handles input for the tab.
func (t GroupsTab) Update(msg tea.Msg, desk Desk) (GroupsTab, tea.Cmd) {
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
		switch msg.String() {
		case "c":
			t.startForm(wm.Group{})
			return t, t.form.Init()
		case "e":
			if item, ok := t.selected(); ok {
				t.startForm(item.g)
				return t, t.form.Init()
			}
			return t, nil
		case "d":
			item, ok := t.selected()
			if !ok {
				return t, nil
			}
			id := item.g.ID
			return t, action(func() (string, error) {
				if err := desk.Call(ipc.CommandDeleteGroup, ipc.GroupPayload{GroupID: id}, nil); err != nil {
					return "", err
				}
				return "deleted group " + id, nil
			})
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

// startForm opens the create form for a zero group, else the edit form.
func (t *GroupsTab) startForm(g wm.Group) {
	t.editID = g.ID
	t.values = &groupForm{name: g.Name, color: g.Color}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}).
				Value(&t.values.name),
			huh.NewInput().
				Key("color").
				Title("Color").
				Description("CSS color such as #3b82f6; blank picks the next palette color").
				Value(&t.values.color),
		),
	).WithWidth(max(t.width-4, 40)).WithShowHelp(true).WithShowErrors(true)
}

func (t GroupsTab) updateForm(msg tea.Msg, desk Desk) (GroupsTab, tea.Cmd) {
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
		values, editID := *t.values, t.editID
		t.form, t.values = nil, nil
		return t, saveGroup(desk, editID, values)
	case huh.StateAborted:
		t.form, t.values = nil, nil
		return t, nil
	}
	return t, cmd
}

func saveGroup(desk Desk, editID string, v groupForm) tea.Cmd {
	name := strings.TrimSpace(v.name)
	color := strings.TrimSpace(v.color)
	return action(func() (string, error) {
		if editID == "" {
			id, err := desk.CreateGroup(name, color)
			if err != nil {
				return "", err
			}
			return "created group " + id, nil
		}
		payload := ipc.UpdateGroupPayload{GroupID: editID, Name: &name}
		if color != "" {
			payload.Color = &color
		}
		if err := desk.Call(ipc.CommandUpdateGroup, payload, nil); err != nil {
			return "", err
		}
		return "updated group " + editID, nil
	})
}

// View renders the tab.
func (t GroupsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	if t.form != nil {
		heading := "New Group"
		if t.editID != "" {
			heading = "Edit Group " + t.editID
		}
		content := formTitle.Render(heading) + dimStyle.Render("  (esc to cancel)") + "\n\n" + t.form.View()
		return lipgloss.NewStyle().Width(t.width).Height(t.height).Padding(1, 2).Render(content)
	}

	sw := sidebarWidth(t.width)
	sidebar := lipgloss.NewStyle().Width(sw).Height(t.height).Render(t.list.View())

	item, ok := t.selected()
	if !ok {
		return sidebar
	}
	lines := []string{headerStyle.Render(" " + item.g.Name), ""}
	if len(item.members) == 0 {
		lines = append(lines, dimStyle.Render(" (empty)"))
	}
	for _, w := range item.members {
		lines = append(lines, " "+strconv.Itoa(w.ID)+"  "+w.Title)
	}
	if item.g.ID == wm.DefaultGroupID {
		lines = append(lines, "", dimStyle.Render(" The default group cannot be deleted."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", strings.Join(lines, "\n"))
}
