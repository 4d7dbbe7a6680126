package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/preview"
	"github.com/1broseidon/deskwm/internal/tiling"
	"github.com/1broseidon/deskwm/internal/wm"
)

// layoutItem implements list.Item for the layout picker sidebar.
type layoutItem struct {
	name      string
	mode      config.LayoutMode
	isDefault bool
}

func (i layoutItem) Title() string {
	suffix := ""
	if i.isDefault {
		suffix = " (default)"
	}
	return i.name + suffix
}

func (i layoutItem) Description() string { return string(i.mode) }
func (i layoutItem) FilterValue() string { return i.name }

// LayoutsTab previews configured layouts and arranges with them.
type LayoutsTab struct {
	list list.Model
	cfg  *config.Config

	// floating is the number of windows an arrangement would move.
	floating int
	// tileOverride replaces floating in the preview when positive.
	tileOverride int

	width  int
	height int
}

// NewLayoutsTab creates the layouts tab from cfg's layouts.
func NewLayoutsTab(cfg *config.Config) LayoutsTab {
	names := make([]string, 0, len(cfg.Layouts))
	for name := range cfg.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]list.Item, 0, len(names))
	selected := 0
	for i, name := range names {
		items = append(items, layoutItem{
			name:      name,
			mode:      cfg.Layouts[name].Mode,
			isDefault: name == cfg.DefaultLayout,
		})
		if name == cfg.DefaultLayout {
			selected = i
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Select(selected)

	return LayoutsTab{list: l, cfg: cfg}
}

// Keys returns the help line for the tab.
func (t LayoutsTab) Keys() string {
	return fmt.Sprintf("tiles:%d  enter/a:arrange  u:undo  +/-:tiles", t.tiles())
}

// SetSnapshot records how many windows an arrangement would move.
func (t *LayoutsTab) SetSnapshot(snap *wm.Snapshot) {
	t.floating = 0
	for _, w := range snap.Windows {
		if w.Floating() {
			t.floating++
		}
	}
}

func (t LayoutsTab) tiles() int {
	if t.tileOverride > 0 {
		return t.tileOverride
	}
	return max(t.floating, 1)
}

func (t LayoutsTab) selectedName() string {
	item, ok := t.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.name
}

// Update handles input for the tab.
func (t LayoutsTab) Update(msg tea.Msg, desk Desk) (LayoutsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(sidebarWidth(t.width), t.height)
		return t, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "a":
			name := t.selectedName()
			if name == "" {
				return t, nil
			}
			return t, action(func() (string, error) {
				data, err := desk.Arrange(name)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("arranged with %s (%s)", data.Layout, data.Mode), nil
			})
		case "u":
			return t, action(func() (string, error) {
				if err := desk.Call(ipc.CommandUndo, nil, nil); err != nil {
					return "", err
				}
				return "restored previous geometry", nil
			})
		case "+", "=":
			t.tileOverride = min(t.tiles()+1, 16)
			return t, nil
		case "-":
			t.tileOverride = max(t.tiles()-1, 1)
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

// View renders the tab.
func (t LayoutsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}

	sw := sidebarWidth(t.width)
	sidebar := lipgloss.NewStyle().Width(sw).Height(t.height).Render(t.list.View())

	name := t.selectedName()
	layout, ok := t.cfg.Layouts[name]
	if !ok {
		return sidebar
	}

	mode, region := tiling.Mode(layout.Mode), daemon.Region(layout.TileRegion)
	title := headerStyle.Render(fmt.Sprintf(" %s  [%d tiles]", name, t.tiles()))
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + preview.SummarizeLayout(mode, region, t.tiles(), daemon.Viewport(t.cfg), t.cfg.GapSize, daemon.ManagerOptions(t.cfg).Cascade))

	previewWidth := max(t.width-sw-4, 10)
	lines := preview.RenderLayout(mode, region, t.tiles(), previewWidth, max(t.height-4, 5))
	block := lipgloss.NewStyle().Foreground(lipgloss.Color("247")).Render(strings.Join(lines, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ",
		lipgloss.JoinVertical(lipgloss.Left, title, summary, "", block))
}
