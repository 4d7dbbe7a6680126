// Package tui is an interactive browser for the running daemon: windows,
// groups and layouts with a live sketch of the desktop.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Desk is the part of the IPC client the TUI drives. *ipc.Client
// implements it.
type Desk interface {
	GetState() (*wm.Snapshot, error)
	Call(command ipc.CommandType, payload, out any) error
	CreateWindow(p ipc.CreateWindowPayload) (int, error)
	CreateGroup(name, color string) (string, error)
	Arrange(layout string) (*ipc.ArrangeData, error)
}

var _ Desk = (*ipc.Client)(nil)

// Run starts the TUI and blocks until the user quits. cfg supplies the
// layouts and the viewport used for drawing.
func Run(desk Desk, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(desk, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
