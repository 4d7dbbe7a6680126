package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	configPath   string
	listener     net.Listener
	svc          *daemon.Service
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server on the default socket. configPath is
// re-read on RELOAD; empty means the default config path.
func NewServer(svc *daemon.Service, configPath string, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, svc, configPath, reloadChan), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, svc *daemon.Service, configPath string, reloadChan chan struct{}) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: configPath,
		svc:        svc,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.HandleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// HandleCommand processes an IPC command and returns a response
func (s *Server) HandleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return okResponse(s.svc.Snapshot())
	case CommandListLayouts:
		return s.handleListLayouts()
	case CommandListGroups:
		return s.handleListGroups()

	case CommandCreateWindow:
		return s.handleCreateWindow(req.Payload)
	case CommandCloseWindow:
		return windowCommand(s, req.Payload, (*wm.Manager).Close)
	case CommandFocusWindow:
		return windowCommand(s, req.Payload, (*wm.Manager).SetActive)
	case CommandToggleMaximize:
		return windowCommand(s, req.Payload, (*wm.Manager).ToggleMaximize)
	case CommandToggleMinimize:
		return windowCommand(s, req.Payload, (*wm.Manager).ToggleMinimize)
	case CommandMarkSaved:
		return windowCommand(s, req.Payload, (*wm.Manager).MarkSaved)
	case CommandMoveWindow:
		return mutate(s, req.Payload, func(m *wm.Manager, p MoveWindowPayload) error {
			return m.Move(p.WindowID, p.X, p.Y)
		})
	case CommandResizeWindow:
		return mutate(s, req.Payload, func(m *wm.Manager, p ResizeWindowPayload) error {
			return m.Resize(p.WindowID, p.X, p.Y, p.Width, p.Height)
		})
	case CommandSetTitle:
		return mutate(s, req.Payload, func(m *wm.Manager, p SetTitlePayload) error {
			return m.SetTitle(p.WindowID, p.Title)
		})
	case CommandSetContent:
		return mutate(s, req.Payload, func(m *wm.Manager, p SetContentPayload) error {
			return m.SetContent(p.WindowID, p.Content)
		})
	case CommandMoveToGroup:
		return mutate(s, req.Payload, func(m *wm.Manager, p MoveToGroupPayload) error {
			return m.MoveToGroup(p.WindowID, p.GroupID)
		})

	case CommandCreateGroup:
		return s.handleCreateGroup(req.Payload)
	case CommandUpdateGroup:
		return mutate(s, req.Payload, func(m *wm.Manager, p UpdateGroupPayload) error {
			return m.UpdateGroup(p.GroupID, wm.GroupPatch{Name: p.Name, Color: p.Color})
		})
	case CommandDeleteGroup:
		return mutate(s, req.Payload, func(m *wm.Manager, p GroupPayload) error {
			return m.DeleteGroup(p.GroupID)
		})

	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandUndo:
		if err := s.svc.Do((*wm.Manager).UndoArrange); err != nil {
			return NewErrorResponseFrom(err)
		}
		return okResponse(nil)

	case CommandAddIcon:
		return s.handleAddIcon(req.Payload)
	case CommandMoveIcon:
		return mutate(s, req.Payload, func(m *wm.Manager, p MoveIconPayload) error {
			return m.MoveIcon(p.IconID, p.X, p.Y)
		})
	case CommandRemoveIcon:
		return mutate(s, req.Payload, func(m *wm.Manager, p IconPayload) error {
			return m.RemoveIcon(p.IconID)
		})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload[T any](payload json.RawMessage) (T, error) {
	var p T
	if len(payload) == 0 {
		return p, fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	return p, nil
}

// mutate decodes a payload and runs fn under the service lock.
func mutate[T any](s *Server, payload json.RawMessage, fn func(*wm.Manager, T) error) *Response {
	p, err := decodePayload[T](payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.svc.Do(func(m *wm.Manager) error { return fn(m, p) }); err != nil {
		return NewErrorResponseFrom(err)
	}
	return okResponse(nil)
}

func windowCommand(s *Server, payload json.RawMessage, fn func(*wm.Manager, int) error) *Response {
	return mutate(s, payload, func(m *wm.Manager, p WindowPayload) error {
		return fn(m, p.WindowID)
	})
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	var (
		res *config.LoadResult
		err error
	)
	if s.configPath != "" {
		res, err = config.LoadFromPath(s.configPath)
	} else {
		res, err = config.LoadWithSources()
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	if err := s.svc.Reconfigure(res.Config); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply config: %v", err))
	}

	// Notify the main daemon via channel (non-blocking)
	if s.reloadChan != nil {
		select {
		case s.reloadChan <- struct{}{}:
		default:
		}
	}

	log.Println("IPC: Config reloaded successfully")
	return okResponse(nil)
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	cfg := s.svc.Config()
	status := StatusData{
		DefaultLayout: cfg.DefaultLayout,
		Backend:       cfg.Persistence.Backend,
		StatePath:     s.svc.StatePath(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	_ = s.svc.Do(func(m *wm.Manager) error {
		status.WindowCount = m.Len()
		status.GroupCount = len(m.Groups())
		if id, ok := m.ActiveWindowID(); ok {
			status.ActiveWindowID = &id
		}
		return nil
	})
	return okResponse(status)
}

func (s *Server) handleListLayouts() *Response {
	cfg := s.svc.Config()
	return okResponse(LayoutsData{
		Layouts:       cfg.LayoutNames(),
		DefaultLayout: cfg.DefaultLayout,
	})
}

func (s *Server) handleListGroups() *Response {
	var data GroupsData
	err := s.svc.Do(func(m *wm.Manager) error {
		for _, b := range m.Buckets() {
			info := GroupInfo{ID: b.Group.ID, Name: b.Group.Name, Color: b.Group.Color, Windows: []int{}}
			for _, w := range b.Windows {
				info.Windows = append(info.Windows, w.ID)
			}
			data.Groups = append(data.Groups, info)
		}
		return nil
	})
	if err != nil {
		return NewErrorResponseFrom(err)
	}
	return okResponse(data)
}

func (s *Server) handleCreateWindow(payload json.RawMessage) *Response {
	var p CreateWindowPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid payload: %v", err))
		}
	}
	var id int
	err := s.svc.Do(func(m *wm.Manager) error {
		var err error
		id, err = m.Create(p.Options())
		return err
	})
	if err != nil {
		return NewErrorResponseFrom(err)
	}
	return okResponse(CreatedData{WindowID: id})
}

func (s *Server) handleCreateGroup(payload json.RawMessage) *Response {
	p, err := decodePayload[CreateGroupPayload](payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	var id string
	err = s.svc.Do(func(m *wm.Manager) error {
		var err error
		id, err = m.CreateGroup(p.Name, p.Color)
		return err
	})
	if err != nil {
		return NewErrorResponseFrom(err)
	}
	return okResponse(CreatedData{GroupID: id})
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var p ArrangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid payload: %v", err))
		}
	}
	name, layout, err := s.svc.Arrange(p.Layout)
	if err != nil {
		return NewErrorResponseFrom(err)
	}
	return okResponse(ArrangeData{Layout: name, Mode: string(layout.Mode)})
}

func (s *Server) handleAddIcon(payload json.RawMessage) *Response {
	p, err := decodePayload[AddIconPayload](payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	var id string
	err = s.svc.Do(func(m *wm.Manager) error {
		var err error
		id, err = m.AddIcon(wm.Icon{ID: p.ID, Glyph: p.Glyph, Label: p.Label, X: p.X, Y: p.Y, Action: p.Action})
		return err
	})
	if err != nil {
		return NewErrorResponseFrom(err)
	}
	return okResponse(CreatedData{IconID: id})
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
