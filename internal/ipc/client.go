package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Dial reports the missing socket.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the socket at socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// roundTrip writes one request line and reads one response line.
func (c *Client) roundTrip(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	// Encode terminates the line with '\n'.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", req.Command, err)
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", req.Command, err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", req.Command, err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Call sends command with payload and decodes the response data into out.
// payload and out may be nil.
func (c *Client) Call(command CommandType, payload, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.Call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.Call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetState retrieves the full state snapshot.
func (c *Client) GetState() (*wm.Snapshot, error) {
	var snap wm.Snapshot
	if err := c.Call(CommandGetState, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListLayouts retrieves the configured layout names.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var data LayoutsData
	if err := c.Call(CommandListLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListGroups retrieves every group with its member window ids.
func (c *Client) ListGroups() (*GroupsData, error) {
	var data GroupsData
	if err := c.Call(CommandListGroups, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateWindow opens a window and returns its id.
func (c *Client) CreateWindow(p CreateWindowPayload) (int, error) {
	var data CreatedData
	if err := c.Call(CommandCreateWindow, p, &data); err != nil {
		return 0, err
	}
	return data.WindowID, nil
}

// WindowCommand sends a command that targets a single window, such as
// CLOSE_WINDOW or TOGGLE_MAXIMIZE.
func (c *Client) WindowCommand(command CommandType, windowID int) error {
	return c.Call(command, WindowPayload{WindowID: windowID}, nil)
}

// CreateGroup creates a group and returns its id.
func (c *Client) CreateGroup(name, color string) (string, error) {
	var data CreatedData
	if err := c.Call(CommandCreateGroup, CreateGroupPayload{Name: name, Color: color}, &data); err != nil {
		return "", err
	}
	return data.GroupID, nil
}

// Arrange applies a named layout; empty uses the default.
func (c *Client) Arrange(layout string) (*ArrangeData, error) {
	var data ArrangeData
	if err := c.Call(CommandArrange, ArrangePayload{Layout: layout}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Undo reverts the most recent arrangement.
func (c *Client) Undo() error {
	return c.Call(CommandUndo, nil, nil)
}

// AddIcon places a desktop icon and returns its id.
func (c *Client) AddIcon(p AddIconPayload) (string, error) {
	var data CreatedData
	if err := c.Call(CommandAddIcon, p, &data); err != nil {
		return "", err
	}
	return data.IconID, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
