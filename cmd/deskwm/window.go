package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/deskwm/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskwm window create [--title T] [--x X --y Y] [--width W] [--height H] [--group ID] [--content TEXT] [--maximized] [--sidebar left|right]")
	fmt.Fprintln(w, "  deskwm window close <id>")
	fmt.Fprintln(w, "  deskwm window focus <id>")
	fmt.Fprintln(w, "  deskwm window maximize <id>")
	fmt.Fprintln(w, "  deskwm window minimize <id>")
	fmt.Fprintln(w, "  deskwm window move <id> <x> <y>")
	fmt.Fprintln(w, "  deskwm window resize <id> <x> <y> <width> <height>")
	fmt.Fprintln(w, "  deskwm window title <id> <title>")
	fmt.Fprintln(w, "  deskwm window content <id> <text|->")
	fmt.Fprintln(w, "  deskwm window save <id>")
	fmt.Fprintln(w, "  deskwm window group <id> <group-id>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "A content of '-' is read from stdin.")
}

// toggleCommands are the window subcommands that take only an id.
var toggleCommands = map[string]ipc.CommandType{
	"close":    ipc.CommandCloseWindow,
	"focus":    ipc.CommandFocusWindow,
	"maximize": ipc.CommandToggleMaximize,
	"minimize": ipc.CommandToggleMinimize,
	"save":     ipc.CommandMarkSaved,
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if isHelp(args) {
		printWindowUsage(os.Stdout)
		return 0
	}

	if args[0] == "create" {
		return runWindowCreate(args[1:])
	}

	rest := args[1:]
	if len(rest) < 1 {
		fmt.Fprintf(os.Stderr, "window %s requires <id>\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
	id, err := parseID(rest[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	rest = rest[1:]

	var (
		command ipc.CommandType
		payload any
	)
	if cmd, ok := toggleCommands[args[0]]; ok {
		if len(rest) != 0 {
			fmt.Fprintf(os.Stderr, "window %s takes only <id>\n", args[0])
			return 2
		}
		command, payload = cmd, ipc.WindowPayload{WindowID: id}
	} else {
		switch args[0] {
		case "move":
			v, err := parseInts([]string{"x", "y"}, rest)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			command, payload = ipc.CommandMoveWindow, ipc.MoveWindowPayload{WindowID: id, X: v[0], Y: v[1]}
		case "resize":
			v, err := parseInts([]string{"x", "y", "width", "height"}, rest)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			command, payload = ipc.CommandResizeWindow, ipc.ResizeWindowPayload{
				WindowID: id, X: v[0], Y: v[1], Width: v[2], Height: v[3],
			}
		case "title":
			if len(rest) == 0 {
				fmt.Fprintln(os.Stderr, "window title requires <title>")
				return 2
			}
			command, payload = ipc.CommandSetTitle, ipc.SetTitlePayload{WindowID: id, Title: strings.Join(rest, " ")}
		case "content":
			if len(rest) != 1 {
				fmt.Fprintln(os.Stderr, "window content requires <text|->")
				return 2
			}
			text, err := readContent(rest[0], os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			command, payload = ipc.CommandSetContent, ipc.SetContentPayload{WindowID: id, Content: text}
		case "group":
			if len(rest) != 1 {
				fmt.Fprintln(os.Stderr, "window group requires <group-id>")
				return 2
			}
			command, payload = ipc.CommandMoveToGroup, ipc.MoveToGroupPayload{WindowID: id, GroupID: rest[0]}
		default:
			fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
			printWindowUsage(os.Stderr)
			return 2
		}
	}

	if err := ipc.NewClient().Call(command, payload, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func readContent(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read content from stdin: %w", err)
	}
	return string(data), nil
}

// optionalInt is a flag that records whether it was set.
type optionalInt struct {
	v   int
	set bool
}

func (o *optionalInt) String() string {
	if o == nil || !o.set {
		return ""
	}
	return fmt.Sprint(o.v)
}

func (o *optionalInt) Set(s string) error {
	if _, err := fmt.Sscanf(s, "%d", &o.v); err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	o.set = true
	return nil
}

func (o *optionalInt) ptr() *int {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}

func runWindowCreate(args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm window create [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window and print its id. Unset fields take the configured defaults.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	var x, y optionalInt
	fs.Var(&x, "x", "Left edge (default: staggered)")
	fs.Var(&y, "y", "Top edge (default: staggered)")
	title := fs.String("title", "", "Window title")
	width := fs.Int("width", 0, "Width (default: window_defaults.width)")
	height := fs.Int("height", 0, "Height (default: window_defaults.height)")
	group := fs.String("group", "", "Group id (default: the default group)")
	content := fs.String("content", "", "Initial content ('-' reads stdin)")
	maximized := fs.Bool("maximized", false, "Open maximized")
	sidebar := fs.String("sidebar", "", "Dock as a sidebar on 'left' or 'right'")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window create takes no arguments")
		fs.Usage()
		return 2
	}

	text := *content
	if text == "-" {
		var err error
		if text, err = readContent(text, os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	id, err := ipc.NewClient().CreateWindow(ipc.CreateWindowPayload{
		Title:       *title,
		X:           x.ptr(),
		Y:           y.ptr(),
		Width:       *width,
		Height:      *height,
		Content:     text,
		GroupID:     *group,
		Maximized:   *maximized,
		SidebarMode: *sidebar != "",
		SidebarSide: *sidebar,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(id)
	return 0
}
