package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "show":
		os.Exit(runShow(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "group":
		os.Exit(runGroup(os.Args[2:]))
	case "icon":
		os.Exit(runIcon(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "undo":
		os.Exit(runUndo(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the deskwm daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload configuration in the daemon")
	fmt.Fprintln(w, "  state               Print the full state as JSON")
	fmt.Fprintln(w, "  show                Draw the desktop in the terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window create       Open a window")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window focus        Activate and raise a window")
	fmt.Fprintln(w, "  window maximize     Toggle maximized")
	fmt.Fprintln(w, "  window minimize     Toggle minimized")
	fmt.Fprintln(w, "  window move         Move a window")
	fmt.Fprintln(w, "  window resize       Set a window's geometry")
	fmt.Fprintln(w, "  window title        Change a window's title")
	fmt.Fprintln(w, "  window content      Replace a window's content")
	fmt.Fprintln(w, "  window save         Mark a window's content saved")
	fmt.Fprintln(w, "  window group        Move a window to a group")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  group list          List groups and their windows")
	fmt.Fprintln(w, "  group create        Create a group")
	fmt.Fprintln(w, "  group update        Rename or recolor a group")
	fmt.Fprintln(w, "  group delete        Delete a group")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  icon add            Place a desktop icon")
	fmt.Fprintln(w, "  icon move           Move a desktop icon")
	fmt.Fprintln(w, "  icon remove         Remove a desktop icon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange [layout]    Arrange windows with a layout")
	fmt.Fprintln(w, "  undo                Undo the last arrangement")
	fmt.Fprintln(w, "  layout list         List available layouts")
	fmt.Fprintln(w, "  layout preview      Draw a layout without applying it")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Browse windows, groups and layouts interactively")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskwm <command> --help' for command-specific options.")
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// parseFlags parses args and reports the exit code to use when parsing
// stopped early: 0 for --help, 2 for bad flags.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	active := "none"
	if status.ActiveWindowID != nil {
		active = strconv.Itoa(*status.ActiveWindowID)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("windows:        %d\n", status.WindowCount)
	fmt.Printf("groups:         %d\n", status.GroupCount)
	fmt.Printf("active_window:  %s\n", active)
	fmt.Printf("default_layout: %s\n", status.DefaultLayout)
	fmt.Printf("backend:        %s\n", status.Backend)
	if status.StatePath != "" {
		fmt.Printf("state_path:     %s\n", status.StatePath)
	}
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: deskwm reload")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Re-read the configuration file in the running daemon.")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

// loadConfig loads path, or the default config path when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || isHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  deskwm config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  deskwm config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  deskwm config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("config: ok (%d files, %d layouts)\n", len(res.Files), len(res.Config.Layouts))
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")

	if isHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage: deskwm tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive browser for the running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3  Switch tabs (Windows, Groups, Layouts)")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Navigate")
		fmt.Fprintln(os.Stderr, "  Windows   enter focus, c create, x close, m maximize, n minimize, s mark saved")
		fmt.Fprintln(os.Stderr, "  Groups    c create, e edit, d delete")
		fmt.Fprintln(os.Stderr, "  Layouts   enter arrange, u undo, +/- preview tile count")
		fmt.Fprintln(os.Stderr, "  r         Refresh now")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(ipc.NewClient(), res.Config); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

// slogLevel maps the config log_level onto slog.
func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return id, nil
}

// parseInts parses every arg as an integer, naming the first bad one.
func parseInts(names []string, args []string) ([]int, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("expected <%s>", strings.Join(names, "> <"))
	}
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", names[i], a)
		}
		out[i] = v
	}
	return out, nil
}
