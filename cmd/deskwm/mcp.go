package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/mcp"
	"github.com/1broseidon/deskwm/internal/persist"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskwm mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskwm mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm mcp serve [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio. The server owns the saved state, so")
		fmt.Fprintln(os.Stderr, "it refuses to start while a deskwm daemon is running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if err := ipc.NewClient().Ping(); err == nil {
		log.Printf("A deskwm daemon is running; stop it before serving MCP")
		return 1
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	// stdout carries the protocol; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel(res.Config.LogLevel)}))
	svc, err := daemon.Open(res.Config, logger)
	if errors.Is(err, persist.ErrLocked) {
		log.Printf("Another deskwm process owns the state store: %v", err)
		return 1
	}
	if err != nil {
		log.Printf("Failed to open state: %v", err)
		return 1
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Printf("Failed to close state: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := mcp.NewServer(svc).Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("MCP server error: %v", err)
		return 1
	}
	return 0
}
