package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/persist"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the window manager in the foreground and serve IPC requests.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Printf("Failed to resolve config path: %v", err)
			return 1
		}
		configPath = p
	}

	res, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	log.Printf("Configuration loaded (backend: %s, default layout: %s)", cfg.Persistence.Backend, cfg.DefaultLayout)

	levelVar := new(slog.LevelVar)
	levelVar.Set(slogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))

	if err := ipc.NewClient().Ping(); err == nil {
		log.Printf("Another deskwm daemon is already running")
		return 1
	}

	svc, err := daemon.Open(cfg, logger)
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

	reloadChan := make(chan struct{}, 1)
	ipcServer, err := ipc.NewServer(svc, configPath, reloadChan)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{Logger: logger}, svc)
	go reconciler.Run(ctx)

	reload := func(reason string) {
		res, err := config.LoadFromPath(configPath)
		if err != nil {
			log.Printf("Config reload (%s) failed: %v", reason, err)
			return
		}
		if err := svc.Reconfigure(res.Config); err != nil {
			log.Printf("Config reload (%s) failed: %v", reason, err)
			return
		}
		levelVar.Set(slogLevel(res.Config.LogLevel))
		log.Printf("Config reloaded (%s)", reason)
	}

	watcher, err := persist.NewWatcher(0, logger)
	if err != nil {
		log.Printf("Warning: file watching disabled: %v", err)
	} else {
		defer watcher.Close()
		if err := watcher.Watch(configPath, func() { reload("file changed") }); err != nil {
			log.Printf("Warning: failed to watch config: %v", err)
		}
		if stateFile := svc.StateFile(); stateFile != "" {
			if err := watcher.Watch(stateFile, reconciler.ReconcileNow); err != nil {
				log.Printf("Warning: failed to watch state file: %v", err)
			}
		}
		go watcher.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	log.Println("deskwm daemon started successfully")
	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				reload("SIGHUP")
			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down deskwm daemon...")
				return 0
			}

		case <-reloadChan:
			// IPC already applied the config; only the log level lives here.
			levelVar.Set(slogLevel(svc.Config().LogLevel))
		}
	}
}
