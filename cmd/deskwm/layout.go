package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/preview"
	"github.com/1broseidon/deskwm/internal/tiling"
)

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm arrange [layout]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Arrange visible, non-sidebar windows with a layout (default: default_layout).")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "arrange takes at most one layout")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().Arrange(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("arranged with %s (%s)\n", data.Layout, data.Mode)
	return 0
}

func runUndo(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: deskwm undo")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Restore the geometry windows had before the last arrangement.")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "undo takes no arguments")
		return 2
	}
	if err := ipc.NewClient().Undo(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskwm layout list [--path PATH] [--json]")
	fmt.Fprintln(w, "  deskwm layout preview [--path PATH] [--tiles N] <layout>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Layouts are read from the config file; the daemon is not needed.")
}

type layoutJSON struct {
	Name       string         `json:"name"`
	Mode       string         `json:"mode"`
	Base       string         `json:"base,omitempty"`
	Default    bool           `json:"default,omitempty"`
	TileRegion tileRegionJSON `json:"tile_region"`
}

type tileRegionJSON struct {
	Type          string `json:"type"`
	XPercent      int    `json:"x_percent,omitempty"`
	YPercent      int    `json:"y_percent,omitempty"`
	WidthPercent  int    `json:"width_percent,omitempty"`
	HeightPercent int    `json:"height_percent,omitempty"`
}

func layoutEntries(res *config.LoadResult) []layoutJSON {
	names := make([]string, 0, len(res.Config.Layouts))
	for name := range res.Config.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	layouts := make([]layoutJSON, 0, len(names))
	for _, name := range names {
		l := res.Config.Layouts[name]
		layouts = append(layouts, layoutJSON{
			Name:    name,
			Mode:    string(l.Mode),
			Base:    res.LayoutBases[name],
			Default: name == res.Config.DefaultLayout,
			TileRegion: tileRegionJSON{
				Type:          string(l.TileRegion.Type),
				XPercent:      l.TileRegion.XPercent,
				YPercent:      l.TileRegion.YPercent,
				WidthPercent:  l.TileRegion.WidthPercent,
				HeightPercent: l.TileRegion.HeightPercent,
			},
		})
	}
	return layouts
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if isHelp(args) {
		printLayoutUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		jsonOut := fs.Bool("json", false, "Output full layout details as JSON")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		layouts := layoutEntries(res)

		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(layouts); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			return 0
		}

		cfg := res.Config
		vp := daemon.Viewport(cfg)
		fmt.Printf("default_layout: %s\n", cfg.DefaultLayout)
		for _, l := range layouts {
			layout := cfg.Layouts[l.Name]
			summary := preview.SummarizeLayout(tiling.Mode(layout.Mode), daemon.Region(layout.TileRegion), 4, vp, cfg.GapSize, daemon.ManagerOptions(cfg).Cascade)
			fmt.Printf("- %-12s %-10s %s\n", l.Name, l.Mode, summary)
		}
		return 0

	case "preview":
		fs := flag.NewFlagSet("preview", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		tiles := fs.Int("tiles", 4, "Number of windows to lay out")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "layout preview requires <layout>")
			return 2
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		layout, err := res.Config.GetLayout(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		opts := preview.TerminalOptions(os.Stdout)
		mode, region := tiling.Mode(layout.Mode), daemon.Region(layout.TileRegion)
		fmt.Printf("%s (%s): %s\n", fs.Arg(0), layout.Mode,
			preview.SummarizeLayout(mode, region, *tiles, daemon.Viewport(res.Config), res.Config.GapSize, daemon.ManagerOptions(res.Config).Cascade))
		for _, line := range preview.RenderLayout(mode, region, *tiles, opts.Width, opts.Height) {
			fmt.Println(line)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func runState(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: deskwm state")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Print the daemon's full state snapshot as JSON.")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "state takes no arguments")
		return 2
	}
	snap, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm show [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Draw the daemon's windows scaled to the terminal.")
	}
	path := fs.String("path", "", "Config file path for the viewport (default: ~/.config/deskwm/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	snap, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(preview.RenderSnapshot(snap, daemon.Viewport(res.Config), preview.TerminalOptions(os.Stdout)))
	return 0
}
