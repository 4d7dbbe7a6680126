package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/deskwm/internal/ipc"
)

func printGroupUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskwm group list [--json]")
	fmt.Fprintln(w, "  deskwm group create [--color HEX] <name>")
	fmt.Fprintln(w, "  deskwm group update [--name NAME] [--color HEX] <group-id>")
	fmt.Fprintln(w, "  deskwm group delete <group-id>")
}

func runGroup(args []string) int {
	if len(args) == 0 {
		printGroupUsage(os.Stderr)
		return 2
	}
	if isHelp(args) {
		printGroupUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		data, err := client.ListGroups()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(data.Groups); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			return 0
		}
		for _, g := range data.Groups {
			ids := make([]string, len(g.Windows))
			for i, id := range g.Windows {
				ids[i] = strconv.Itoa(id)
			}
			fmt.Printf("%-10s %-20s %-8s [%s]\n", g.ID, g.Name, g.Color, strings.Join(ids, " "))
		}
		return 0

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		color := fs.String("color", "", "Group color (default: next palette color)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "group create requires <name>")
			return 2
		}
		id, err := client.CreateGroup(strings.Join(fs.Args(), " "), *color)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(id)
		return 0

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		name := fs.String("name", "", "New name")
		color := fs.String("color", "", "New color")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "group update requires <group-id>")
			return 2
		}
		payload := ipc.UpdateGroupPayload{GroupID: fs.Arg(0)}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				payload.Name = name
			case "color":
				payload.Color = color
			}
		})
		if err := client.Call(ipc.CommandUpdateGroup, payload, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "group delete requires <group-id>")
			return 2
		}
		if err := client.Call(ipc.CommandDeleteGroup, ipc.GroupPayload{GroupID: args[1]}, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown group command: %s\n\n", args[0])
		printGroupUsage(os.Stderr)
		return 2
	}
}

func printIconUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskwm icon add [--id ID] [--glyph G] [--action A] [--x X] [--y Y] <label>")
	fmt.Fprintln(w, "  deskwm icon move <icon-id> <x> <y>")
	fmt.Fprintln(w, "  deskwm icon remove <icon-id>")
}

func runIcon(args []string) int {
	if len(args) == 0 {
		printIconUsage(os.Stderr)
		return 2
	}
	if isHelp(args) {
		printIconUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		id := fs.String("id", "", "Icon id (default: icon-N)")
		glyph := fs.String("glyph", "", "Glyph shown above the label")
		action := fs.String("action", "", "Action name triggered on open")
		x := fs.Int("x", 0, "Left edge (default: stacked)")
		y := fs.Int("y", 0, "Top edge (default: stacked)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "icon add requires <label>")
			return 2
		}
		iconID, err := client.AddIcon(ipc.AddIconPayload{
			ID:     *id,
			Glyph:  *glyph,
			Label:  strings.Join(fs.Args(), " "),
			X:      *x,
			Y:      *y,
			Action: *action,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(iconID)
		return 0

	case "move":
		if len(args) != 4 {
			fmt.Fprintln(os.Stderr, "icon move requires <icon-id> <x> <y>")
			return 2
		}
		v, err := parseInts([]string{"x", "y"}, args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := client.Call(ipc.CommandMoveIcon, ipc.MoveIconPayload{IconID: args[1], X: v[0], Y: v[1]}, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "remove":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "icon remove requires <icon-id>")
			return 2
		}
		if err := client.Call(ipc.CommandRemoveIcon, ipc.IconPayload{IconID: args[1]}, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown icon command: %s\n\n", args[0])
		printIconUsage(os.Stderr)
		return 2
	}
}
