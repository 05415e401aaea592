package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/ipc"
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
	case "redraw":
		os.Exit(runRedraw(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "preview":
		os.Exit(runPreview(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: tilebar <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the bar daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon and bar status")
	fmt.Fprintln(w, "  redraw              Repaint every bar now")
	fmt.Fprintln(w, "  reload              Reload configuration in the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  preview             Render the bar in this terminal")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilebar <command> --help' for command-specific options.")
}

// noArgs parses a flag-less subcommand. It returns -1 when the caller
// should continue.
func noArgs(name, summary string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tilebar %s\n\n%s\n", name, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	return -1
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	displays := fs.Bool("displays", false, "Also list displays")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilebar status [--displays]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("bar_count:      %d\n", status.BarCount)
	for _, b := range status.Bars {
		fmt.Printf("  bar window=%d display=%d (%s) width=%d left=[%d,%d) center=[%d,%d) right=[%d,%d) frames=%d\n",
			b.Window, b.Display, b.Name, b.Width,
			b.Left.Left, b.Left.Right, b.Center.Left, b.Center.Right, b.Right.Left, b.Right.Right,
			b.Frames)
	}

	if *displays {
		ds, err := client.GetDisplays()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, d := range ds.Displays {
			fmt.Printf("  display id=%d name=%s %dx%d+%d+%d usable=%dx%d dpi=%d\n",
				d.ID, d.Name, d.Width, d.Height, d.X, d.Y, d.UsableWidth, d.UsableHeight, d.DPI)
		}
	}
	return 0
}

func runRedraw(args []string) int {
	if rc := noArgs("redraw", "Ask the daemon to repaint every bar.", args); rc >= 0 {
		return rc
	}
	if err := ipc.NewClient().Redraw(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	if rc := noArgs("reload", "Ask the daemon to reload its configuration.", args); rc >= 0 {
		return rc
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config: reloaded")
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  tilebar config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  tilebar config print [--path PATH] [--effective|--defaults] [--sources]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilebar/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("config: ok (%d file(s))\n", len(res.Files))
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/tilebar/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		printSources := fs.Bool("sources", false, "List where each configured value came from")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if *printDefaults {
			data, err := config.DefaultConfig().Marshal()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			fmt.Print(string(data))
			return 0
		}

		_ = printEffective // default
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, f := range res.Files {
			fmt.Printf("# file: %s\n", f)
		}
		data, err := res.Config.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))

		if *printSources {
			keys := make([]string, 0, len(res.Sources))
			for k := range res.Sources {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("# sources:")
			for _, k := range keys {
				fmt.Printf("#   %s: %s\n", k, formatSource(res.Sources[k]))
			}
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
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
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
