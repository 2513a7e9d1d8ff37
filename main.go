package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/cj3636/gtaz/internal/config"
	"github.com/cj3636/gtaz/internal/export"
	"github.com/cj3636/gtaz/internal/gitops"
	"github.com/cj3636/gtaz/internal/repo"
	"github.com/cj3636/gtaz/internal/tui"
)

var (
	repoPath     string
	runTool      string
	diffTarget   string
	diffRange    string
	logLimit     int
	themeName    string
	highContrast bool
	configPath   string
	exportFormat string
	exportFile   string
	exportCopy   bool
	showVersion  bool
	help         bool
)

func init() {
	flag.StringVarP(&repoPath, "repo", "r", ".", "Path to the git repository to browse")
	flag.StringVar(&runTool, "run", "", "Run a single tool (status, log, diff, branches, remotes) and exit")
	flag.StringVar(&diffTarget, "diff-target", "", "What the diff tool compares: worktree, staged, or range")
	flag.StringVar(&diffRange, "diff-range", "", "Revisions for --diff-target=range, as from..to")
	flag.IntVar(&logLimit, "log-limit", 0, "Maximum number of commits shown by the log tool")
	flag.StringVar(&themeName, "theme", "", "Color theme: default, solarized, or dracula")
	flag.BoolVar(&highContrast, "high-contrast", false, "Use high-contrast theme colors")
	flag.StringVar(&configPath, "config", "", "Path to the config file (default ~/.config/gtaz/config.yaml)")
	flag.StringVar(&exportFormat, "export-format", "", "With --run, export the output as html, markdown, or ansi")
	flag.StringVar(&exportFile, "export-file", "", "Write exported output to the provided file path")
	flag.BoolVar(&exportCopy, "export-copy", false, "Copy the output to your clipboard")
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.BoolVarP(&help, "help", "h", false, "Show help information")
	flag.Usage = usage
}

func usage() {
	fmt.Println("gtaz - A terminal Git repository browser built with Charm libraries")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  gtaz [options]")
	fmt.Println("  gtaz -r /path/to/repo")
	fmt.Println("  gtaz -r /path/to/repo --run status")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  gtaz                                      # Browse the current directory")
	fmt.Println("  gtaz -r ~/src/project                     # Browse another repository")
	fmt.Println("  gtaz --run log --log-limit 30             # Print history without the TUI")
	fmt.Println("  gtaz --run diff --diff-target staged      # Print the staged diff")
	fmt.Println("  gtaz --run diff --diff-target range --diff-range v1..v2")
	fmt.Println("")
	fmt.Println("Keyboard shortcuts:")
	fmt.Println("  j/↓ k/↑  Select tool")
	fmt.Println("  enter    Run selected tool")
	fmt.Println("  J/K d/u  Scroll output")
	fmt.Println("  g/G      Output top/bottom")
	fmt.Println("  ctrl+r   Refresh repository")
	fmt.Println("  ctrl+b   Checkout branch or tag")
	fmt.Println("  y        Copy output to clipboard")
	fmt.Println("  ?        Toggle help panel")
	fmt.Println("  q        Quit")
}

// buildGateway applies flag and config settings onto a gateway.
func buildGateway(cfg *config.Config) (*gitops.Gateway, error) {
	gateway := gitops.NewGateway()
	gateway.LogLimit = cfg.LogLimit
	if logLimit > 0 {
		gateway.LogLimit = logLimit
	}

	raw := cfg.DiffTarget
	if diffTarget != "" {
		raw = diffTarget
	}
	target, err := gitops.ParseDiffTarget(raw)
	if err != nil {
		return nil, err
	}
	gateway.DiffTarget = target

	if diffRange != "" {
		from, to, ok := strings.Cut(diffRange, "..")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid diff range %q, expected from..to", diffRange)
		}
		gateway.RangeFrom = from
		gateway.RangeTo = to
	}

	return gateway, nil
}

// runOnce executes a single tool and prints or exports the output,
// skipping the TUI entirely.
func runOnce(dispatcher *gitops.Dispatcher, snapshot repo.Repository) int {
	res := dispatcher.Run(gitops.ToolID(runTool), snapshot)

	if exportFormat != "" || exportFile != "" || exportCopy {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			log.Error("invalid export format", "err", err)
			return 1
		}

		tool, _ := gitops.Lookup(res.ToolID)
		rendered, err := export.Render(res, format, export.Options{
			Title: fmt.Sprintf("%s — %s", tool.Label, snapshot.Name),
		})
		if err != nil {
			log.Error("export failed", "err", err)
			return 1
		}

		if exportFile != "" {
			if err := os.WriteFile(exportFile, []byte(rendered), 0o644); err != nil {
				log.Error("writing export", "err", err)
				return 1
			}
			log.Info("output saved", "file", exportFile)
		}
		if exportCopy {
			if err := export.CopyToClipboard(rendered, os.Stdout); err != nil {
				log.Error("copying to clipboard", "err", err)
				return 1
			}
			log.Info("output copied to clipboard")
		}
		if exportFile == "" && !exportCopy {
			fmt.Println(rendered)
		}
	} else if res.Success {
		fmt.Println(res.Output)
	}

	if !res.Success {
		log.Error("tool failed", "tool", res.ToolID, "err", res.Err)
		return 1
	}
	return 0
}

func main() {
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Println("gtaz version 0.1.0")
		fmt.Println("A terminal Git repository browser built with Charm libraries")
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("loading config", "err", err)
	}

	if themeName != "" {
		cfg.ThemePreset = config.ThemePreset(themeName)
	}
	if highContrast {
		cfg.HighContrast = true
	}
	cfg.Theme = config.ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)
	if logLimit > 0 {
		cfg.LogLimit = logLimit
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		log.Fatal("invalid options", "err", err)
	}
	dispatcher := gitops.NewDispatcher(gateway)

	snapshot := repo.FromPath(repoPath)

	if runTool != "" {
		os.Exit(runOnce(dispatcher, snapshot))
	}

	model := tui.NewModel(snapshot, dispatcher, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.Fatal("running TUI", "err", err)
	}
}
