package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waftrail/waftrail/internal/geoip"
	"github.com/waftrail/waftrail/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	var configPath string
	var skin string
	var ipAPI bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/waftrail/config.yml)")
	flag.StringVar(&skin, "skin", "", "color skin name")
	flag.BoolVar(&ipAPI, "ip-api", true, "enable geolocation lookups for client addresses")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: waftrail [flags] <audit-log-file>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("waftrail - WAF Audit Log Examiner\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", buildTime)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	// Fail before the terminal is taken over, not after.
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", path, err)
		os.Exit(1)
	}
	f.Close()

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if skin != "" {
		cfg.Skin = skin
	}
	if !ipAPI {
		cfg.IPAPI = false
	}

	if err := runTUI(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(path string, cfg cliConfig) error {
	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".config", "waftrail")
	if err := tui.InitializeSkin(cfg.Skin, configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load skin %q: %v (using default)\n", cfg.Skin, err)
	}

	var cache *geoip.Cache
	if cfg.IPAPI {
		cache = geoip.NewCache(geoip.NewClient(cfg.GeoEndpoint, cfg.GeoTimeout))
	}

	browser := tui.NewBrowserPage(path, cache)
	loading := tui.NewLoadingPage(path, browser)
	app := tui.NewApp(loading, browser)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	if err := loading.Err(); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
