/*
Package main implements the candidate filter server and CLI [DBG] application.

Mozcserve prunes streams of ranked conversion candidates produced by a
lattice-based input conversion engine. It answers, one candidate at a time,
whether the candidate should be kept, dropped, or whether enumeration should
stop for the current segment. It can operate as a MessagePack IPC server for
integration with a conversion engine, or as a CLI application for testing
and debugging the filter rules.

# Usage

Start the server with default settings:

	mozcserve -pos /path/to/pos_table.bin

Enable debug mode to trace individual filter rules:

	mozcserve -pos /path/to/pos_table.bin -d

Run in CLI mode for interactive testing:

	mozcserve -c

# Configuration

Runtime configuration is managed through a TOML file that supports filter
session bounds and request validation limits:

	[filter]
	max_candidates = 200
	stop_cache_size = 15

	[server]
	max_value_len = 256
	max_nodes = 64

The config file is automatically created with defaults if it doesn't exist.
Cost thresholds are fixed by the scoring model and are not configurable.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Filter requests
carry one fully scored candidate each and are processed synchronously with
microsecond timing information in the responses. Candidates must be sent in
ascending-cost order within a segment; a reset op marks a segment boundary.
See the server package docs for the message layout.

# POS Table

The filter needs a part-of-speech id table (noun-prefix ids plus the
last-name and first-name category ids). Tables are msgpack .bin files
generated from TSV data with the postool binary. Without a table the server
runs with an empty one, which disables the noun-prefix and personal-name
rules.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tondoru/mozc/internal/cli"
	logging "github.com/tondoru/mozc/internal/logger"
	"github.com/tondoru/mozc/pkg/config"
	"github.com/tondoru/mozc/pkg/converter"
	"github.com/tondoru/mozc/pkg/pos"
	"github.com/tondoru/mozc/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "mozcserve"
	gh      = "https://github.com/tondoru/mozc"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	posPath := flag.String("pos", "", "Path to the msgpack POS table (.bin)")
	configPath := flag.String("config", "", "Path to a custom config.toml")

	flag.Parse()

	if *showVersion {
		logger := logging.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ mozcserve ] Prunes ranked conversion candidates!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(os.Stderr)

	matcher := loadMatcher(*posPath)

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	limits := converter.Limits{
		MaxCandidates: appConfig.Filter.MaxCandidates,
		StopCacheSize: appConfig.Filter.StopCacheSize,
	}

	// CLI is mainly used for testing and dbg purposes.
	// Any new filter rules should be exercised in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(matcher, limits, appConfig.CLI.ShowTiming)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(matcher, appConfig)

	showStartupInfo(*posPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// loadMatcher loads the POS table, falling back to an empty one so the
// filter still runs with the noun-prefix and name rules disabled.
func loadMatcher(posPath string) pos.Matcher {
	if posPath == "" {
		log.Warn("No POS table specified, noun-prefix and name rules disabled...")
		return pos.NewTable(nil, 0, 0)
	}
	table, err := pos.LoadTable(posPath)
	if err != nil {
		log.Fatalf("Failed to load POS table: %v", err)
		os.Exit(1)
	}
	log.Debugf("Loaded POS table from: %s", posPath)
	return table
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(posPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " mozcserve ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	if posPath != "" {
		log.Infof("pos table: ( %s )", posPath)
	}
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
