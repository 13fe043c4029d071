package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atomicstack/ownerdraw-menu/internal/app"
	"github.com/atomicstack/ownerdraw-menu/internal/config"
	"github.com/atomicstack/ownerdraw-menu/internal/logging"
	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	collector := stats.New()
	err := app.Run(runtimeCfg.App, collector)
	events.App.Stop(collector.Snapshot())
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"launch": describeLaunch(cfg.App),
		"tty":    collectTTYDetails(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

// launchDetails summarises what the run is about to pop up and where.
type launchDetails struct {
	Mode         string `json:"mode"`
	Menu         string `json:"menu"`
	Layout       string `json:"layout"`
	Theme        string `json:"theme"`
	Dark         bool   `json:"dark"`
	SubmenuDelay string `json:"submenu_delay"`
	Snapshot     string `json:"snapshot,omitempty"`
	HoverItem    *int   `json:"hover_item,omitempty"`
}

func describeLaunch(cfg app.Config) launchDetails {
	d := launchDetails{
		Mode:         "interactive",
		Menu:         cfg.Menu,
		Layout:       layoutName(cfg.Layout),
		Theme:        string(cfg.Theme),
		Dark:         cfg.Theme.IsDark(),
		SubmenuDelay: cfg.Delay.String(),
	}
	if cfg.Snapshot != "" {
		d.Mode = "snapshot"
		d.Snapshot = cfg.Snapshot
		if cfg.SnapshotHover >= 0 {
			hover := cfg.SnapshotHover
			d.HoverItem = &hover
		}
	}
	return d
}

func layoutName(l menu.Layout) string {
	switch l {
	case menu.CellLayout():
		return "cells"
	case menu.DefaultLayout():
		return "pixels"
	}
	return "custom"
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails reports which standard descriptors are terminals. The
// first one with a readable size is the terminal the menus will be drawn on.
func collectTTYDetails() ttyDetails {
	var info ttyDetails
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		probe := probeTTY(f)
		info.Probes = append(info.Probes, probe)
		if info.Detected == nil && probe.IsTerminal && probe.Error == "" {
			info.Detected = &ttyDetected{Source: probe.Name, Width: probe.Width, Height: probe.Height}
		}
	}
	return info
}

func probeTTY(f *os.File) ttyProbeResult {
	probe := ttyProbeResult{Name: strings.TrimPrefix(f.Name(), "/dev/")}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return probe
	}
	probe.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		probe.Error = err.Error()
		return probe
	}
	probe.Width, probe.Height = width, height
	return probe
}
