package main

import (
	"fmt"
	"maps"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/atomicstack/popup-nav/internal/app"
	"github.com/atomicstack/popup-nav/internal/config"
	"github.com/atomicstack/popup-nav/internal/logging"
	"github.com/atomicstack/popup-nav/internal/logging/events"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	if logging.TraceEnabled() {
		events.App.Start(startup(runtimeCfg, os.Stdin, os.Stdout, os.Stderr))
	}

	run := app.Run
	if runtimeCfg.Features.Dump {
		run = func(cfg app.Config) error { return app.Dump(cfg, os.Stdout) }
	}
	if err := run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startup collects the invocation details traced at start-up. The logging
// settings are folded into the flags since they live outside the app config.
func startup(cfg config.Config, files ...*os.File) events.Startup {
	flags := maps.Clone(cfg.Flags)
	if flags == nil {
		flags = map[string]string{}
	}
	flags["trace"] = strconv.FormatBool(cfg.Logging.Trace)
	flags["log-file"] = cfg.Logging.FilePath
	s := events.Startup{Args: cfg.Args, Flags: flags, Source: cfg.App.Source}
	s.Terminal, s.Width, s.Height = terminalSize(files...)
	return s
}

// terminalSize returns the name and size of the first file that is a
// terminal.
func terminalSize(files ...*os.File) (string, int, int) {
	for _, f := range files {
		if f == nil || !term.IsTerminal(int(f.Fd())) {
			continue
		}
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			return f.Name(), w, h
		}
	}
	return "", 0, 0
}
