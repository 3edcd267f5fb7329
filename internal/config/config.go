package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/popup-nav/internal/app"
	"github.com/atomicstack/popup-nav/internal/nav"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
	Dump    bool
}

const (
	envSocketPath      = "POPUP_NAV_SOCKET"
	envSource          = "POPUP_NAV_SOURCE"
	envTreePath        = "POPUP_NAV_TREE"
	envWatch           = "POPUP_NAV_WATCH"
	envPollInterval    = "POPUP_NAV_POLL"
	envWidth           = "POPUP_NAV_WIDTH"
	envHeight          = "POPUP_NAV_HEIGHT"
	envShowFooter      = "POPUP_NAV_FOOTER"
	envVerbose         = "POPUP_NAV_VERBOSE"
	envTrace           = "POPUP_NAV_TRACE"
	envLogFile         = "POPUP_NAV_LOG_FILE"
	envUnresolvedWarn  = "POPUP_NAV_UNRESOLVED_WARN"
	envConeSlope       = "POPUP_NAV_CONE_SLOPE"
	defaultPollEvery   = 1500 * time.Millisecond
	defaultSourceValue = app.SourceDemo
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("popup-nav", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	source := fs.String("source", envOrDefault(env, envSource, defaultSourceValue), "scene source: demo, file or tmux")
	tree := fs.String("tree", envOrDefault(env, envTreePath, ""), "path to a YAML menu document (implies -source file)")
	watch := fs.Bool("watch", envOrBool(env, envWatch, false), "rebuild the scene when its source changes")
	poll := fs.Duration("poll", envOrDuration(env, envPollInterval, defaultPollEvery), "tmux layout poll interval when watching")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "show every navigation event, not just focus changes")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	warnAfter := fs.Int("unresolved-warn", envOrInt(env, envUnresolvedWarn, nav.DefaultUnresolvedWarnAfter), "passes before an unresolved anchor is reported (0 disables)")
	coneSlope := fs.Float64("cone-slope", envOrFloat(env, envConeSlope, 1), "directional cone slope (1 is a 45 degree half-angle)")
	dump := fs.Bool("dump", false, "print the scene after the first pass and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	src := *source
	if *tree != "" && !flagSet(fs, "source") {
		src = app.SourceFile
	}

	cfg := Config{
		App: app.Config{
			SocketPath:          *socket,
			Source:              src,
			TreePath:            *tree,
			Watch:               *watch,
			PollInterval:        *poll,
			Width:               *width,
			Height:              *height,
			ShowFooter:          *footer,
			Verbose:             *verbose,
			UnresolvedWarnAfter: *warnAfter,
			ConeSlope:           *coneSlope,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
			Dump:    *dump,
		},
		Flags: map[string]string{
			"socket":         *socket,
			"source":         src,
			"tree":           *tree,
			"watch":          strconv.FormatBool(*watch),
			"poll":           poll.String(),
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"trace":          strconv.FormatBool(*trace),
			"verbose":        strconv.FormatBool(*verbose),
			"logFile":        *logFile,
			"unresolvedWarn": strconv.Itoa(*warnAfter),
			"coneSlope":      strconv.FormatFloat(*coneSlope, 'g', -1, 64),
			"dump":           strconv.FormatBool(*dump),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks option combinations that flag parsing cannot.
func Validate(cfg Config) error {
	var errs []error
	switch cfg.App.Source {
	case app.SourceDemo, app.SourceTmux:
	case app.SourceFile:
		if cfg.App.TreePath == "" {
			errs = append(errs, errors.New("source file needs -tree"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q (want demo, file or tmux)", cfg.App.Source))
	}
	if cfg.App.ConeSlope <= 0 {
		errs = append(errs, fmt.Errorf("cone-slope must be > 0 (got %g)", cfg.App.ConeSlope))
	}
	if cfg.App.UnresolvedWarnAfter < 0 {
		errs = append(errs, fmt.Errorf("unresolved-warn must be >= 0 (got %d)", cfg.App.UnresolvedWarnAfter))
	}
	if cfg.App.Watch && cfg.App.Source == app.SourceTmux && cfg.App.PollInterval <= 0 {
		errs = append(errs, errors.New("poll must be > 0 when watching tmux"))
	}
	return errors.Join(errs...)
}
