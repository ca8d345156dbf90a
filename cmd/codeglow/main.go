// Package main is the terminal demo for the codeglow widget.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/codeglow/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.language != "" {
		cfg.Language = opts.language
	}

	log, closeLog, err := newLogger(opts.logFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	d, err := newDemo(cfg, opts, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer d.shutdown()

	if err := d.runLoop(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	configPath string
	file       string
	language   string
	extScript  string
	logFile    string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "codeglow.toml", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "codeglow.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.file, "file", "", "File to load into the editor")
	flag.StringVar(&opts.file, "f", "", "File to load into the editor (shorthand)")
	flag.StringVar(&opts.language, "lang", "", "Declared language (overrides config and file extension)")
	flag.StringVar(&opts.extScript, "ext", "", "Lua extension script to attach to the template")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "codeglow - syntax-highlighting overlay editor demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: codeglow [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  codeglow                       Open with an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  codeglow -f main.go            Edit a Go file\n")
		fmt.Fprintf(os.Stderr, "  codeglow -ext counter.lua      Attach a Lua extension\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("codeglow %s (%s)\n", version, commit)
		os.Exit(0)
	}
	return opts
}

// newLogger builds the demo logger. Without a log file the logger is a
// no-op; the terminal itself belongs to the screen.
func newLogger(path, level string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	log := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

// languageForFile guesses the language from a file extension.
func languageForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	}
	return ""
}
