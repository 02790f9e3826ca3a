package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/xposedbuild/internal/app"
	"github.com/vk/xposedbuild/internal/pipeline"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type flags struct {
	action, actionShort   string
	targets, targetsShort string
	steps, stepsShort     string
	config, configShort   string
	logFormat, logLevel   string

	incremental, verbose, flash, release bool
}

func newFlagSet(output io.Writer) (*flag.FlagSet, *flags) {
	f := &flags{}
	flagSet := flag.NewFlagSet("xposedbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
xposedbuild - Builds and packages Xposed for multiple platforms and SDKs.

Usage:
  xposedbuild [options] [TARGETS]

Targets:
  Groups of platform:sdk lists separated by '/' or spaces. Both sides take
  comma separated values or 'all'. Platforms: arm, x86, arm64, armv5, host,
  hostd. 'all' platforms means arm, x86, arm64 and armv5; 'all+' adds host
  and hostd. Combinations produced by 'all' that cannot be built are skipped.
  Examples: arm:19  all:21,22  arm,x86:19/arm64:21

Options:
`)
		flagSet.PrintDefaults()
	}

	flagSet.StringVar(&f.action, "action", "", "Action to run: 'build', 'java' or 'prunelogs'.")
	flagSet.StringVar(&f.actionShort, "a", "", "Action to run (shorthand).")
	flagSet.StringVar(&f.targets, "targets", "", "Build targets, see above.")
	flagSet.StringVar(&f.targetsShort, "t", "", "Build targets (shorthand).")
	flagSet.StringVar(&f.steps, "steps", "", "Comma separated steps to run: compile, collect, prop, zip. Default is all.")
	flagSet.StringVar(&f.stepsShort, "s", "", "Steps to run (shorthand).")
	flagSet.StringVar(&f.config, "config", "", "Path to the build configuration file. Default is "+app.DefaultConfigPath+".")
	flagSet.StringVar(&f.configShort, "c", "", "Path to the build configuration file (shorthand).")
	flagSet.BoolVar(&f.incremental, "i", false, "Incremental build, only rebuild the Xposed makefiles.")
	flagSet.BoolVar(&f.verbose, "v", false, "Show toolchain output instead of a log tail, and debug logs.")
	flagSet.BoolVar(&f.flash, "f", false, "Flash the package to a connected device after building a single target.")
	flagSet.BoolVar(&f.release, "r", false, "Release build, GPG signatures follow the release policy.")
	flagSet.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&f.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	return flagSet, f
}

// PrintUsage writes the help text to output.
func PrintUsage(output io.Writer) {
	flagSet, _ := newFlagSet(output)
	flagSet.Usage()
}

func pick(long, short string) string {
	if long != "" {
		return long
	}
	return short
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet, f := newFlagSet(output)

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	targets := pick(f.targets, f.targetsShort)
	if flagSet.NArg() > 0 {
		targets = strings.TrimSpace(targets + " " + strings.Join(flagSet.Args(), " "))
	}
	action := strings.ToLower(pick(f.action, f.actionShort))

	if (action == "" || action == app.ActionBuild) && targets == "" {
		slog.Debug("No targets provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(f.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(f.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Action:      action,
		Targets:     targets,
		Steps:       pipeline.ParseSteps(pick(f.steps, f.stepsShort)),
		ConfigPath:  pick(f.config, f.configShort),
		Incremental: f.incremental,
		Verbose:     f.verbose,
		Flash:       f.flash,
		Release:     f.release,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
