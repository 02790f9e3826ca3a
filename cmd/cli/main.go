package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/xposedbuild/internal/app"
	"github.com/vk/xposedbuild/internal/cli"
	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/hcl_adapter"
	"github.com/vk/xposedbuild/internal/ini_adapter"
)

// main is the entrypoint for the xposedbuild application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if exitErr := cli.AsExitError(err); exitErr != nil {
		fmt.Fprintln(os.Stderr, exitErr.Message)
		os.Exit(exitErr.Code)
	}
}

// newLoader picks the configuration format from the file extension.
func newLoader() config.Loader {
	return &config.ByExtension{
		Default: ini_adapter.NewLoader(),
		Loaders: map[string]config.Loader{
			".hcl": hcl_adapter.NewLoader(),
		},
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string, opts ...app.Option) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	opts = append([]app.Option{app.WithUsage(func() { cli.PrintUsage(outW) })}, opts...)
	xposedApp, err := app.NewApp(outW, logW, appConfig, newLoader(), opts...)
	if err != nil {
		return err
	}
	return xposedApp.Run(ctx)
}
