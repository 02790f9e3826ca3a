// Package compile builds the Xposed binaries inside an AOSP source tree.
package compile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/console"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/logtail"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/shell"
	"github.com/vk/xposedbuild/internal/target"
)

// FailureContextLines is how much of the log is shown when a silent build fails.
const FailureContextLines = 10

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the compile step with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStep(&registry.RegisteredStep{
		Name:        "compile",
		Description: "Run the toolchain for the job's source tree.",
		Fn:          Compile,
	})
}

// Script composes the bash script that sets up the build environment and
// runs make for job in root.
func Script(root string, job target.Job, makeFlags string, incremental bool) (string, error) {
	mode, err := target.LunchMode(job)
	if err != nil {
		return "", err
	}
	params := target.BuildFlags(makeFlags, job)

	var build string
	if incremental {
		makefiles := strings.Join(target.Makefiles(job), " ")
		args := append([]string{"make", "-C", root, "-f", "build/core/main.mk"}, params...)
		args = append(args, "all_modules")
		build = "ONE_SHOT_MAKEFILE=" + shell.Quote(makefiles) + " " + shell.Join(args...)
	} else {
		args := append([]string{"make"}, params...)
		args = append(args, target.MakeTargets(job)...)
		build = shell.Join(args...)
	}

	return strings.Join([]string{
		shell.Join("cd", root),
		". build/envsetup.sh >/dev/null",
		shell.Join("lunch", mode) + " >/dev/null",
		build,
	}, " && "), nil
}

// Compile runs the toolchain for one job. In silent mode the output goes to
// a log file whose newest line is shown while the build runs.
func Compile(ctx context.Context, deps *registry.Deps, job target.Job) error {
	logger := ctxlog.FromContext(ctx)

	root, err := deps.Config.AospDir(job.SDK)
	if err != nil {
		return err
	}
	script, err := Script(root, job, deps.Config.Get(config.SectionBuild, "makeflags"), deps.Options.Incremental)
	if err != nil {
		return err
	}
	cmd := shell.Script(script)
	logger.Debug("Compile command composed.", "script", script)

	if deps.Options.Incremental {
		deps.Console.Status("Compiling (incremental) ...")
	} else {
		deps.Console.Status("Compiling ...")
	}

	if !deps.Options.Silent {
		cmd.Stdout = deps.Console
		cmd.Stderr = deps.Console
		if err := deps.Runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("compile failed: %w", err)
		}
		return nil
	}
	return compileSilently(ctx, deps, job, cmd)
}

func compileSilently(ctx context.Context, deps *registry.Deps, job target.Job, cmd shell.Command) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(deps.Layout.LogDir(job), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logPath := deps.Layout.LogFile(job, deps.Clock())
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()
	deps.Console.Detail("Log: %s", logPath)

	cmd.Stdout = logFile
	cmd.Stderr = logFile

	monCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	var g errgroup.Group
	g.Go(func() error {
		return logtail.New(logPath, deps.Console).Run(monCtx)
	})

	runErr := deps.Runner.Run(ctx, cmd)
	stopMonitor()
	if err := g.Wait(); err != nil {
		logger.Warn("Log monitor failed.", "error", err)
	}

	if runErr == nil {
		return nil
	}
	showTail(deps.Console, logPath)
	return fmt.Errorf("compile failed, see %s: %w", logPath, runErr)
}

func showTail(out *console.Printer, logPath string) {
	lines, err := logtail.LastLines(logPath, FailureContextLines)
	if err != nil {
		out.Error("Could not read %s: %v", logPath, err)
		return
	}
	out.Error("Compilation failed, last lines of the log:")
	for _, l := range lines {
		out.Detail("%s", l)
	}
}
