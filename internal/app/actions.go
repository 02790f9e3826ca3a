package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/fsutil"
	"github.com/vk/xposedbuild/internal/shell"
)

// BridgeAPK is the gradle output that becomes the framework jar.
const BridgeAPK = "app/build/outputs/apk/app-release-unsigned.apk"

// buildJava builds the framework jar with gradle and copies it to where the
// collect step expects it.
func (a *App) buildJava(ctx context.Context) error {
	if _, err := a.config.Require(config.SectionGeneral, "javadir"); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	javaDir := a.config.ResolvePath(config.SectionGeneral, "javadir")

	a.console.Status("Compiling Java ...")
	cmd := shell.Command{Name: "./gradlew", Args: []string{"generateLib"}, Dir: javaDir}
	if !a.appConfig.Verbose {
		cmd.Stdout = &debugWriter{ctx: ctx}
	}
	if err := a.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("java build failed: %w", err)
	}

	src := filepath.Join(javaDir, filepath.FromSlash(BridgeAPK))
	dst := a.layout.BridgeJar()
	a.console.Status("Copying %s to %s ...", BridgeAPK, dst)
	if err := copy.Copy(src, dst); err != nil {
		return fmt.Errorf("failed to copy the framework jar: %w", err)
	}
	a.console.Success("Java build was successful!")
	return nil
}

// debugWriter sends quiet subprocess output to the debug log.
type debugWriter struct{ ctx context.Context }

func (w *debugWriter) Write(p []byte) (int, error) {
	ctxlog.FromContext(w.ctx).Debug("gradle", "output", string(p))
	return len(p), nil
}

// pruneLogs keeps only the newest log of every job.
func (a *App) pruneLogs(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	dirs, err := a.layout.LogDirs()
	if err != nil {
		return err
	}

	removed := 0
	for _, dir := range dirs {
		files, err := fsutil.FilesByModTime(dir, ".log")
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", dir, err)
		}
		if len(files) <= 1 {
			continue
		}
		for _, f := range files[1:] {
			if err := os.Remove(f); err != nil {
				return fmt.Errorf("failed to remove %s: %w", f, err)
			}
			logger.Debug("Removed log.", "path", f)
			removed++
		}
	}
	a.console.Success("Removed %d old log files.", removed)
	return nil
}
