// Package flash installs a freshly built package on a connected device.
package flash

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/shell"
	"github.com/vk/xposedbuild/internal/target"
)

// Device paths used during flashing.
const (
	RemoteZip    = "/data/local/tmp/xposed.zip"
	RemoteDir    = "/data/local/tmp/"
	RemoteScript = "/data/local/tmp/flash-script.sh"
)

// ScriptPath is the installer script inside the static assets.
const ScriptPath = "_all/META-INF/com/google/android/flash-script.sh"

// Commands returns the adb invocations that install zip with the script at
// script and restart the Android runtime.
func Commands(zip, script string) []shell.Command {
	return []shell.Command{
		{Name: "adb", Args: []string{"push", zip, RemoteZip}},
		{Name: "adb", Args: []string{"push", script, RemoteDir}},
		{Name: "adb", Args: []string{"shell", "su", "-c", "NO_UIPRINT=1 sh " + RemoteScript + " " + RemoteZip}},
		{Name: "adb", Args: []string{"shell", "su", "-c", "stop; sleep 2; start"}},
	}
}

// Flash pushes the package of job to the device and runs the installer.
// It stops at the first failing command.
func Flash(ctx context.Context, deps *registry.Deps, job target.Job) error {
	logger := ctxlog.FromContext(ctx)
	if job.Platform.IsHost() {
		return fmt.Errorf("cannot flash %s, host builds produce no package", job)
	}

	zip := deps.Layout.Artifact(job, deps.Version)
	staticRoot := deps.Config.ResolvePathDefault(config.SectionGeneral, "zipstatic", "zipstatic")
	script := filepath.Join(staticRoot, filepath.FromSlash(ScriptPath))

	deps.Console.Status("Flashing %s to the device ...", filepath.Base(zip))
	for _, cmd := range Commands(zip, script) {
		logger.Debug("Running adb.", "args", cmd.Args)
		if err := deps.Runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("flashing failed: %w", err)
		}
	}
	deps.Console.Success("Flashing was successful!")
	return nil
}
