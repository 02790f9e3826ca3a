// Package layout names every path the build writes below the output directory:
//
//	<out>/sdk<N>/<platform>/files/...        staging tree
//	<out>/sdk<N>/<platform>/logs/*.log       build logs
//	<out>/sdk<N>/<platform>/<artifact>.zip   packages, plus latest.zip
//	<out>/versions/v<version>/<artifact>.zip links to the packages
//	<out>/java/XposedBridge.jar              framework jar
package layout

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/xposedbuild/internal/target"
	"github.com/vk/xposedbuild/internal/version"
)

// Layout resolves output paths below a root directory.
type Layout struct {
	OutDir string
}

// New creates a Layout rooted at outDir.
func New(outDir string) Layout {
	return Layout{OutDir: outDir}
}

// JobDir is the per-job output directory.
func (l Layout) JobDir(job target.Job) string {
	return filepath.Join(l.OutDir, fmt.Sprintf("sdk%d", job.SDK), string(job.Platform))
}

// StagingDir mirrors the device filesystem before packaging.
func (l Layout) StagingDir(job target.Job) string {
	return filepath.Join(l.JobDir(job), "files")
}

// LogDir holds the job's build logs.
func (l Layout) LogDir(job target.Job) string {
	return filepath.Join(l.JobDir(job), "logs")
}

// LogFile is the log for a compile started at t.
func (l Layout) LogFile(job target.Job, t time.Time) string {
	return filepath.Join(l.LogDir(job), "build_"+t.Format("20060102_150405")+".log")
}

// LogDirs matches the log directories of every job ever built.
func (l Layout) LogDirs() ([]string, error) {
	return filepath.Glob(filepath.Join(l.OutDir, "sdk*", "*", "logs"))
}

// Artifact is where a job's package is written.
func (l Layout) Artifact(job target.Job, v version.Version) string {
	return filepath.Join(l.JobDir(job), version.ArtifactName(v, job))
}

// LatestLink always points to the newest package of a job.
func (l Layout) LatestLink(job target.Job) string {
	return filepath.Join(l.JobDir(job), "latest.zip")
}

// VersionDir collects links to all packages of one version.
func (l Layout) VersionDir(v version.Version) string {
	return filepath.Join(l.OutDir, "versions", version.DirName(v))
}

// JavaDir holds the framework jar produced by the java action.
func (l Layout) JavaDir() string {
	return filepath.Join(l.OutDir, "java")
}

// BridgeJar is the framework jar shipped in every package.
func (l Layout) BridgeJar() string {
	return filepath.Join(l.JavaDir(), "XposedBridge.jar")
}
