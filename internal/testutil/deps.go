package testutil

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/console"
	"github.com/vk/xposedbuild/internal/layout"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/version"
)

// FixedNow is the clock every Fixture reports.
var FixedNow = time.Date(2024, 3, 9, 14, 30, 8, 0, time.UTC)

// Fixture bundles step dependencies rooted in a temp directory.
type Fixture struct {
	Root    string
	Deps    *registry.Deps
	Runner  *FakeRunner
	Console *SafeBuffer
}

// NewFixture creates a configuration with source trees for SDK 19 and 21 at
// <root>/aosp/<sdk>, an output dir at <root>/out and static zip assets at
// <root>/zipstatic. Commands go to a FakeRunner and console lines to a buffer.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	root := t.TempDir()

	model := config.NewModel(filepath.Join(root, "build.conf"))
	model.Set(config.SectionGeneral, "outdir", "out")
	model.Set(config.SectionGeneral, "zipstatic", "zipstatic")
	model.Set(config.SectionBuild, "version", "89-test")
	for _, sdk := range []int{19, 21} {
		model.Set(config.SectionAospDir, strconv.Itoa(sdk), filepath.Join("aosp", strconv.Itoa(sdk)))
	}

	f := &Fixture{
		Root:    root,
		Runner:  &FakeRunner{},
		Console: &SafeBuffer{},
	}
	f.Deps = &registry.Deps{
		Config:  model,
		Layout:  layout.New(filepath.Join(root, "out")),
		Version: version.Version{Num: "89", Suffix: "-test"},
		Runner:  f.Runner,
		Console: console.New(f.Console),
		Now:     func() time.Time { return FixedNow },
	}
	return f
}

// Path joins elements onto the fixture root.
func (f *Fixture) Path(elem ...string) string {
	return filepath.Join(append([]string{f.Root}, elem...)...)
}
