package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_SetTrimsTrailingWhitespace(t *testing.T) {
	m := NewModel("")
	m.Set(SectionGeneral, "outdir", "  /tmp/out \t\r\n")

	assert.Equal(t, "  /tmp/out", m.Get(SectionGeneral, "outdir"))
}

func TestModel_Accessors(t *testing.T) {
	m := NewModel("/etc/xposed/build.conf")
	m.Set(SectionGeneral, "outdir", "out")
	m.Set(SectionGeneral, "javadir", "/abs/java")
	m.Set(SectionBuild, "makeflags", "")

	v, ok := m.Lookup(SectionBuild, "makeflags")
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.Equal(t, "-j4", m.GetDefault(SectionBuild, "makeflags", "-j4"))

	_, err := m.Require(SectionBuild, "version")
	assert.True(t, errors.Is(err, ErrMissingKey))
	assert.ErrorContains(t, err, "[Build] version")

	assert.Equal(t, filepath.Join("/etc/xposed", "out"), m.ResolvePath(SectionGeneral, "outdir"))
	assert.Equal(t, "/abs/java", m.ResolvePath(SectionGeneral, "javadir"))
	assert.Empty(t, m.ResolvePath(SectionGeneral, "missing"))
	assert.Equal(t, filepath.Join("/etc/xposed", "zipstatic"), m.ResolvePathDefault(SectionGeneral, "zipstatic", "zipstatic"))

	sec := m.Section(SectionGeneral)
	sec["outdir"] = "changed"
	assert.Equal(t, "out", m.Get(SectionGeneral, "outdir"), "Section must return a copy")
}

func TestModel_SDKs(t *testing.T) {
	m := NewModel("")
	m.Set(SectionAospDir, "23", "/src/m")
	m.Set(SectionAospDir, "19", "/src/kk")
	m.Set(SectionAospDir, "21", "/src/l")

	assert.Equal(t, []int{19, 21, 23}, m.SDKs())

	dir, err := m.AospDir(19)
	require.NoError(t, err)
	assert.Equal(t, "/src/kk", dir)

	_, err = m.AospDir(22)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestModel_Validate(t *testing.T) {
	m := NewModel("")
	assert.ErrorIs(t, m.Validate(), ErrMissingKey)

	m.Set(SectionGeneral, "outdir", "/out")
	assert.NoError(t, m.Validate())

	m.Set(SectionGPG, "sign", "sometimes")
	assert.ErrorContains(t, m.Validate(), "sign must be")
	m.Set(SectionGPG, "sign", "release")
	assert.NoError(t, m.Validate())

	m.Set(SectionAospDir, "kitkat", "/src")
	assert.ErrorContains(t, m.Validate(), "not an SDK version")
}

type stubLoader struct{ name string }

func (s stubLoader) Load(_ context.Context, path string) (*Model, error) {
	m := NewModel(path)
	m.Set("loader", "name", s.name)
	return m, nil
}

func TestByExtension(t *testing.T) {
	l := &ByExtension{
		Default: stubLoader{"ini"},
		Loaders: map[string]Loader{".hcl": stubLoader{"hcl"}},
	}
	ctx := context.Background()

	m, err := l.Load(ctx, "build.conf")
	require.NoError(t, err)
	assert.Equal(t, "ini", m.Get("loader", "name"))

	m, err = l.Load(ctx, "BUILD.HCL")
	require.NoError(t, err)
	assert.Equal(t, "hcl", m.Get("loader", "name"))
}
