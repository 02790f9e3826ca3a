package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Section names.
const (
	SectionGeneral = "General"
	SectionBuild   = "Build"
	SectionGPG     = "GPG"
	SectionAospDir = "AospDir"
	SectionBusyBox = "BusyBox"
)

// ErrMissingKey is returned when a required value is absent or empty.
var ErrMissingKey = errors.New("missing configuration value")

// Model is the resolved configuration: section name -> key -> value.
type Model struct {
	// Source is the file the model was loaded from, if any.
	Source string
	// Dir is the base for relative paths, normally the directory of Source.
	Dir string

	sections map[string]map[string]string
}

// NewModel creates an empty model whose relative paths resolve against the
// directory of source.
func NewModel(source string) *Model {
	dir := "."
	if source != "" {
		dir = filepath.Dir(source)
	}
	return &Model{
		Source:   source,
		Dir:      dir,
		sections: make(map[string]map[string]string),
	}
}

// Set stores a value with its trailing whitespace removed. Only loaders
// should call it.
func (m *Model) Set(section, key, value string) {
	sec, ok := m.sections[section]
	if !ok {
		sec = make(map[string]string)
		m.sections[section] = sec
	}
	sec[key] = strings.TrimRightFunc(value, isSpace)
}

// Lookup returns a value and whether it was present.
func (m *Model) Lookup(section, key string) (string, bool) {
	v, ok := m.sections[section][key]
	return v, ok
}

// Get returns a value or the empty string.
func (m *Model) Get(section, key string) string {
	return m.sections[section][key]
}

// GetDefault returns a value, or def if it is absent or empty.
func (m *Model) GetDefault(section, key, def string) string {
	if v := m.Get(section, key); v != "" {
		return v
	}
	return def
}

// Require returns a non-empty value or an error wrapping ErrMissingKey.
func (m *Model) Require(section, key string) (string, error) {
	v := m.Get(section, key)
	if v == "" {
		return "", fmt.Errorf("%w: [%s] %s", ErrMissingKey, section, key)
	}
	return v, nil
}

// ResolvePath returns a path value made absolute against Dir. Empty values
// stay empty.
func (m *Model) ResolvePath(section, key string) string {
	return m.resolve(m.Get(section, key))
}

// ResolvePathDefault is ResolvePath with a fallback value.
func (m *Model) ResolvePathDefault(section, key, def string) string {
	return m.resolve(m.GetDefault(section, key, def))
}

func (m *Model) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// Section returns a copy of all key/value pairs of a section.
func (m *Model) Section(name string) map[string]string {
	out := make(map[string]string, len(m.sections[name]))
	for k, v := range m.sections[name] {
		out[k] = v
	}
	return out
}

// SDKs returns the sorted SDK versions that have a source tree configured.
func (m *Model) SDKs() []int {
	var sdks []int
	for k := range m.sections[SectionAospDir] {
		if sdk, err := strconv.Atoi(k); err == nil {
			sdks = append(sdks, sdk)
		}
	}
	sort.Ints(sdks)
	return sdks
}

// AospDir returns the source tree configured for sdk.
func (m *Model) AospDir(sdk int) (string, error) {
	dir := m.ResolvePath(SectionAospDir, strconv.Itoa(sdk))
	if dir == "" {
		return "", fmt.Errorf("%w: no source tree for SDK %d", ErrMissingKey, sdk)
	}
	return dir, nil
}

// Validate checks the values every action depends on.
func (m *Model) Validate() error {
	if _, err := m.Require(SectionGeneral, "outdir"); err != nil {
		return err
	}
	for k := range m.sections[SectionAospDir] {
		if _, err := strconv.Atoi(k); err != nil {
			return fmt.Errorf("[%s] key %q is not an SDK version", SectionAospDir, k)
		}
	}
	switch policy := m.GetDefault(SectionGPG, "sign", "none"); policy {
	case "all", "release", "release-only", "none":
	default:
		return fmt.Errorf("[%s] sign must be all, release or none, got %q", SectionGPG, policy)
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}
