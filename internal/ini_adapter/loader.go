// Package ini_adapter loads the build configuration from INI files.
package ini_adapter

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
)

// Loader is the INI implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new INI configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("INI loader started.", "path", path)

	f, err := ini.LoadSources(ini.LoadOptions{
		// Source tree paths may legitimately contain ';' or '#'.
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	model := config.NewModel(path)
	keys := 0
	for _, sec := range f.Sections() {
		for _, k := range sec.Keys() {
			model.Set(sec.Name(), k.Name(), k.Value())
			keys++
		}
	}

	logger.Debug("INI loading complete.", "sections", len(f.Sections()), "keys", keys)
	return model, nil
}
