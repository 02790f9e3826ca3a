package config

import (
	"context"
	"path/filepath"
	"strings"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}

// ByExtension dispatches to a Loader based on the file extension of the
// configuration path. Extensions are matched case-insensitively and include
// the leading dot.
type ByExtension struct {
	Default Loader
	Loaders map[string]Loader
}

// Load implements the Loader interface.
func (b *ByExtension) Load(ctx context.Context, path string) (*Model, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := b.Loaders[ext]; ok {
		return l.Load(ctx, path)
	}
	return b.Default.Load(ctx, path)
}
