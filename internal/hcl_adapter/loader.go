// Package hcl_adapter loads the build configuration from HCL files.
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/ctxlog"
)

// Loader is the HCL implementation of the config.Loader interface.
//
// A section is either a top-level object attribute or a label-less block:
//
//	General {
//	  outdir = "/srv/xposed"
//	}
//	AospDir = {
//	  "19" = "/src/kitkat"
//	}
//
// The object form is needed for keys that are not HCL identifiers, such as
// SDK numbers.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", path, file.Body)
	}

	model := config.NewModel(path)

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate section %s in %s: %w", name, path, diags)
		}
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return nil, fmt.Errorf("section %s in %s must be an object, got %s", name, path, val.Type().FriendlyName())
		}
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			if err := setValue(model, name, k.AsString(), v); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	for _, block := range body.Blocks {
		if len(block.Labels) != 0 {
			return nil, fmt.Errorf("%s: section block %s must not have labels", path, block.Type)
		}
		for name, attr := range block.Body.Attributes {
			v, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate %s.%s in %s: %w", block.Type, name, path, diags)
			}
			if err := setValue(model, block.Type, name, v); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		if len(block.Body.Blocks) != 0 {
			return nil, fmt.Errorf("%s: section %s must not contain nested blocks", path, block.Type)
		}
	}

	logger.Debug("HCL loading complete.", "attributes", len(body.Attributes), "blocks", len(body.Blocks))
	return model, nil
}

// setValue stores a scalar cty value as its string form. Nulls are skipped.
func setValue(model *config.Model, section, key string, v cty.Value) error {
	if v.IsNull() {
		return nil
	}
	if !v.IsWhollyKnown() || !v.Type().IsPrimitiveType() {
		return fmt.Errorf("%s.%s must be a string, number or bool", section, key)
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", section, key, err)
	}
	model.Set(section, key, s.AsString())
	return nil
}
