package app

import (
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/modules/collect"
	"github.com/vk/xposedbuild/modules/compile"
	"github.com/vk/xposedbuild/modules/prop"
	"github.com/vk/xposedbuild/modules/zip"
)

// coreModules is the definitive list of build steps compiled into the
// binary. The order of this list is the order the steps run in.
var coreModules = []registry.Module{
	&compile.Module{},
	&collect.Module{},
	&prop.Module{},
	&zip.Module{},
}
