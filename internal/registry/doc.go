// Package registry is the glue between the build steps and the pipeline.
//
// Every step module registers its StepFunc under a fixed name during
// application startup. The registration order is the execution order, so the
// application registers compile, collect, prop and zip in that sequence. The
// pipeline later looks steps up by name to apply the operator's step filter.
package registry
