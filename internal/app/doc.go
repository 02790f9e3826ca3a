// Package app contains the core application logic. It owns the loaded build
// configuration, the step registry and the operator console, and dispatches
// the build, java and prunelogs actions. It is decoupled from the CLI, which
// only translates flags into a Config.
package app
