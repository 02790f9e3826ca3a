// Package config defines the format-agnostic configuration model shared by
// every component, and the Loader interface implemented by the file-format
// adapters. A Model is built once per process and then only read.
package config
