package target

import (
	"fmt"
	"strconv"
)

// Platform identifies a target CPU architecture variant or a host pseudo-platform.
type Platform string

const (
	ARM       Platform = "arm"
	X86       Platform = "x86"
	ARM64     Platform = "arm64"
	ARMv5     Platform = "armv5"
	Host      Platform = "host"
	HostDebug Platform = "hostd"
)

// Supported SDK range. SDK 20 (the wearable-only release) is never supported.
const (
	MinSDK = 15
	MaxSDK = 23
)

// Canonical is the platform set that `all` expands to.
var Canonical = []Platform{ARM, X86, ARM64, ARMv5}

// Extended is the platform set that `all+` expands to.
var Extended = []Platform{ARM, X86, ARM64, ARMv5, Host, HostDebug}

// Known reports whether p is one of the enumerated platforms.
func (p Platform) Known() bool {
	switch p {
	case ARM, X86, ARM64, ARMv5, Host, HostDebug:
		return true
	}
	return false
}

// IsHost reports whether p only builds the toolchain on the host and
// produces no device artifacts.
func (p Platform) IsHost() bool {
	return p == Host || p == HostDebug
}

// Arch is the architecture label written into package metadata. ARMv5
// binaries run on the regular arm installer.
func (p Platform) Arch() string {
	if p == ARMv5 {
		return string(ARM)
	}
	return string(p)
}

func (p Platform) String() string {
	return string(p)
}

// Job is one validated unit of build work.
type Job struct {
	Platform Platform
	SDK      int
}

// String renders the job in target grammar form, e.g. `arm64:21`.
func (j Job) String() string {
	return fmt.Sprintf("%s:%s", j.Platform, strconv.Itoa(j.SDK))
}
