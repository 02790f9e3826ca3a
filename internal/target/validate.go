package target

import "fmt"

// IncompatibleError describes why a (platform, sdk) pair cannot be built.
type IncompatibleError struct {
	Job    Job
	Reason string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("cannot build %s: %s", e.Job, e.Reason)
}

// Check is the platform/SDK compatibility matrix. It returns nil when the
// pair can be built and an *IncompatibleError otherwise. The first matching
// rule wins.
func Check(job Job) error {
	p, sdk := job.Platform, job.SDK
	switch {
	case sdk < MinSDK || sdk == 20 || sdk > MaxSDK:
		return &IncompatibleError{Job: job, Reason: fmt.Sprintf("unsupported SDK version %d", sdk)}
	case p == ARMv5 && sdk > 17:
		return &IncompatibleError{Job: job, Reason: "ARMv5 is only supported through SDK 17"}
	case p == ARM64 && sdk < 21:
		return &IncompatibleError{Job: job, Reason: "arm64 is not supported before SDK 21"}
	case p.IsHost() && sdk < 21:
		return &IncompatibleError{Job: job, Reason: "host builds are not supported before SDK 21"}
	case !p.Known():
		return &IncompatibleError{Job: job, Reason: fmt.Sprintf("unsupported target platform %q", string(p))}
	}
	return nil
}

// IsValid reports whether the job can be built.
func IsValid(job Job) bool {
	return Check(job) == nil
}
