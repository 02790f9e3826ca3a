package target

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidSpec is returned for a target specification that does not
	// follow the grammar.
	ErrInvalidSpec = errors.New("invalid target specification")
	// ErrNoTargets is returned when a specification resolves to no buildable job.
	ErrNoTargets = errors.New("no valid targets")
)

const (
	wildcardAll  = "all"
	wildcardAllP = "all+"
)

// Resolver expands target specifications into jobs.
type Resolver struct {
	// KnownSDKs is what the `all` SDK wildcard expands to, normally the
	// keys of the AospDir configuration section.
	KnownSDKs []int

	// OnReject is called for every explicitly requested pair that fails the
	// compatibility check. Pairs produced by a wildcard are dropped silently.
	OnReject func(err error)

	// OnAccept is called once for every job added to the result.
	OnAccept func(job Job)
}

// Resolve parses spec and returns the deduplicated jobs in encounter order.
// If nothing survives, the returned error wraps ErrNoTargets together with
// every rejection that led there.
func (r *Resolver) Resolve(spec string) ([]Job, error) {
	groups := strings.FieldsFunc(spec, func(c rune) bool {
		return c == '/' || unicode.IsSpace(c)
	})
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrNoTargets, spec)
	}

	var (
		jobs     []Job
		rejected []error
		seen     = make(map[Job]struct{})
	)
	for _, group := range groups {
		platforms, sdks, wildcard, err := r.expandGroup(group)
		if err != nil {
			return nil, err
		}
		for _, p := range platforms {
			for _, sdk := range sdks {
				job := Job{Platform: p, SDK: sdk}
				if err := Check(job); err != nil {
					if !wildcard {
						rejected = append(rejected, err)
						if r.OnReject != nil {
							r.OnReject(err)
						}
					}
					continue
				}
				if _, dup := seen[job]; dup {
					continue
				}
				seen[job] = struct{}{}
				jobs = append(jobs, job)
				if r.OnAccept != nil {
					r.OnAccept(job)
				}
			}
		}
	}

	if len(jobs) == 0 {
		return nil, errors.Join(append([]error{fmt.Errorf("%w in %q", ErrNoTargets, spec)}, rejected...)...)
	}
	return jobs, nil
}

// Resolve is a convenience wrapper around a Resolver without callbacks.
func Resolve(spec string, knownSDKs []int) ([]Job, error) {
	r := &Resolver{KnownSDKs: knownSDKs}
	return r.Resolve(spec)
}

// expandGroup splits a single `platforms:sdks` group. wildcard is true when
// either side used `all` or `all+`.
func (r *Resolver) expandGroup(group string) ([]Platform, []int, bool, error) {
	pfPart, sdkPart, ok := strings.Cut(group, ":")
	if !ok || strings.Contains(sdkPart, ":") {
		return nil, nil, false, fmt.Errorf("%w: group %q must have the form platforms:sdks", ErrInvalidSpec, group)
	}

	var (
		platforms []Platform
		sdks      []int
		wildcard  bool
	)

	switch pfPart {
	case wildcardAll:
		platforms = Canonical
		wildcard = true
	case wildcardAllP:
		platforms = Extended
		wildcard = true
	default:
		for _, tok := range splitList(pfPart) {
			platforms = append(platforms, Platform(tok))
		}
	}

	if sdkPart == wildcardAll {
		sdks = append(sdks, r.KnownSDKs...)
		wildcard = true
	} else {
		for _, tok := range splitList(sdkPart) {
			sdk, err := strconv.Atoi(tok)
			if err != nil || sdk <= 0 {
				return nil, nil, false, fmt.Errorf("%w: %q is not an SDK version", ErrInvalidSpec, tok)
			}
			sdks = append(sdks, sdk)
		}
	}

	if len(platforms) == 0 || (len(sdks) == 0 && sdkPart != wildcardAll) {
		return nil, nil, false, fmt.Errorf("%w: group %q names no platform or SDK", ErrInvalidSpec, group)
	}
	return platforms, sdks, wildcard, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})
}
