// Package version derives the release descriptor from the configured version
// template and renders the metadata and file names that depend on it.
package version

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	templateRegex = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)(.*)$`)
	illegalRegex  = regexp.MustCompile(`[\s/\\|*"?<:>%()]+`)
	dashesRegex   = regexp.MustCompile(`-{2,}`)
)

// Version is a resolved release version: a numeric prefix plus a
// filesystem-safe suffix that is either empty or starts with a dash.
type Version struct {
	Num    string
	Suffix string
}

// Full returns the complete version string, e.g. `54-beta-1`.
func (v Version) Full() string {
	return v.Num + v.Suffix
}

func (v Version) String() string {
	return v.Full()
}

// Parse resolves a version template such as `54%s` or `54 beta/1`. Date
// placeholders in the part after the numeric prefix are expanded using now;
// `%s` stands for the compact date (YYYYMMDD).
func Parse(template string, now time.Time) (Version, error) {
	m := templateRegex.FindStringSubmatch(template)
	if m == nil {
		return Version{}, fmt.Errorf("version %q does not start with a number", template)
	}
	return Version{
		Num:    m[1],
		Suffix: Sanitize(expandDate(m[2], now)),
	}, nil
}

// Sanitize turns free text into a suffix that is safe inside file names.
// Runs of illegal characters become a single dash, repeated dashes collapse
// and leading or trailing dashes are dropped. A non-empty result is returned
// with a single leading dash.
func Sanitize(s string) string {
	s = illegalRegex.ReplaceAllString(s, "-")
	s = dashesRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return ""
	}
	return "-" + s
}

func expandDate(s string, now time.Time) string {
	if !strings.Contains(s, "%") {
		return s
	}
	r := strings.NewReplacer(
		"%%", "%",
		"%s", now.Format("20060102"),
		"%Y", now.Format("2006"),
		"%y", now.Format("06"),
		"%m", now.Format("01"),
		"%d", now.Format("02"),
		"%H", now.Format("15"),
		"%M", now.Format("04"),
		"%S", now.Format("05"),
	)
	return r.Replace(s)
}
