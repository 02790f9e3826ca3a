package version

import (
	"fmt"
	"io"

	"github.com/vk/xposedbuild/internal/target"
)

// PropFile is where the metadata lives inside the package.
const PropFile = "system/xposed.prop"

// Releases in this band share the same Dalvik ABI, so one package serves all of them.
const (
	sharedRangeMin = 15
	sharedRangeMax = 19
)

// Prop is the key-value descriptor shipped in every package.
type Prop struct {
	Version string
	Arch    string
	MinSDK  int
	MaxSDK  int
}

// NewProp builds the descriptor for a job.
func NewProp(v Version, job target.Job) Prop {
	lo, hi := SDKRange(job.SDK)
	return Prop{
		Version: v.Full(),
		Arch:    job.Platform.Arch(),
		MinSDK:  lo,
		MaxSDK:  hi,
	}
}

// SDKRange returns the SDK versions a package built for sdk can be installed on.
func SDKRange(sdk int) (minSDK, maxSDK int) {
	if sdk >= sharedRangeMin && sdk <= sharedRangeMax {
		return sharedRangeMin, sharedRangeMax
	}
	return sdk, sdk
}

// WriteTo renders the descriptor in key=value form.
func (p Prop) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "version=%s\narch=%s\nminsdk=%d\nmaxsdk=%d\n", p.Version, p.Arch, p.MinSDK, p.MaxSDK)
	return int64(n), err
}

// ArtifactName is the deterministic package file name for a job.
func ArtifactName(v Version, job target.Job) string {
	return fmt.Sprintf("xposed-v%s-sdk%d-%s%s.zip", v.Num, job.SDK, job.Platform, v.Suffix)
}

// DirName is the per-version collection directory name, e.g. `v54-beta-1`.
func DirName(v Version) string {
	return "v" + v.Full()
}
