package runtime

import (
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
)

// Version is the SDK library version.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	Build string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Semver returns v without the build string.
func (v Version) Semver() *semver.Version {
	return &semver.Version{
		Major: int64(v.Major),
		Minor: int64(v.Minor),
		Patch: int64(v.Patch),
	}
}

// AtLeast reports whether v is minimum or newer. minimum may omit
// trailing components ("2", "2.20").
func (v Version) AtLeast(minimum string) (bool, error) {
	want, err := ParseVersion(minimum)
	if err != nil {
		return false, err
	}
	return !v.Semver().LessThan(*want.Semver()), nil
}

// ParseVersion parses "major[.minor[.patch]]" with an optional "v" prefix.
// Missing components are zero.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	switch strings.Count(s, ".") {
	case 0:
		s += ".0.0"
	case 1:
		s += ".0"
	}
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errors.Wrap(errors.PhaseVersion, errors.KindInvalidInput, err, "parse version")
	}
	if sv.Major < 0 || sv.Minor < 0 || sv.Patch < 0 {
		return Version{}, errors.InvalidInput(errors.PhaseVersion, "negative version component")
	}
	return Version{
		Major: uint64(sv.Major),
		Minor: uint64(sv.Minor),
		Patch: uint64(sv.Patch),
	}, nil
}

// Version queries the loaded library's version. The transient native
// version object is released before returning.
func (r *Runtime) Version() (Version, error) {
	defer r.pin()()
	h := r.api.LibraryVersion()
	if h == native.Null {
		return Version{}, r.lastError(errors.PhaseVersion, "")
	}
	defer r.releaseVersion(h)

	return Version{
		Major: component(r.api.VersionMajor(h)),
		Minor: component(r.api.VersionMinor(h)),
		Patch: component(r.api.VersionTeeny(h)),
		Build: r.api.VersionBuild(h),
	}, nil
}

func (r *Runtime) releaseVersion(h native.Handle) {
	if code := r.api.VersionDelete(h); code != errors.CodeSuccess {
		r.log.Warn("release version",
			zap.Int32("code", int32(code)),
			zap.String("message", r.api.LastErrorString()),
		)
	}
}

func component(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
