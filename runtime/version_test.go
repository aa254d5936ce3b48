package runtime

import (
	"testing"

	"github.com/wippyai/snpe-runtime/errors"
)

func TestVersion(t *testing.T) {
	rt, sdk := newTestRuntime(t)

	v, err := rt.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v.String() != "2.26.0" {
		t.Errorf("String() = %q", v.String())
	}
	if v.Build != "2.26.0.240828" {
		t.Errorf("Build = %q", v.Build)
	}
	if n := sdk.Calls("VersionDelete"); n != 1 {
		t.Errorf("VersionDelete called %d times, want 1", n)
	}
	if sdk.Live() != 0 {
		t.Errorf("version handle leaked")
	}
}

func TestVersion_Failure(t *testing.T) {
	rt, sdk := newTestRuntime(t)
	sdk.FailVersion = true

	_, err := rt.Version()
	var e *errors.Error
	if !asError(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.Phase != errors.PhaseVersion || e.Detail != "version unavailable" {
		t.Errorf("got %+v", e)
	}
	if sdk.Calls("VersionDelete") != 0 {
		t.Error("deleted a null version handle")
	}
}

func TestVersion_AtLeast(t *testing.T) {
	v := Version{Major: 2, Minor: 26, Patch: 0}

	tests := []struct {
		min  string
		want bool
	}{
		{"2.26.0", true},
		{"2.20", true},
		{"2", true},
		{"v2.25.1", true},
		{"2.26.1", false},
		{"3", false},
	}
	for _, tt := range tests {
		got, err := v.AtLeast(tt.min)
		if err != nil {
			t.Errorf("AtLeast(%q): %v", tt.min, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AtLeast(%q) = %v, want %v", tt.min, got, tt.want)
		}
	}

	if _, err := v.AtLeast("two"); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("AtLeast(two): %v", err)
	}
}

func TestVersion_Semver(t *testing.T) {
	v := Version{Major: 2, Minor: 26, Patch: 3, Build: "2.26.3.1"}
	if got := v.Semver().String(); got != "2.26.3" {
		t.Errorf("Semver() = %q", got)
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("v2.26")
	if err != nil {
		t.Fatal(err)
	}
	if v.Major != 2 || v.Minor != 26 || v.Patch != 0 {
		t.Errorf("got %+v", v)
	}

	for _, bad := range []string{"", "x.y.z", "1.2.3.4"} {
		if _, err := ParseVersion(bad); err == nil {
			t.Errorf("ParseVersion(%q) succeeded", bad)
		}
	}
}
