// Package domain contains the core domain model for package resolution and
// synchronization: versions, ranges, repository snapshots, the project
// manifest and lockfile, and resolution plans.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Version is a parsed semantic version. Ordering follows semver precedence:
// numeric fields compare numerically, a prerelease sorts below the release
// with the same numeric triple, and build metadata is ignored.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a strict semantic version string.
func ParseVersion(text string) (Version, error) {
	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return Version{}, zerr.With(ErrVersionParse, "version", text)
	}
	return Version{v: v}, nil
}

// MustVersion parses a version string and panics on failure. Test helper.
func MustVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether the version is the uninitialized zero value.
func (v Version) IsZero() bool {
	return v.v == nil
}

// Compare returns -1, 0 or 1. Build metadata does not participate.
func (v Version) Compare(o Version) int {
	return v.v.Compare(o.v)
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Equal reports ordering equality: versions differing only in build metadata
// are equal here.
func (v Version) Equal(o Version) bool {
	if v.IsZero() || o.IsZero() {
		return v.IsZero() == o.IsZero()
	}
	return v.Compare(o) == 0
}

// ExactEqual reports identity including build metadata. The lockfile uses
// this; two builds of the same numeric triple are distinct installs.
func (v Version) ExactEqual(o Version) bool {
	return v.Equal(o) && v.String() == o.String()
}

// IsPrerelease reports whether the version carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return v.v != nil && v.v.Prerelease() != ""
}

// String returns the version exactly as it was parsed.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Range is a conjunction of comparator clauses, e.g. ">=1.2.0,<2.0.0" or
// "^1.0.0". A version satisfies the range iff it satisfies every clause.
// Prerelease versions only match ranges that themselves mention a prerelease.
type Range struct {
	c    *semver.Constraints
	text string
}

// ParseRange parses a range expression.
func ParseRange(text string) (Range, error) {
	c, err := semver.NewConstraint(text)
	if err != nil {
		return Range{}, zerr.With(ErrRangeParse, "range", text)
	}
	return Range{c: c, text: text}, nil
}

// MustRange parses a range expression and panics on failure. Test helper.
func MustRange(text string) Range {
	r, err := ParseRange(text)
	if err != nil {
		panic(err)
	}
	return r
}

// IsZero reports whether the range is the uninitialized zero value.
func (r Range) IsZero() bool {
	return r.c == nil
}

// SatisfiedBy reports whether v satisfies every clause of the range.
func (r Range) SatisfiedBy(v Version) bool {
	if r.c == nil || v.IsZero() {
		return false
	}
	return r.c.Check(v.v)
}

// String returns the range exactly as it was written. Manifests round-trip
// through this.
func (r Range) String() string {
	return r.text
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// releaseTypeRank orders engine release streams: alpha < beta < final < china
// patch stream. Unknown types rank below alpha.
func releaseTypeRank(t byte) int {
	switch t {
	case 'a':
		return 1
	case 'b':
		return 2
	case 'f':
		return 3
	case 'c':
		return 4
	default:
		return 0
	}
}

// EngineVersion is a host-engine version of the form "2022.3.22f1":
// major.minor.patch plus a release-type letter and increment. The short form
// "2022.3" is accepted with patch and release fields zeroed.
type EngineVersion struct {
	Major       int
	Minor       int
	Patch       int
	ReleaseType byte
	Increment   int
}

// ParseEngineVersion parses an engine version string.
func ParseEngineVersion(text string) (EngineVersion, error) {
	fail := func() (EngineVersion, error) {
		return EngineVersion{}, zerr.With(ErrEngineVersionParse, "version", text)
	}

	parts := strings.SplitN(strings.TrimSpace(text), ".", 3)
	if len(parts) < 2 {
		return fail()
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return fail()
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return fail()
	}

	ev := EngineVersion{Major: major, Minor: minor}
	if len(parts) == 2 {
		return ev, nil
	}

	// Tail is "<patch><type><increment>", e.g. "22f1". The type letter and
	// increment are optional in some truncated forms.
	tail := parts[2]
	i := 0
	for i < len(tail) && tail[i] >= '0' && tail[i] <= '9' {
		i++
	}
	if i == 0 {
		return fail()
	}
	ev.Patch, _ = strconv.Atoi(tail[:i])
	if i == len(tail) {
		return ev, nil
	}

	ev.ReleaseType = tail[i]
	inc := tail[i+1:]
	if inc != "" {
		n, err := strconv.Atoi(inc)
		if err != nil {
			return fail()
		}
		ev.Increment = n
	}
	return ev, nil
}

// IsZero reports whether the engine version is unset.
func (e EngineVersion) IsZero() bool {
	return e == EngineVersion{}
}

// Compare orders engine versions by numeric fields, then release stream,
// then increment.
func (e EngineVersion) Compare(o EngineVersion) int {
	ea := [3]int{e.Major, e.Minor, e.Patch}
	oa := [3]int{o.Major, o.Minor, o.Patch}
	for i := range ea {
		if ea[i] != oa[i] {
			if ea[i] < oa[i] {
				return -1
			}
			return 1
		}
	}
	if ra, ro := releaseTypeRank(e.ReleaseType), releaseTypeRank(o.ReleaseType); ra != ro {
		if ra < ro {
			return -1
		}
		return 1
	}
	if e.Increment != o.Increment {
		if e.Increment < o.Increment {
			return -1
		}
		return 1
	}
	return 0
}

// String reassembles the version in the form it was parsed from.
func (e EngineVersion) String() string {
	if e.ReleaseType == 0 {
		if e.Patch == 0 {
			return fmt.Sprintf("%d.%d", e.Major, e.Minor)
		}
		return fmt.Sprintf("%d.%d.%d", e.Major, e.Minor, e.Patch)
	}
	return fmt.Sprintf("%d.%d.%d%c%d", e.Major, e.Minor, e.Patch, e.ReleaseType, e.Increment)
}

// MarshalText implements encoding.TextMarshaler.
func (e EngineVersion) MarshalText() ([]byte, error) {
	if e.IsZero() {
		return nil, nil
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EngineVersion) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = EngineVersion{}
		return nil
	}
	parsed, err := ParseEngineVersion(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// EngineRange is a package's declared engine compatibility: a minimum
// "major.minor" engine version, as published in repository indices. The zero
// value allows every engine.
type EngineRange struct {
	Major int
	Minor int
	set   bool
}

// ParseEngineRange parses a "major.minor" minimum engine declaration. The
// empty string yields the allow-everything range.
func ParseEngineRange(text string) (EngineRange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return EngineRange{}, nil
	}
	ev, err := ParseEngineVersion(text)
	if err != nil {
		return EngineRange{}, err
	}
	return EngineRange{Major: ev.Major, Minor: ev.Minor, set: true}, nil
}

// IsAny reports whether the range allows every engine version.
func (r EngineRange) IsAny() bool {
	return !r.set
}

// Allows reports whether the engine version meets the declared minimum. An
// unknown project engine (zero value) is allowed through; the project simply
// has not declared one.
func (r EngineRange) Allows(e EngineVersion) bool {
	if !r.set || e.IsZero() {
		return true
	}
	if e.Major != r.Major {
		return e.Major > r.Major
	}
	return e.Minor >= r.Minor
}

// String returns the "major.minor" form, or the empty string for the
// allow-everything range.
func (r EngineRange) String() string {
	if !r.set {
		return ""
	}
	return fmt.Sprintf("%d.%d", r.Major, r.Minor)
}

// MarshalText implements encoding.TextMarshaler.
func (r EngineRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *EngineRange) UnmarshalText(text []byte) error {
	parsed, err := ParseEngineRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
