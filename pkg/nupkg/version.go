// SPDX-License-Identifier: MPL-2.0

package nupkg

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid package version")

type (
	// Version is a validated semantic version without the "v" prefix
	// (e.g., "1.2.3", "2.0.0-rc.1+build.5").
	Version struct {
		raw string
	}

	// InvalidVersionError is returned when a version string is not a strict
	// MAJOR.MINOR.PATCH semantic version.
	InvalidVersionError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid semantic version %q", e.Value)
}

// Unwrap returns ErrInvalidVersion so callers can use errors.Is.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// ParseVersion validates s as a semantic version. Shorthands such as "1.2",
// a leading "v" and four-part versions are rejected; nothing is coerced.
func ParseVersion(s string) (Version, error) {
	if s == "" || strings.HasPrefix(s, "v") {
		return Version{}, &InvalidVersionError{Value: s}
	}

	v := "v" + s
	if !semver.IsValid(v) {
		return Version{}, &InvalidVersionError{Value: s}
	}

	// semver accepts "v1" and "v1.2" as shorthands; Canonical expands them,
	// so a strict version is one Canonical leaves unchanged apart from the
	// build suffix it drops.
	core := v
	if i := strings.IndexByte(core, '+'); i >= 0 {
		core = core[:i]
	}
	if semver.Canonical(v) != core {
		return Version{}, &InvalidVersionError{Value: s}
	}

	return Version{raw: s}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as written, without a "v" prefix.
func (v Version) String() string { return v.raw }

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool { return v.raw == "" }

// Prerelease returns the prerelease suffix including the leading hyphen, or "".
func (v Version) Prerelease() string {
	return semver.Prerelease("v" + v.raw)
}

// Compare returns -1, 0 or +1 as v is lower, equal or higher than o.
func (v Version) Compare(o Version) int {
	return semver.Compare("v"+v.raw, "v"+o.raw)
}
