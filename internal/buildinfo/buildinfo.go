// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package buildinfo normalizes the version stamped into the binary at link time.
package buildinfo

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Info describes the running build.
type Info struct {
	Version *semver.Version
	Commit  string
	Date    string
}

// invalidPrerelease matches characters not allowed in a semver pre-release.
var invalidPrerelease = regexp.MustCompile(`[^0-9A-Za-z.-]+`)

// New parses raw as a semantic version. A raw value that is not semver
// (such as the "dev" default of unstamped builds) becomes 0.0.0-<raw>.
func New(raw, commit, date string) Info {
	return Info{
		Version: ParseVersion(raw),
		Commit:  commit,
		Date:    date,
	}
}

// ParseVersion parses raw, falling back to a 0.0.0 pre-release.
func ParseVersion(raw string) *semver.Version {
	if v, err := semver.NewVersion(raw); err == nil {
		return v
	}
	pre := invalidPrerelease.ReplaceAllString(raw, "-")
	if pre == "" {
		return semver.New(0, 0, 0, "", "")
	}
	v, err := semver.NewVersion("0.0.0-" + pre)
	if err != nil {
		return semver.New(0, 0, 0, "", "")
	}
	return v
}

// Short returns the version as "vX.Y.Z[-pre]".
func (i Info) Short() string {
	return "v" + i.Version.String()
}

// String returns the version with commit and build date.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Short(), i.Commit, i.Date)
}

// Satisfies reports whether the build version meets constraint, e.g. ">= 1.2".
func (i Info) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c.Check(i.Version), nil
}
