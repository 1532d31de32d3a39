package graph

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// Version represents introduced/deprecated version tag
type Version struct {
	Text    string
	version *semver.Version
}

// IsZero returns true if version was not specified
func (v Version) IsZero() bool {
	return v.Text == ""
}

// IsValid returns true if version text is a semantic version
func (v Version) IsValid() bool {
	return v.version != nil
}

// String returns version text
func (v Version) String() string {
	return v.Text
}

// Before returns true if both versions are valid and v precedes other
func (v Version) Before(other Version) bool {
	if v.version == nil || other.version == nil {
		return false
	}
	return v.version.LessThan(other.version)
}

// ParseVersion parses text; the returned version keeps the text even when it is not semantic
func ParseVersion(text string) (Version, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Version{}, nil
	}
	ret := Version{Text: text}
	parsed, err := semver.NewVersion(strings.ReplaceAll(text, "_", "."))
	if err != nil {
		return ret, errors.Wrapf(err, "invalid version %q", text)
	}
	ret.version = parsed
	return ret, nil
}
