package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrInvalidVersionTag is returned when a tag name has fewer than three digit runs.
	ErrInvalidVersionTag = errors.New("tag does not contain major, minor and patch numbers")

	digitRun = regexp.MustCompile(`[0-9]+`)
)

// InitialVersion is the version published for a repository without tags.
const InitialVersion = "v0.0.0"

// Version wraps semver.Version for additional methods.
type Version struct {
	*semver.Version
}

// NewVersion creates a Version from its three components.
func NewVersion(major, minor, patch uint64) *Version {
	return &Version{semver.New(major, minor, patch, "", "")}
}

// ParseTag extracts a Version from a tag name. The first digit run is the major
// component, the next run after it the minor and the one after that the patch.
// Anything after the patch run is ignored.
func ParseTag(tag string) (*Version, error) {
	runs := digitRun.FindAllString(tag, 3)
	if len(runs) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersionTag, tag)
	}
	parts := make([]uint64, 3)
	for i, run := range runs {
		n, err := strconv.ParseUint(run, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersionTag, tag, err)
		}
		parts[i] = n
	}
	return NewVersion(parts[0], parts[1], parts[2]), nil
}

// BumpMajor increments the major version, keeping minor and patch.
func (v *Version) BumpMajor() *Version {
	return NewVersion(v.Major()+1, v.Minor(), v.Patch())
}

// BumpMinor increments the minor version, keeping major and patch.
func (v *Version) BumpMinor() *Version {
	return NewVersion(v.Major(), v.Minor()+1, v.Patch())
}

// BumpPatch increments the patch version.
func (v *Version) BumpPatch() *Version {
	return NewVersion(v.Major(), v.Minor(), v.Patch()+1)
}

// Compare compares two versions.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}

// String returns the version string with v prefix.
func (v *Version) String() string {
	return "v" + v.Version.String()
}
