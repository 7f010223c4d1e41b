package domain

import "errors"

// ErrNoVersionTag is returned in local mode when the repository has no tag to bump from.
var ErrNoVersionTag = errors.New("no version tag found")

// Mode selects how the commit and latest tag are discovered and how the tag is published.
type Mode string

const (
	// ModeLocal works on a checked-out repository.
	ModeLocal Mode = "local"
	// ModeRemote works only through the forge API.
	ModeRemote Mode = "remote"
)

// SeedsInitialVersion reports whether a repository without tags starts at InitialVersion
// instead of failing.
func (m Mode) SeedsInitialVersion() bool {
	return m == ModeRemote
}
