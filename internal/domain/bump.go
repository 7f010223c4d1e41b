package domain

// Bump names the version component incremented for a release.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"
	// BumpNone is used for the first tag of an unversioned repository.
	BumpNone Bump = "none"
)

// BumpForLabels picks the increment for a label set. Precedence is major, minor,
// patch. The second return value is true when no recognized label was found and
// the patch default was applied.
func BumpForLabels(labels []string) (Bump, bool) {
	has := make(map[string]bool, len(labels))
	for _, l := range labels {
		has[l] = true
	}
	switch {
	case has[string(BumpMajor)]:
		return BumpMajor, false
	case has[string(BumpMinor)]:
		return BumpMinor, false
	case has[string(BumpPatch)]:
		return BumpPatch, false
	default:
		return BumpPatch, true
	}
}

// Apply returns the version produced by applying the bump to v.
func (b Bump) Apply(v *Version) *Version {
	switch b {
	case BumpMajor:
		return v.BumpMajor()
	case BumpMinor:
		return v.BumpMinor()
	case BumpNone:
		return NewVersion(v.Major(), v.Minor(), v.Patch())
	default:
		return v.BumpPatch()
	}
}

// NextVersion applies the increment policy. A nil previous version means the
// repository has no tags yet, in which case InitialVersion is returned and the
// labels are not consulted.
func NextVersion(previous *Version, labels []string) (next *Version, bump Bump, defaulted bool) {
	if previous == nil {
		return NewVersion(0, 0, 0), BumpNone, false
	}
	bump, defaulted = BumpForLabels(labels)
	return bump.Apply(previous), bump, defaulted
}
