package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextVersion(t *testing.T) {
	previous := NewVersion(1, 4, 9)
	cases := []struct {
		name          string
		labels        []string
		want          string
		wantBump      Bump
		wantDefaulted bool
	}{
		{name: "major", labels: []string{"major"}, want: "v2.4.9", wantBump: BumpMajor},
		{name: "minor", labels: []string{"minor"}, want: "v1.5.9", wantBump: BumpMinor},
		{name: "patch", labels: []string{"patch"}, want: "v1.4.10", wantBump: BumpPatch},
		{name: "no labels", labels: nil, want: "v1.4.10", wantBump: BumpPatch, wantDefaulted: true},
		{name: "unrelated labels", labels: []string{"bug", "docs"}, want: "v1.4.10", wantBump: BumpPatch, wantDefaulted: true},
		{name: "major wins over patch", labels: []string{"patch", "major"}, want: "v2.4.9", wantBump: BumpMajor},
		{name: "minor wins over patch", labels: []string{"minor", "patch"}, want: "v1.5.9", wantBump: BumpMinor},
		{name: "labels are case sensitive", labels: []string{"Major"}, want: "v1.4.10", wantBump: BumpPatch, wantDefaulted: true},
	}
	for _, tc := range cases {
		t.Run("Should apply "+tc.name, func(t *testing.T) {
			next, bump, defaulted := NextVersion(previous, tc.labels)
			assert.Equal(t, tc.want, next.String())
			assert.Equal(t, tc.wantBump, bump)
			assert.Equal(t, tc.wantDefaulted, defaulted)
		})
	}
	t.Run("Should be deterministic for the same input", func(t *testing.T) {
		first, _, _ := NextVersion(previous, []string{"minor"})
		second, _, _ := NextVersion(previous, []string{"minor"})
		assert.Equal(t, first.String(), second.String())
		assert.Equal(t, "v1.4.9", previous.String())
	})
	t.Run("Should return initial version when there is no previous tag", func(t *testing.T) {
		next, bump, defaulted := NextVersion(nil, []string{"major", "minor"})
		assert.Equal(t, InitialVersion, next.String())
		assert.Equal(t, BumpNone, bump)
		assert.False(t, defaulted)
	})
}

func TestClassifyChangeRequests(t *testing.T) {
	t.Run("Should classify empty result as none", func(t *testing.T) {
		match := ClassifyChangeRequests(nil)
		assert.Equal(t, MatchNone, match.Kind)
		assert.Nil(t, match.ChangeRequest)
		assert.Nil(t, match.Labels())
	})
	t.Run("Should return the single match", func(t *testing.T) {
		match := ClassifyChangeRequests([]ChangeRequest{{Number: 7, Title: "Add x", Labels: []string{"minor"}}})
		assert.Equal(t, MatchOne, match.Kind)
		assert.Equal(t, 7, match.ChangeRequest.Number)
		assert.Equal(t, "Add x", match.ChangeRequest.Title)
		assert.Equal(t, []string{"minor"}, match.Labels())
	})
	t.Run("Should classify several matches as many", func(t *testing.T) {
		match := ClassifyChangeRequests([]ChangeRequest{{Number: 1}, {Number: 2}, {Number: 3}})
		assert.Equal(t, MatchMany, match.Kind)
		assert.Equal(t, 3, match.Count)
		assert.Nil(t, match.ChangeRequest)
		assert.Equal(t, "many", match.Kind.String())
	})
}

func TestTagMessage(t *testing.T) {
	assert.Equal(t, "fix typo: auto-generated tag", TagMessage("fix typo"))
}
