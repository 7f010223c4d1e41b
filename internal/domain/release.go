package domain

import "fmt"

// Release holds all metadata related to a tag about to be published.

type Release struct {
	Version         *Version
	PreviousVersion *Version
	Bump            Bump
	TagName         string
	Message         string
	Commit          string
	Title           string
	ChangeRequest   *ChangeRequest
}

// TagMessage renders the annotation attached to an auto-generated tag.
func TagMessage(title string) string {
	return fmt.Sprintf("%s: auto-generated tag", title)
}
