package domain

import "errors"

var (
	// ErrAmbiguousChangeRequest is returned when more than one change request matches a commit.
	ErrAmbiguousChangeRequest = errors.New("multiple change requests found for commit")
	// ErrAmbiguousCommit is returned when a commit search does not yield exactly one commit.
	ErrAmbiguousCommit = errors.New("expected exactly one commit for hash")
)

// ChangeRequest is a pull or merge request as returned by a forge search.
type ChangeRequest struct {
	Number int
	Title  string
	Labels []string
}

// MatchKind classifies the result of a change request search.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchOne
	MatchMany
)

func (k MatchKind) String() string {
	switch k {
	case MatchNone:
		return "none"
	case MatchOne:
		return "one"
	case MatchMany:
		return "many"
	default:
		return "unknown"
	}
}

// ChangeRequestMatch is the outcome of looking up the change request for a commit.
// ChangeRequest is set only for MatchOne.
type ChangeRequestMatch struct {
	Kind          MatchKind
	ChangeRequest *ChangeRequest
	Count         int
}

// ClassifyChangeRequests turns search results into a ChangeRequestMatch.
func ClassifyChangeRequests(found []ChangeRequest) ChangeRequestMatch {
	switch len(found) {
	case 0:
		return ChangeRequestMatch{Kind: MatchNone}
	case 1:
		cr := found[0]
		return ChangeRequestMatch{Kind: MatchOne, ChangeRequest: &cr, Count: 1}
	default:
		return ChangeRequestMatch{Kind: MatchMany, Count: len(found)}
	}
}

// Labels returns the labels of the matched change request, if any.
func (m ChangeRequestMatch) Labels() []string {
	if m.ChangeRequest == nil {
		return nil
	}
	return m.ChangeRequest.Labels
}
