package domain

import "time"

// Review is one user's evaluation of one content. At most one review exists
// per (AuthorID, ContentID) pair; resubmission overwrites score and comment
// in place without refreshing CreatedAt.
type Review struct {
	ID          int64
	ContentID   int64
	AuthorID    int64
	Score       int
	Comment     *string
	UsefulVotes int
	CreatedAt   time.Time

	// Joined author fields, populated by list queries.
	AuthorUsername string
	AuthorName     *string
}

// AuthorReview is a review joined with the content it evaluates, as returned
// by per-author listings.
type AuthorReview struct {
	Review
	ContentTitle     string
	ContentMediaType MediaType
	ContentPosterURL *string
	ContentYear      *int
}

// Vote records that a voter found a review useful. Presence of the row means
// "voted"; there is no weight.
type Vote struct {
	ReviewID  int64
	VoterID   int64
	CreatedAt time.Time
}
