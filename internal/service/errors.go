package service

import "errors"

// Business-rule errors returned by the review and vote services. Handlers map
// these to distinct HTTP responses; storage failures propagate wrapped and
// are never folded into this set.
var (
	// ErrInvalidScore is returned when a review score is outside [1, 10].
	ErrInvalidScore = errors.New("score must be an integer between 1 and 10")

	// ErrContentNotFound is returned when the reviewed content does not exist.
	ErrContentNotFound = errors.New("content not found")

	// ErrReviewNotFound is returned when the addressed review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrForbidden is returned when the caller is neither the resource owner
	// nor an administrator.
	ErrForbidden = errors.New("forbidden")

	// ErrSelfVote is returned when a review's author tries to vote on their
	// own review. Kept distinct from ErrForbidden so callers can render a
	// specific message.
	ErrSelfVote = errors.New("cannot vote on your own review")
)
