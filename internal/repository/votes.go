package repository

import (
	"context"
	"fmt"
)

// VotesRepository manages usefulness-vote rows for reviews.
type VotesRepository struct {
	db Querier
}

// Insert records a vote. A concurrent duplicate surfaces as ErrConflict.
func (r *VotesRepository) Insert(ctx context.Context, reviewID, voterID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO review_votes (review_id, voter_id) VALUES ($1, $2)`,
		reviewID, voterID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Delete removes a vote and reports whether a row was actually deleted.
func (r *VotesRepository) Delete(ctx context.Context, reviewID, voterID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM review_votes WHERE review_id = $1 AND voter_id = $2`,
		reviewID, voterID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether the voter has an active vote on the review.
func (r *VotesRepository) Exists(ctx context.Context, reviewID, voterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM review_votes WHERE review_id = $1 AND voter_id = $2)`,
		reviewID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("vote exists: %w", err)
	}
	return exists, nil
}

// CountForReview returns the number of vote rows for a review. Used by tests
// to check the denormalized counter against the ground truth.
func (r *VotesRepository) CountForReview(ctx context.Context, reviewID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM review_votes WHERE review_id = $1`,
		reviewID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}
