package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cinelog/cinelog/internal/repository"
	"github.com/cinelog/cinelog/internal/store"
)

// VoteService toggles usefulness votes on reviews while keeping the
// denormalized useful_votes counter exact.
type VoteService struct {
	store  *store.Store
	repo   *repository.Repository
	logger *log.Logger
}

// NewVoteService constructs the service.
func NewVoteService(st *store.Store, repo *repository.Repository, logger *log.Logger) *VoteService {
	if logger == nil {
		logger = log.Default()
	}
	return &VoteService{store: st, repo: repo, logger: logger}
}

// ToggleResult reports the state after a toggle call, so callers can update
// a display without re-fetching the review.
type ToggleResult struct {
	Voted       bool
	UsefulVotes int
}

// Toggle flips the voter's usefulness vote on a review: absent becomes
// present (counter +1), present becomes absent (counter -1). The review row
// is locked first, which both validates existence and serializes concurrent
// toggles from the same voter, so exactly one branch runs per call. Authors
// cannot vote on their own reviews; that check precedes the vote lookup.
func (s *VoteService) Toggle(ctx context.Context, reviewID, voterID int64) (ToggleResult, error) {
	var result ToggleResult
	err := withTx(ctx, s.store, s.repo, func(txRepo *repository.Repository) error {
		review, err := txRepo.Reviews.GetForUpdate(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if review.AuthorID == voterID {
			return ErrSelfVote
		}

		removed, err := txRepo.Votes.Delete(ctx, reviewID, voterID)
		if err != nil {
			return fmt.Errorf("remove vote: %w", err)
		}

		delta := 1
		voted := true
		if removed {
			delta = -1
			voted = false
		} else {
			if err := txRepo.Votes.Insert(ctx, reviewID, voterID); err != nil {
				return fmt.Errorf("insert vote: %w", err)
			}
		}

		votes, err := txRepo.Reviews.AdjustUsefulVotes(ctx, reviewID, delta)
		if err != nil {
			return fmt.Errorf("adjust vote counter: %w", err)
		}

		result = ToggleResult{Voted: voted, UsefulVotes: votes}
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// HasVoted reports whether the voter currently has a vote on the review.
// Pure read, no side effects.
func (s *VoteService) HasVoted(ctx context.Context, reviewID, voterID int64) (bool, error) {
	if _, err := s.repo.Reviews.Get(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrReviewNotFound
		}
		return false, err
	}
	return s.repo.Votes.Exists(ctx, reviewID, voterID)
}
