package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cinelog/cinelog/internal/domain"
	"github.com/cinelog/cinelog/internal/repository"
	"github.com/cinelog/cinelog/internal/store"
)

// ReviewService enforces the one-review-per-author-per-content rule and keeps
// the content's derived rating consistent with the review set. Every mutation
// and its rating recomputation commit as one transaction.
type ReviewService struct {
	store  *store.Store
	repo   *repository.Repository
	logger *log.Logger
}

// NewReviewService constructs the service.
func NewReviewService(st *store.Store, repo *repository.Repository, logger *log.Logger) *ReviewService {
	if logger == nil {
		logger = log.Default()
	}
	return &ReviewService{store: st, repo: repo, logger: logger}
}

// SubmitResult reports the outcome of a review submission. Created is false
// when an existing review was overwritten.
type SubmitResult struct {
	Review  domain.Review
	Created bool
}

// Submit creates the caller's review for a content, or overwrites the score
// and comment of their existing one. The content's user rating is recomputed
// before the transaction commits. The upsert rides on the unique
// (content_id, author_id) constraint, so two concurrent submissions cannot
// produce duplicate rows; the loser becomes an update.
func (s *ReviewService) Submit(ctx context.Context, contentID, authorID int64, score int, comment *string) (SubmitResult, error) {
	if score < 1 || score > 10 {
		return SubmitResult{}, ErrInvalidScore
	}

	var result SubmitResult
	err := withTx(ctx, s.store, s.repo, func(txRepo *repository.Repository) error {
		exists, err := txRepo.Contents.Exists(ctx, contentID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrContentNotFound
		}

		review, created, err := txRepo.Reviews.Upsert(ctx, repository.ReviewUpsertParams{
			ContentID: contentID,
			AuthorID:  authorID,
			Score:     score,
			Comment:   comment,
		})
		if err != nil {
			return fmt.Errorf("upsert review: %w", err)
		}

		if err := txRepo.Reviews.RecomputeContentRating(ctx, contentID); err != nil {
			return err
		}

		result = SubmitResult{Review: review, Created: created}
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	return result, nil
}

// Delete removes a review. Only its author or an administrator may delete
// it. The content's rating is recomputed in the same transaction.
func (s *ReviewService) Delete(ctx context.Context, reviewID int64, caller Caller) error {
	return withTx(ctx, s.store, s.repo, func(txRepo *repository.Repository) error {
		review, err := txRepo.Reviews.GetForUpdate(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if review.AuthorID != caller.UserID && !caller.IsAdmin {
			return ErrForbidden
		}
		if err := txRepo.Reviews.Delete(ctx, reviewID); err != nil {
			return err
		}
		return txRepo.Reviews.RecomputeContentRating(ctx, review.ContentID)
	})
}

// Moderate overwrites a review's score and comment on behalf of an
// administrator and recomputes the content rating. The review's creation
// date is not refreshed.
func (s *ReviewService) Moderate(ctx context.Context, reviewID int64, score int, comment *string) error {
	if score < 1 || score > 10 {
		return ErrInvalidScore
	}
	return withTx(ctx, s.store, s.repo, func(txRepo *repository.Repository) error {
		review, err := txRepo.Reviews.GetForUpdate(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if err := txRepo.Reviews.UpdateScore(ctx, reviewID, score, comment); err != nil {
			return err
		}
		return txRepo.Reviews.RecomputeContentRating(ctx, review.ContentID)
	})
}

// RecomputeRating re-derives a content's user rating from its current review
// set. Exposed for repair tooling; normal mutations already recompute inline.
func (s *ReviewService) RecomputeRating(ctx context.Context, contentID int64) error {
	err := s.repo.Reviews.RecomputeContentRating(ctx, contentID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrContentNotFound
	}
	return err
}

// ListForContent returns a content's reviews, most recent first.
func (s *ReviewService) ListForContent(ctx context.Context, contentID int64) ([]domain.Review, error) {
	return s.repo.Reviews.ListForContent(ctx, contentID)
}

// ListForAuthor returns one author's reviews. Only the author themselves or
// an administrator may read them.
func (s *ReviewService) ListForAuthor(ctx context.Context, authorID int64, caller Caller) ([]domain.AuthorReview, error) {
	if authorID != caller.UserID && !caller.IsAdmin {
		return nil, ErrForbidden
	}
	return s.repo.Reviews.ListForAuthor(ctx, authorID)
}

// ListAll returns every review for the admin moderation view.
func (s *ReviewService) ListAll(ctx context.Context) ([]domain.AuthorReview, error) {
	return s.repo.Reviews.ListAll(ctx)
}
