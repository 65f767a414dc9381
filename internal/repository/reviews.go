package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cinelog/cinelog/internal/domain"
)

// ReviewsRepository provides persistence helpers for reviews and the derived
// content rating.
type ReviewsRepository struct {
	db Querier
}

// ReviewUpsertParams captures the payload required to submit a review.
type ReviewUpsertParams struct {
	ContentID int64
	AuthorID  int64
	Score     int
	Comment   *string
}

// Upsert inserts a review or, when the author already reviewed the content,
// overwrites score and comment in place. The original created_at and the
// useful_votes counter are left untouched on update. The boolean result
// reports whether a new row was created.
func (r *ReviewsRepository) Upsert(ctx context.Context, params ReviewUpsertParams) (domain.Review, bool, error) {
	const query = `
        INSERT INTO reviews (content_id, author_id, score, comment)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (content_id, author_id)
        DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment
        RETURNING id, content_id, author_id, score, comment, useful_votes, created_at, (xmax = 0) AS inserted
    `

	var review domain.Review
	var inserted bool
	err := r.db.QueryRow(ctx, query, params.ContentID, params.AuthorID, params.Score, params.Comment).Scan(
		&review.ID,
		&review.ContentID,
		&review.AuthorID,
		&review.Score,
		&review.Comment,
		&review.UsefulVotes,
		&review.CreatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Review{}, false, err
	}
	return review, inserted, nil
}

// Get fetches a review by id.
func (r *ReviewsRepository) Get(ctx context.Context, id int64) (domain.Review, error) {
	const query = `
        SELECT id, content_id, author_id, score, comment, useful_votes, created_at
        FROM reviews
        WHERE id = $1
    `
	var review domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.ContentID,
		&review.AuthorID,
		&review.Score,
		&review.Comment,
		&review.UsefulVotes,
		&review.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// GetForUpdate fetches a review by id and locks its row for the duration of
// the surrounding transaction, serializing concurrent vote toggles and
// deletes against it.
func (r *ReviewsRepository) GetForUpdate(ctx context.Context, id int64) (domain.Review, error) {
	const query = `
        SELECT id, content_id, author_id, score, comment, useful_votes, created_at
        FROM reviews
        WHERE id = $1
        FOR UPDATE
    `
	var review domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.ContentID,
		&review.AuthorID,
		&review.Score,
		&review.Comment,
		&review.UsefulVotes,
		&review.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// UpdateScore overwrites score and comment of an existing review (admin
// moderation path). created_at is deliberately not refreshed.
func (r *ReviewsRepository) UpdateScore(ctx context.Context, id int64, score int, comment *string) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET score = $2, comment = $3 WHERE id = $1`, id, score, comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a review row.
func (r *ReviewsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecomputeContentRating derives the content's user rating from the current
// review set in a single statement. AVG over zero rows yields NULL, so a
// content with no reviews ends up with an absent rating rather than zero.
// Returns ErrNotFound when the content row does not exist.
func (r *ReviewsRepository) RecomputeContentRating(ctx context.Context, contentID int64) error {
	const query = `
        UPDATE contents
        SET user_rating = (
            SELECT ROUND(AVG(score)::numeric, 1)
            FROM reviews
            WHERE content_id = $1
        )
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, contentID)
	if err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustUsefulVotes applies delta to the denormalized vote counter and
// returns the new value.
func (r *ReviewsRepository) AdjustUsefulVotes(ctx context.Context, id int64, delta int) (int, error) {
	var votes int
	err := r.db.QueryRow(ctx,
		`UPDATE reviews SET useful_votes = useful_votes + $2 WHERE id = $1 RETURNING useful_votes`,
		id, delta).Scan(&votes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return votes, nil
}

// ListForContent returns all reviews for a content joined with author
// details, most recent first.
func (r *ReviewsRepository) ListForContent(ctx context.Context, contentID int64) ([]domain.Review, error) {
	const query = `
        SELECT r.id, r.content_id, r.author_id, r.score, r.comment, r.useful_votes, r.created_at,
               u.username, u.display_name
        FROM reviews r
        JOIN users u ON u.id = r.author_id
        WHERE r.content_id = $1
        ORDER BY r.created_at DESC, r.id DESC
    `
	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(
			&review.ID,
			&review.ContentID,
			&review.AuthorID,
			&review.Score,
			&review.Comment,
			&review.UsefulVotes,
			&review.CreatedAt,
			&review.AuthorUsername,
			&review.AuthorName,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// ListForAuthor returns all reviews by one author joined with the reviewed
// content, most recent first.
func (r *ReviewsRepository) ListForAuthor(ctx context.Context, authorID int64) ([]domain.AuthorReview, error) {
	const query = `
        SELECT r.id, r.content_id, r.author_id, r.score, r.comment, r.useful_votes, r.created_at,
               c.title, c.media_type, c.poster_url, c.release_year
        FROM reviews r
        JOIN contents c ON c.id = r.content_id
        WHERE r.author_id = $1
        ORDER BY r.created_at DESC, r.id DESC
    `
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.AuthorReview, 0)
	for rows.Next() {
		var review domain.AuthorReview
		var mediaType string
		err := rows.Scan(
			&review.ID,
			&review.ContentID,
			&review.AuthorID,
			&review.Score,
			&review.Comment,
			&review.UsefulVotes,
			&review.CreatedAt,
			&review.ContentTitle,
			&mediaType,
			&review.ContentPosterURL,
			&review.ContentYear,
		)
		if err != nil {
			return nil, err
		}
		review.ContentMediaType = domain.MediaType(mediaType)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// ListAll returns every review joined with author and content, most recent
// first. Used by the admin moderation view.
func (r *ReviewsRepository) ListAll(ctx context.Context) ([]domain.AuthorReview, error) {
	const query = `
        SELECT r.id, r.content_id, r.author_id, r.score, r.comment, r.useful_votes, r.created_at,
               u.username, u.display_name,
               c.title, c.media_type, c.poster_url, c.release_year
        FROM reviews r
        JOIN users u ON u.id = r.author_id
        JOIN contents c ON c.id = r.content_id
        ORDER BY r.created_at DESC, r.id DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.AuthorReview, 0)
	for rows.Next() {
		var review domain.AuthorReview
		var mediaType string
		err := rows.Scan(
			&review.ID,
			&review.ContentID,
			&review.AuthorID,
			&review.Score,
			&review.Comment,
			&review.UsefulVotes,
			&review.CreatedAt,
			&review.AuthorUsername,
			&review.AuthorName,
			&review.ContentTitle,
			&mediaType,
			&review.ContentPosterURL,
			&review.ContentYear,
		)
		if err != nil {
			return nil, err
		}
		review.ContentMediaType = domain.MediaType(mediaType)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
