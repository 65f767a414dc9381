package repository

import (
	"context"
	"fmt"

	"github.com/cinelog/cinelog/internal/domain"
)

// FavoritesRepository manages the user/content favorite pairs.
type FavoritesRepository struct {
	db Querier
}

// Add marks a content as favorite. A repeated add surfaces as ErrConflict.
func (r *FavoritesRepository) Add(ctx context.Context, userID, contentID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorites (user_id, content_id) VALUES ($1, $2)`,
		userID, contentID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Remove deletes the favorite pair. Removing an absent favorite is a no-op,
// matching the reference behavior.
func (r *FavoritesRepository) Remove(ctx context.Context, userID, contentID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND content_id = $2`,
		userID, contentID)
	return err
}

// Exists reports whether the content is among the user's favorites.
func (r *FavoritesRepository) Exists(ctx context.Context, userID, contentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND content_id = $2)`,
		userID, contentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("favorite exists: %w", err)
	}
	return exists, nil
}

// ListForUser returns the user's favorited contents, most recently added
// first.
func (r *FavoritesRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Content, error) {
	const query = `
        SELECT c.id, c.tmdb_id, c.title, c.overview, c.runtime_mins, c.release_year,
               c.media_type, c.poster_url, c.trailer_url, c.director,
               c.external_rating::float8, c.user_rating::float8, c.created_at, c.updated_at
        FROM favorites f
        JOIN contents c ON c.id = f.content_id
        WHERE f.user_id = $1
        ORDER BY f.added_at DESC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, content)
	}
	return items, rows.Err()
}
