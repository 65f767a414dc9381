package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cinelog/cinelog/internal/domain"
)

// ListsRepository manages user-curated content lists.
type ListsRepository struct {
	db Querier
}

// ListCreateParams bundles the fields required to create a list.
type ListCreateParams struct {
	OwnerID     int64
	Name        string
	Description *string
}

// Create inserts a new list and returns the stored entity.
func (r *ListsRepository) Create(ctx context.Context, params ListCreateParams) (domain.List, error) {
	const query = `
        INSERT INTO lists (owner_id, name, description)
        VALUES ($1,$2,$3)
        RETURNING id, owner_id, name, description, created_at
    `
	var list domain.List
	err := r.db.QueryRow(ctx, query, params.OwnerID, params.Name, params.Description).Scan(
		&list.ID, &list.OwnerID, &list.Name, &list.Description, &list.CreatedAt)
	if err != nil {
		return domain.List{}, err
	}
	return list, nil
}

// Get fetches a list by id, including its item count.
func (r *ListsRepository) Get(ctx context.Context, id int64) (domain.List, error) {
	const query = `
        SELECT l.id, l.owner_id, l.name, l.description, l.created_at,
               (SELECT COUNT(*) FROM list_items WHERE list_id = l.id) AS item_count
        FROM lists l
        WHERE l.id = $1
    `
	var list domain.List
	err := r.db.QueryRow(ctx, query, id).Scan(
		&list.ID, &list.OwnerID, &list.Name, &list.Description, &list.CreatedAt, &list.ItemCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.List{}, ErrNotFound
		}
		return domain.List{}, err
	}
	return list, nil
}

// ListForOwner returns one user's lists with item counts, newest first.
func (r *ListsRepository) ListForOwner(ctx context.Context, ownerID int64) ([]domain.List, error) {
	const query = `
        SELECT l.id, l.owner_id, l.name, l.description, l.created_at,
               (SELECT COUNT(*) FROM list_items WHERE list_id = l.id) AS item_count
        FROM lists l
        WHERE l.owner_id = $1
        ORDER BY l.created_at DESC, l.id DESC
    `
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]domain.List, 0)
	for rows.Next() {
		var list domain.List
		err := rows.Scan(&list.ID, &list.OwnerID, &list.Name, &list.Description, &list.CreatedAt, &list.ItemCount)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// Update overwrites a list's name and description.
func (r *ListsRepository) Update(ctx context.Context, id int64, name string, description *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE lists SET name = $2, description = $3 WHERE id = $1`,
		id, name, description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a list; its items cascade.
func (r *ListsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddItem links a content to a list. A repeated add surfaces as ErrConflict.
func (r *ListsRepository) AddItem(ctx context.Context, listID, contentID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO list_items (list_id, content_id) VALUES ($1, $2)`,
		listID, contentID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// RemoveItem unlinks a content from a list.
func (r *ListsRepository) RemoveItem(ctx context.Context, listID, contentID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM list_items WHERE list_id = $1 AND content_id = $2`,
		listID, contentID)
	return err
}

// Items returns the contents in a list, most recently added first.
func (r *ListsRepository) Items(ctx context.Context, listID int64) ([]domain.Content, error) {
	const query = `
        SELECT c.id, c.tmdb_id, c.title, c.overview, c.runtime_mins, c.release_year,
               c.media_type, c.poster_url, c.trailer_url, c.director,
               c.external_rating::float8, c.user_rating::float8, c.created_at, c.updated_at
        FROM list_items li
        JOIN contents c ON c.id = li.content_id
        WHERE li.list_id = $1
        ORDER BY li.added_at DESC
    `
	rows, err := r.db.Query(ctx, query, listID)
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
