package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cinelog/cinelog/internal/domain"
)

// ContentsRepository provides persistence helpers for catalog entries.
type ContentsRepository struct {
	db Querier
}

const contentColumns = `
    id,
    tmdb_id,
    title,
    overview,
    runtime_mins,
    release_year,
    media_type,
    poster_url,
    trailer_url,
    director,
    external_rating::float8,
    user_rating::float8,
    created_at,
    updated_at
`

// ContentCreateParams bundles the fields required to create a content.
type ContentCreateParams struct {
	TMDBID         *int64
	Title          string
	Overview       *string
	RuntimeMins    *int
	ReleaseYear    *int
	MediaType      domain.MediaType
	PosterURL      *string
	TrailerURL     *string
	Director       *string
	ExternalRating *float64
}

// ContentUpdateParams carries the editable metadata fields.
type ContentUpdateParams struct {
	Title       string
	Overview    *string
	RuntimeMins *int
	ReleaseYear *int
	MediaType   domain.MediaType
	PosterURL   *string
	TrailerURL  *string
	Director    *string
}

// ContentListFilters encapsulates catalog search options.
type ContentListFilters struct {
	MediaType *domain.MediaType
	Search    *string
	Genre     *string
}

// Create inserts a new content row and returns the stored entity. A duplicate
// tmdb_id surfaces as ErrConflict.
func (r *ContentsRepository) Create(ctx context.Context, params ContentCreateParams) (domain.Content, error) {
	query := fmt.Sprintf(`
        INSERT INTO contents (tmdb_id, title, overview, runtime_mins, release_year, media_type, poster_url, trailer_url, director, external_rating)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING %s
    `, contentColumns)

	row := r.db.QueryRow(ctx, query,
		params.TMDBID, params.Title, params.Overview, params.RuntimeMins, params.ReleaseYear,
		string(params.MediaType), params.PosterURL, params.TrailerURL, params.Director, params.ExternalRating)
	content, err := scanContent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Content{}, ErrConflict
		}
		return domain.Content{}, err
	}
	return content, nil
}

// GetByID fetches a content by its identifier.
func (r *ContentsRepository) GetByID(ctx context.Context, id int64) (domain.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM contents WHERE id = $1`, contentColumns)
	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Content{}, ErrNotFound
		}
		return domain.Content{}, err
	}
	return content, nil
}

// FindByTMDBID resolves a content by its external catalog id.
func (r *ContentsRepository) FindByTMDBID(ctx context.Context, tmdbID int64) (domain.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM contents WHERE tmdb_id = $1`, contentColumns)
	content, err := scanContent(r.db.QueryRow(ctx, query, tmdbID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Content{}, ErrNotFound
		}
		return domain.Content{}, err
	}
	return content, nil
}

// Exists reports whether a content row with the given id is present.
func (r *ContentsRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contents WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("content exists: %w", err)
	}
	return exists, nil
}

// Update overwrites the editable metadata of a content.
func (r *ContentsRepository) Update(ctx context.Context, id int64, params ContentUpdateParams) (domain.Content, error) {
	query := fmt.Sprintf(`
        UPDATE contents
        SET title = $2,
            overview = $3,
            runtime_mins = $4,
            release_year = $5,
            media_type = $6,
            poster_url = $7,
            trailer_url = $8,
            director = $9,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, contentColumns)

	row := r.db.QueryRow(ctx, query, id,
		params.Title, params.Overview, params.RuntimeMins, params.ReleaseYear,
		string(params.MediaType), params.PosterURL, params.TrailerURL, params.Director)
	content, err := scanContent(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Content{}, ErrNotFound
		}
		return domain.Content{}, err
	}
	return content, nil
}

// Delete removes a content row; reviews and votes cascade at the schema level.
func (r *ContentsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns catalog entries matching the provided filters, newest releases
// first.
func (r *ContentsRepository) List(ctx context.Context, filters ContentListFilters) ([]domain.Content, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.MediaType != nil {
		where = append(where, fmt.Sprintf("media_type = %s", arg(string(*filters.MediaType))))
	}
	if filters.Search != nil && strings.TrimSpace(*filters.Search) != "" {
		where = append(where, fmt.Sprintf("title ILIKE %s", arg("%"+strings.TrimSpace(*filters.Search)+"%")))
	}
	if filters.Genre != nil && strings.TrimSpace(*filters.Genre) != "" {
		where = append(where, fmt.Sprintf(
			"id IN (SELECT cg.content_id FROM content_genres cg JOIN genres g ON g.id = cg.genre_id WHERE g.name ILIKE %s)",
			arg(strings.TrimSpace(*filters.Genre))))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(contentColumns)
	queryBuilder.WriteString(" FROM contents")
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY release_year DESC NULLS LAST, id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GenreNames returns the genre names attached to a content.
func (r *ContentsRepository) GenreNames(ctx context.Context, contentID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
        SELECT g.name
        FROM content_genres cg
        JOIN genres g ON g.id = cg.genre_id
        WHERE cg.content_id = $1
        ORDER BY g.name
    `, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AttachGenre upserts a genre by name and links it to the content.
func (r *ContentsRepository) AttachGenre(ctx context.Context, contentID int64, name string) error {
	var genreID int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO genres (name) VALUES ($1)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `, name).Scan(&genreID)
	if err != nil {
		return fmt.Errorf("upsert genre %q: %w", name, err)
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO content_genres (content_id, genre_id) VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `, contentID, genreID)
	if err != nil {
		return fmt.Errorf("link genre %q: %w", name, err)
	}
	return nil
}

// CastParams carries one billed actor for insertion.
type CastParams struct {
	TMDBID      *int64
	Name        string
	CharacterAs *string
	PhotoURL    *string
	Position    int
}

// AddCastMember inserts one cast row for a content.
func (r *ContentsRepository) AddCastMember(ctx context.Context, contentID int64, params CastParams) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO cast_members (content_id, tmdb_id, name, character_name, photo_url, position)
        VALUES ($1,$2,$3,$4,$5,$6)
    `, contentID, params.TMDBID, params.Name, params.CharacterAs, params.PhotoURL, params.Position)
	return err
}

// ListCast returns the cast of a content ordered by billing position.
func (r *ContentsRepository) ListCast(ctx context.Context, contentID int64) ([]domain.CastMember, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, content_id, tmdb_id, name, character_name, photo_url, position
        FROM cast_members
        WHERE content_id = $1
        ORDER BY position ASC
    `, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]domain.CastMember, 0)
	for rows.Next() {
		var m domain.CastMember
		if err := rows.Scan(&m.ID, &m.ContentID, &m.TMDBID, &m.Name, &m.CharacterAs, &m.PhotoURL, &m.Position); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func scanContent(row pgx.Row) (domain.Content, error) {
	var (
		content   domain.Content
		mediaType string
	)
	err := row.Scan(
		&content.ID,
		&content.TMDBID,
		&content.Title,
		&content.Overview,
		&content.RuntimeMins,
		&content.ReleaseYear,
		&mediaType,
		&content.PosterURL,
		&content.TrailerURL,
		&content.Director,
		&content.ExternalRating,
		&content.UserRating,
		&content.CreatedAt,
		&content.UpdatedAt,
	)
	if err != nil {
		return domain.Content{}, err
	}
	content.MediaType = domain.MediaType(mediaType)
	return content, nil
}
