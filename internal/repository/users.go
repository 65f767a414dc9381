package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cinelog/cinelog/internal/domain"
)

// UsersRepository provides persistence helpers for accounts.
type UsersRepository struct {
	db Querier
}

const userColumns = `id, username, email, password_hash, display_name, is_admin, created_at`

// UserCreateParams bundles the fields required to register a user.
type UserCreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	DisplayName  *string
}

// Create inserts a new account. Duplicate username or email surfaces as
// ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	const query = `
        INSERT INTO users (username, email, password_hash, display_name)
        VALUES ($1,$2,$3,$4)
        RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, params.Username, params.Email, params.PasswordHash, params.DisplayName))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches an account by id.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByLogin resolves an account by username or email, as the login form
// accepts either.
func (r *UsersRepository) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UserUpdateParams carries the self-service profile fields. PasswordHash nil
// keeps the current password.
type UserUpdateParams struct {
	Email        string
	DisplayName  *string
	PasswordHash *string
}

// UpdateProfile updates a user's own profile fields.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id int64, params UserUpdateParams) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE users
        SET email = $2,
            display_name = $3,
            password_hash = COALESCE($4, password_hash)
        WHERE id = $1
    `, id, params.Email, params.DisplayName, params.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdminUpdateParams carries the fields an administrator may change on any
// account.
type AdminUpdateParams struct {
	Username     string
	Email        string
	DisplayName  *string
	IsAdmin      bool
	PasswordHash *string
}

// AdminUpdate overwrites an account's fields on behalf of an administrator.
func (r *UsersRepository) AdminUpdate(ctx context.Context, id int64, params AdminUpdateParams) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE users
        SET username = $2,
            email = $3,
            display_name = $4,
            is_admin = $5,
            password_hash = COALESCE($6, password_hash)
        WHERE id = $1
    `, id, params.Username, params.Email, params.DisplayName, params.IsAdmin, params.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account; its reviews, votes, favorites and lists cascade.
func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all accounts, newest first.
func (r *UsersRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
