package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinelog/cinelog/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a uniqueness constraint was violated.
var ErrConflict = errors.New("repository: conflict")

// Querier is the subset of pgx operations repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// standalone or inside a service transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users     *UsersRepository
	Contents  *ContentsRepository
	Reviews   *ReviewsRepository
	Votes     *VotesRepository
	Favorites *FavoritesRepository
	Lists     *ListsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return newWithQuerier(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return newWithQuerier(pool)
}

// WithTx returns a Repository whose queries run on the given transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return newWithQuerier(tx)
}

func newWithQuerier(db Querier) *Repository {
	return &Repository{
		Users:     &UsersRepository{db: db},
		Contents:  &ContentsRepository{db: db},
		Reviews:   &ReviewsRepository{db: db},
		Votes:     &VotesRepository{db: db},
		Favorites: &FavoritesRepository{db: db},
		Lists:     &ListsRepository{db: db},
	}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
