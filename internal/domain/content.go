package domain

import "time"

// MediaType distinguishes movies from series.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// Valid reports whether the media type is one of the known values.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeSeries
}

// Content represents the canonical catalog entity (a movie or a series).
// UserRating is derived from reviews; nil means no reviews exist yet.
type Content struct {
	ID             int64
	TMDBID         *int64
	Title          string
	Overview       *string
	RuntimeMins    *int
	ReleaseYear    *int
	MediaType      MediaType
	PosterURL      *string
	TrailerURL     *string
	Director       *string
	ExternalRating *float64
	UserRating     *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CastMember is one billed actor for a content, ordered by Position.
type CastMember struct {
	ID          int64
	ContentID   int64
	TMDBID      *int64
	Name        string
	CharacterAs *string
	PhotoURL    *string
	Position    int
}
