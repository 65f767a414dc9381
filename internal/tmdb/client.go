package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cinelog/cinelog/internal/domain"
)

// ErrNotFound is returned when the upstream catalog has no entry for the
// requested id.
var ErrNotFound = errors.New("tmdb: not found")

const (
	posterImageBase  = "https://image.tmdb.org/t/p/w500"
	profileImageBase = "https://image.tmdb.org/t/p/w185"
)

// CastCredit is one billed actor from the upstream credits payload.
type CastCredit struct {
	TMDBID      int64
	Name        string
	CharacterAs *string
	PhotoURL    *string
	Order       int
}

// Result contains everything required to import a content record.
type Result struct {
	TMDBID         int64
	Title          string
	Overview       *string
	RuntimeMins    *int
	ReleaseYear    *int
	MediaType      domain.MediaType
	PosterURL      *string
	TrailerURL     *string
	ExternalRating *float64
	Director       *string
	Genres         []string
	Cast           []CastCredit
}

// Client defines the contract for querying the upstream movie database.
type Client interface {
	Fetch(ctx context.Context, mediaType domain.MediaType, tmdbID int64) (*Result, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL  *url.URL
	apiKey   string
	language string
	client   *http.Client
	logger   *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed TMDB client.
func NewHTTPClient(baseURL, apiKey, language string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	return &HTTPClient{
		baseURL:  parsed,
		apiKey:   apiKey,
		language: language,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Fetch retrieves details, videos and credits for one title and folds them
// into an import-ready Result.
func (c *HTTPClient) Fetch(ctx context.Context, mediaType domain.MediaType, tmdbID int64) (*Result, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("tmdb: unknown media type %q", mediaType)
	}
	prefix := "/movie"
	if mediaType == domain.MediaTypeSeries {
		prefix = "/tv"
	}
	base := fmt.Sprintf("%s/%d", prefix, tmdbID)

	var details detailsPayload
	if err := c.get(ctx, base, &details); err != nil {
		return nil, err
	}
	var videos videosPayload
	if err := c.get(ctx, base+"/videos", &videos); err != nil {
		return nil, err
	}
	var credits creditsPayload
	if err := c.get(ctx, base+"/credits", &credits); err != nil {
		return nil, err
	}

	return convertToResult(mediaType, tmdbID, details, videos, credits), nil
}

func (c *HTTPClient) get(ctx context.Context, path string, dst any) error {
	// JoinPath keeps the base URL's path prefix (e.g. the /3 in
	// https://api.themoviedb.org/3) in front of the endpoint.
	endpoint := c.baseURL.JoinPath(path)
	q := endpoint.Query()
	q.Set("api_key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode tmdb response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		c.logger.Printf("tmdb: unexpected status %d for %s", resp.StatusCode, path)
		return fmt.Errorf("tmdb: upstream returned %d", resp.StatusCode)
	}
}

type detailsPayload struct {
	Title          *string        `json:"title"`
	Name           *string        `json:"name"`
	Overview       *string        `json:"overview"`
	Runtime        *int           `json:"runtime"`
	EpisodeRunTime []int          `json:"episode_run_time"`
	ReleaseDate    *string        `json:"release_date"`
	FirstAirDate   *string        `json:"first_air_date"`
	PosterPath     *string        `json:"poster_path"`
	VoteAverage    *float64       `json:"vote_average"`
	Genres         []genrePayload `json:"genres"`
	CreatedBy      []crewPayload  `json:"created_by"`
}

type genrePayload struct {
	Name string `json:"name"`
}

type videosPayload struct {
	Results []videoPayload `json:"results"`
}

type videoPayload struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Language string `json:"iso_639_1"`
}

type creditsPayload struct {
	Crew []crewPayload `json:"crew"`
	Cast []castPayload `json:"cast"`
}

type crewPayload struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type castPayload struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Character   *string `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

func convertToResult(mediaType domain.MediaType, tmdbID int64, details detailsPayload, videos videosPayload, credits creditsPayload) *Result {
	result := &Result{
		TMDBID:         tmdbID,
		MediaType:      mediaType,
		Overview:       emptyToNil(details.Overview),
		ExternalRating: details.VoteAverage,
	}

	if details.Title != nil && *details.Title != "" {
		result.Title = *details.Title
	} else if details.Name != nil {
		result.Title = *details.Name
	}

	if details.Runtime != nil {
		result.RuntimeMins = details.Runtime
	} else if len(details.EpisodeRunTime) > 0 {
		runtime := details.EpisodeRunTime[0]
		result.RuntimeMins = &runtime
	}

	result.ReleaseYear = parseYear(details.ReleaseDate)
	if result.ReleaseYear == nil {
		result.ReleaseYear = parseYear(details.FirstAirDate)
	}

	if details.PosterPath != nil && *details.PosterPath != "" {
		poster := posterImageBase + *details.PosterPath
		result.PosterURL = &poster
	}

	result.TrailerURL = pickTrailer(videos.Results)
	result.Director = pickDirector(mediaType, credits.Crew, details.CreatedBy)

	for _, genre := range details.Genres {
		if genre.Name != "" {
			result.Genres = append(result.Genres, genre.Name)
		}
	}

	for i, actor := range credits.Cast {
		credit := CastCredit{
			TMDBID:      actor.ID,
			Name:        actor.Name,
			CharacterAs: emptyToNil(actor.Character),
			Order:       i,
		}
		if actor.ProfilePath != nil && *actor.ProfilePath != "" {
			photo := profileImageBase + *actor.ProfilePath
			credit.PhotoURL = &photo
		}
		result.Cast = append(result.Cast, credit)
	}

	return result
}

// pickTrailer selects a YouTube trailer, preferring Portuguese or English
// audio when available.
func pickTrailer(videos []videoPayload) *string {
	var fallback *string
	for _, video := range videos {
		if video.Type != "Trailer" || video.Site != "YouTube" || video.Key == "" {
			continue
		}
		link := "https://www.youtube.com/watch?v=" + video.Key
		if video.Language == "pt" || video.Language == "en" {
			return &link
		}
		if fallback == nil {
			fallback = &link
		}
	}
	return fallback
}

// pickDirector extracts the movie director, or the series creators joined
// with commas.
func pickDirector(mediaType domain.MediaType, crew, createdBy []crewPayload) *string {
	if mediaType == domain.MediaTypeMovie {
		for _, member := range crew {
			if member.Job == "Director" && member.Name != "" {
				name := member.Name
				return &name
			}
		}
		return nil
	}

	names := make([]string, 0, len(createdBy))
	for _, creator := range createdBy {
		if creator.Name != "" {
			names = append(names, creator.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	joined := strings.Join(names, ", ")
	return &joined
}

func parseYear(date *string) *int {
	if date == nil || len(*date) < 4 {
		return nil
	}
	var year int
	if _, err := fmt.Sscanf((*date)[:4], "%d", &year); err != nil || year == 0 {
		return nil
	}
	return &year
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
