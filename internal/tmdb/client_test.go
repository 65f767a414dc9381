package tmdb

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestPickTrailer(t *testing.T) {
	tests := []struct {
		name   string
		videos []videoPayload
		want   *string
	}{
		{name: "no videos", videos: nil, want: nil},
		{
			name: "prefers portuguese",
			videos: []videoPayload{
				{Key: "fr1", Site: "YouTube", Type: "Trailer", Language: "fr"},
				{Key: "pt1", Site: "YouTube", Type: "Trailer", Language: "pt"},
			},
			want: strPtr("https://www.youtube.com/watch?v=pt1"),
		},
		{
			name: "accepts english",
			videos: []videoPayload{
				{Key: "en1", Site: "YouTube", Type: "Trailer", Language: "en"},
			},
			want: strPtr("https://www.youtube.com/watch?v=en1"),
		},
		{
			name: "falls back to any trailer",
			videos: []videoPayload{
				{Key: "teaser", Site: "YouTube", Type: "Teaser", Language: "en"},
				{Key: "jp1", Site: "YouTube", Type: "Trailer", Language: "ja"},
			},
			want: strPtr("https://www.youtube.com/watch?v=jp1"),
		},
		{
			name: "ignores non-youtube",
			videos: []videoPayload{
				{Key: "v1", Site: "Vimeo", Type: "Trailer", Language: "en"},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickTrailer(tt.videos)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("pickTrailer = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("pickTrailer = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestPickDirector(t *testing.T) {
	crew := []crewPayload{
		{Name: "Jane Editor", Job: "Editor"},
		{Name: "John Director", Job: "Director"},
	}
	creators := []crewPayload{
		{Name: "Vince Gilligan"},
		{Name: "Peter Gould"},
	}

	if got := pickDirector(domain.MediaTypeMovie, crew, creators); got == nil || *got != "John Director" {
		t.Fatalf("movie director = %v, want John Director", got)
	}
	if got := pickDirector(domain.MediaTypeSeries, crew, creators); got == nil || *got != "Vince Gilligan, Peter Gould" {
		t.Fatalf("series creators = %v", got)
	}
	if got := pickDirector(domain.MediaTypeMovie, nil, nil); got != nil {
		t.Fatalf("no crew: got %v, want nil", *got)
	}
}

func TestConvertToResult(t *testing.T) {
	runtime := 136
	vote := 8.2
	details := detailsPayload{
		Title:       strPtr("The Matrix"),
		Overview:    strPtr("A hacker learns the truth."),
		Runtime:     &runtime,
		ReleaseDate: strPtr("1999-03-31"),
		PosterPath:  strPtr("/poster.jpg"),
		VoteAverage: &vote,
		Genres:      []genrePayload{{Name: "Action"}, {Name: ""}},
	}
	credits := creditsPayload{
		Crew: []crewPayload{{Name: "Lana Wachowski", Job: "Director"}},
		Cast: []castPayload{
			{ID: 6384, Name: "Keanu Reeves", Character: strPtr("Neo"), ProfilePath: strPtr("/neo.jpg"), Order: 0},
			{ID: 2975, Name: "Laurence Fishburne", Character: strPtr(""), Order: 1},
		},
	}

	result := convertToResult(domain.MediaTypeMovie, 603, details, videosPayload{}, credits)

	if result.Title != "The Matrix" {
		t.Fatalf("title = %q", result.Title)
	}
	if result.ReleaseYear == nil || *result.ReleaseYear != 1999 {
		t.Fatalf("year = %v, want 1999", result.ReleaseYear)
	}
	if result.PosterURL == nil || *result.PosterURL != posterImageBase+"/poster.jpg" {
		t.Fatalf("poster = %v", result.PosterURL)
	}
	if result.Director == nil || *result.Director != "Lana Wachowski" {
		t.Fatalf("director = %v", result.Director)
	}
	if len(result.Genres) != 1 || result.Genres[0] != "Action" {
		t.Fatalf("genres = %v, want [Action] with empty names dropped", result.Genres)
	}
	if len(result.Cast) != 2 {
		t.Fatalf("cast = %d members", len(result.Cast))
	}
	if result.Cast[0].PhotoURL == nil || *result.Cast[0].PhotoURL != profileImageBase+"/neo.jpg" {
		t.Fatalf("cast photo = %v", result.Cast[0].PhotoURL)
	}
	if result.Cast[1].CharacterAs != nil {
		t.Fatalf("empty character should be nil, got %q", *result.Cast[1].CharacterAs)
	}
}

func TestConvertToResult_SeriesFields(t *testing.T) {
	details := detailsPayload{
		Name:           strPtr("Breaking Bad"),
		EpisodeRunTime: []int{47, 45},
		FirstAirDate:   strPtr("2008-01-20"),
		CreatedBy:      []crewPayload{{Name: "Vince Gilligan"}},
	}

	result := convertToResult(domain.MediaTypeSeries, 1396, details, videosPayload{}, creditsPayload{})

	if result.Title != "Breaking Bad" {
		t.Fatalf("title = %q", result.Title)
	}
	if result.RuntimeMins == nil || *result.RuntimeMins != 47 {
		t.Fatalf("runtime = %v, want first episode runtime", result.RuntimeMins)
	}
	if result.ReleaseYear == nil || *result.ReleaseYear != 2008 {
		t.Fatalf("year = %v, want 2008", result.ReleaseYear)
	}
	if result.Director == nil || *result.Director != "Vince Gilligan" {
		t.Fatalf("creator = %v", result.Director)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   *string
		want *int
	}{
		{in: nil, want: nil},
		{in: strPtr(""), want: nil},
		{in: strPtr("199"), want: nil},
		{in: strPtr("0000-01-01"), want: nil},
		{in: strPtr("1999-03-31"), want: intPtr(1999)},
		{in: strPtr("2024"), want: intPtr(2024)},
	}
	for _, tt := range tests {
		got := parseYear(tt.in)
		if (got == nil) != (tt.want == nil) {
			t.Fatalf("parseYear(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got != nil && *got != *tt.want {
			t.Fatalf("parseYear = %d, want %d", *got, *tt.want)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestHTTPClient_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			http.Error(w, "missing api key", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("language") != "pt-PT" {
			http.Error(w, "missing language", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"title":"The Matrix","release_date":"1999-03-31","genres":[{"name":"Action"}]}`))
	})
	mux.HandleFunc("/movie/603/videos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"key":"abc","site":"YouTube","type":"Trailer","iso_639_1":"en"}]}`))
	})
	mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"crew":[{"name":"Lana Wachowski","job":"Director"}],"cast":[{"id":6384,"name":"Keanu Reeves","character":"Neo","order":0}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "test-key", "pt-PT", 2*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	result, err := client.Fetch(context.Background(), domain.MediaTypeMovie, 603)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Title != "The Matrix" {
		t.Fatalf("title = %q", result.Title)
	}
	if result.TrailerURL == nil || *result.TrailerURL != "https://www.youtube.com/watch?v=abc" {
		t.Fatalf("trailer = %v", result.TrailerURL)
	}
	if result.Director == nil || *result.Director != "Lana Wachowski" {
		t.Fatalf("director = %v", result.Director)
	}

	if _, err := client.Fetch(context.Background(), domain.MediaTypeMovie, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
	if _, err := client.Fetch(context.Background(), domain.MediaType("cartoon"), 603); err == nil {
		t.Fatalf("invalid media type must fail")
	}
}

func TestHTTPClient_FetchKeepsBasePath(t *testing.T) {
	var paths []string
	mux := http.NewServeMux()
	mux.HandleFunc("/3/", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request outside the /3 prefix: %s", r.URL.Path)
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewHTTPClient(server.URL+"/3", "test-key", "", 2*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if _, err := client.Fetch(context.Background(), domain.MediaTypeMovie, 603); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []string{"/3/movie/603", "/3/movie/603/videos", "/3/movie/603/credits"}
	if len(paths) != len(want) {
		t.Fatalf("requested %v, want %v", paths, want)
	}
	for i, path := range want {
		if paths[i] != path {
			t.Fatalf("request %d hit %s, want %s", i, paths[i], path)
		}
	}
}

func FuzzConvertToResult(f *testing.F) {
	f.Add("The Matrix", "1999-03-31", 136, 8.2, "Action")

	f.Fuzz(func(t *testing.T, title, date string, runtime int, vote float64, genre string) {
		details := detailsPayload{
			Title:       optionalString(title),
			ReleaseDate: optionalString(date),
			VoteAverage: &vote,
		}
		if runtime%2 == 0 {
			details.Runtime = &runtime
		} else {
			details.EpisodeRunTime = []int{runtime}
		}
		if genre != "" {
			details.Genres = []genrePayload{{Name: genre}}
		}

		result := convertToResult(domain.MediaTypeMovie, 1, details, videosPayload{}, creditsPayload{})
		if result == nil {
			t.Fatalf("convertToResult returned nil")
		}
		if result.Overview != nil && *result.Overview == "" {
			t.Fatalf("empty overview should be nil")
		}
		if result.ReleaseYear != nil && *result.ReleaseYear == 0 {
			t.Fatalf("zero year should be nil")
		}
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
