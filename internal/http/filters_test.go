package httpserver

import (
	"net/url"
	"testing"

	"github.com/cinelog/cinelog/internal/domain"
)

func TestBuildContentFilters(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantErr   bool
		wantType  *domain.MediaType
		wantQ     string
		wantGenre string
	}{
		{name: "empty", query: ""},
		{
			name:     "movie type",
			query:    "type=movie",
			wantType: mediaTypePtr(domain.MediaTypeMovie),
		},
		{
			name:     "series type",
			query:    "type=series",
			wantType: mediaTypePtr(domain.MediaTypeSeries),
		},
		{name: "unknown type", query: "type=cartoon", wantErr: true},
		{name: "search", query: "q=matrix", wantQ: "matrix"},
		{name: "search trimmed", query: "q=%20matrix%20", wantQ: "matrix"},
		{name: "genre", query: "genre=Drama", wantGenre: "Drama"},
		{name: "blank values ignored", query: "q=%20&genre=%20&type="},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			filters, err := buildContentFilters(values)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (filters.MediaType == nil) != (tc.wantType == nil) {
				t.Fatalf("MediaType = %v, want %v", filters.MediaType, tc.wantType)
			}
			if tc.wantType != nil && *filters.MediaType != *tc.wantType {
				t.Fatalf("MediaType = %v, want %v", *filters.MediaType, *tc.wantType)
			}
			if tc.wantQ == "" && filters.Search != nil {
				t.Fatalf("Search = %q, want nil", *filters.Search)
			}
			if tc.wantQ != "" && (filters.Search == nil || *filters.Search != tc.wantQ) {
				t.Fatalf("Search = %v, want %q", filters.Search, tc.wantQ)
			}
			if tc.wantGenre != "" && (filters.Genre == nil || *filters.Genre != tc.wantGenre) {
				t.Fatalf("Genre = %v, want %q", filters.Genre, tc.wantGenre)
			}
		})
	}
}

func mediaTypePtr(mt domain.MediaType) *domain.MediaType {
	return &mt
}

func FuzzBuildContentFilters(f *testing.F) {
	seeds := []string{
		"q=Inception&genre=Action&type=movie",
		"type=cartoon",
		"q=%20",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		filters, err := buildContentFilters(values)
		if err != nil {
			return
		}
		if filters.MediaType != nil && !filters.MediaType.Valid() {
			t.Fatalf("invalid media type passed validation: %q", *filters.MediaType)
		}
	})
}
