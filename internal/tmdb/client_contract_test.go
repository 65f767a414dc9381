package tmdb

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/domain"
)

// TestHTTPClientSmoke verifies the client can parse one real title from a
// target catalog (real TMDB or cmd/tmdb-mock). Skipped unless TMDB_URL is set.
func TestHTTPClientSmoke(t *testing.T) {
	baseURL := os.Getenv("TMDB_URL")
	if baseURL == "" {
		t.Skip("TMDB_URL not provided")
	}
	apiKey := os.Getenv("TMDB_API_KEY")
	client, err := NewHTTPClient(baseURL, apiKey, "pt-PT", 3*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 603 is The Matrix in both TMDB and the bundled mock data.
	result, err := client.Fetch(ctx, domain.MediaTypeMovie, 603)
	if err != nil {
		t.Fatalf("fetch title: %v", err)
	}
	if result.Title == "" || result.MediaType != domain.MediaTypeMovie {
		t.Fatalf("unexpected payload: %+v", result)
	}
}
