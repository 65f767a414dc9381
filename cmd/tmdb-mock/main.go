package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
)

// titleEntry mirrors the three upstream payloads served per title.
type titleEntry struct {
	Details json.RawMessage `json:"details"`
	Videos  json.RawMessage `json:"videos"`
	Credits json.RawMessage `json:"credits"`
}

func main() {
	var (
		port    = flag.String("port", "9098", "port to listen on")
		data    = flag.String("data", "mock-tmdb.json", "path to mock data file")
		verbose = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	// Keyed by "movie/603" or "tv/1399".
	var payload map[string]titleEntry
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	mux := http.NewServeMux()
	serve := func(pick func(titleEntry) json.RawMessage) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := r.PathValue("type") + "/" + r.PathValue("id")
			entry, ok := payload[key]
			if !ok {
				http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
				return
			}
			if *verbose {
				log.Printf("%s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(pick(entry))
		}
	}

	mux.HandleFunc("GET /{type}/{id}", serve(func(e titleEntry) json.RawMessage { return e.Details }))
	mux.HandleFunc("GET /{type}/{id}/videos", serve(func(e titleEntry) json.RawMessage { return e.Videos }))
	mux.HandleFunc("GET /{type}/{id}/credits", serve(func(e titleEntry) json.RawMessage { return e.Credits }))

	addr := ":" + *port
	log.Printf("mock tmdb listening on %s with %d entries", addr, len(payload))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
