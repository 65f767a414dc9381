package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cinelog/cinelog/internal/domain"
	"github.com/cinelog/cinelog/internal/repository"
	"github.com/cinelog/cinelog/internal/tmdb"
)

type importRequest struct {
	TMDBID    int64  `json:"tmdbId"`
	MediaType string `json:"mediaType"`
}

type contentUpdateRequest struct {
	Title       string  `json:"title"`
	Overview    *string `json:"overview"`
	RuntimeMins *int    `json:"runtimeMins"`
	ReleaseYear *int    `json:"releaseYear"`
	MediaType   string  `json:"mediaType"`
	PosterURL   *string `json:"posterUrl"`
	TrailerURL  *string `json:"trailerUrl"`
	Director    *string `json:"director"`
}

type contentResponse struct {
	ID             int64     `json:"id"`
	TMDBID         *int64    `json:"tmdbId,omitempty"`
	Title          string    `json:"title"`
	Overview       *string   `json:"overview,omitempty"`
	RuntimeMins    *int      `json:"runtimeMins,omitempty"`
	ReleaseYear    *int      `json:"releaseYear,omitempty"`
	MediaType      string    `json:"mediaType"`
	PosterURL      *string   `json:"posterUrl,omitempty"`
	TrailerURL     *string   `json:"trailerUrl,omitempty"`
	Director       *string   `json:"director,omitempty"`
	ExternalRating *float64  `json:"externalRating,omitempty"`
	UserRating     *float64  `json:"userRating"`
	CreatedAt      time.Time `json:"createdAt"`
}

type contentDetailResponse struct {
	contentResponse
	Genres []string             `json:"genres"`
	Cast   []castMemberResponse `json:"cast"`
}

type castMemberResponse struct {
	Name        string  `json:"name"`
	CharacterAs *string `json:"character,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
}

type contentListResponse struct {
	Items []contentResponse `json:"items"`
}

func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	filters, err := buildContentFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	contents, err := s.repo.Contents.List(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list contents error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list contents")
		return
	}

	items := make([]contentResponse, 0, len(contents))
	for _, content := range contents {
		items = append(items, toContentResponse(content))
	}
	s.respondJSON(w, http.StatusOK, contentListResponse{Items: items})
}

func buildContentFilters(query url.Values) (repository.ContentListFilters, error) {
	var filters repository.ContentListFilters

	if val := strings.TrimSpace(query.Get("type")); val != "" {
		mediaType := domain.MediaType(val)
		if !mediaType.Valid() {
			return filters, errors.New("type must be movie or series")
		}
		filters.MediaType = &mediaType
	}
	if val := strings.TrimSpace(query.Get("q")); val != "" {
		filters.Search = &val
	}
	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		filters.Genre = &val
	}
	return filters, nil
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	content, err := s.repo.Contents.GetByID(r.Context(), contentID)
	if err != nil {
		s.respondServiceError(w, err, "fetch content error")
		return
	}

	genres, err := s.repo.Contents.GenreNames(r.Context(), contentID)
	if err != nil {
		s.logger.Printf("fetch genres error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch content")
		return
	}
	cast, err := s.repo.Contents.ListCast(r.Context(), contentID)
	if err != nil {
		s.logger.Printf("fetch cast error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch content")
		return
	}

	resp := contentDetailResponse{
		contentResponse: toContentResponse(content),
		Genres:          genres,
		Cast:            make([]castMemberResponse, 0, len(cast)),
	}
	for _, member := range cast {
		resp.Cast = append(resp.Cast, castMemberResponse{
			Name:        member.Name,
			CharacterAs: member.CharacterAs,
			PhotoURL:    member.PhotoURL,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type contentCreateRequest struct {
	contentUpdateRequest
	ExternalRating *float64 `json:"externalRating"`
}

// handleCreateContent inserts a catalog entry by hand, without touching the
// upstream catalog.
func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	mediaType := domain.MediaType(req.MediaType)
	if strings.TrimSpace(req.Title) == "" || !mediaType.Valid() {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title and mediaType (movie or series) are required")
		return
	}

	content, err := s.repo.Contents.Create(r.Context(), repository.ContentCreateParams{
		Title:          strings.TrimSpace(req.Title),
		Overview:       normalizeStringPtr(req.Overview),
		RuntimeMins:    req.RuntimeMins,
		ReleaseYear:    req.ReleaseYear,
		MediaType:      mediaType,
		PosterURL:      normalizeStringPtr(req.PosterURL),
		TrailerURL:     normalizeStringPtr(req.TrailerURL),
		Director:       normalizeStringPtr(req.Director),
		ExternalRating: req.ExternalRating,
	})
	if err != nil {
		s.respondServiceError(w, err, "create content error")
		return
	}
	s.respondJSON(w, http.StatusCreated, toContentResponse(content))
}

type tmdbCheckResponse struct {
	Exists bool   `json:"exists"`
	ID     *int64 `json:"id,omitempty"`
}

// handleCheckTMDB reports whether a TMDB title is already in the catalog.
func (s *Server) handleCheckTMDB(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := idParam(r, "tmdbID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	content, err := s.repo.Contents.FindByTMDBID(r.Context(), tmdbID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondJSON(w, http.StatusOK, tmdbCheckResponse{Exists: false})
			return
		}
		s.logger.Printf("tmdb check error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check content")
		return
	}
	s.respondJSON(w, http.StatusOK, tmdbCheckResponse{Exists: true, ID: &content.ID})
}

// handleImportContent pulls a title from the upstream catalog and stores it
// with its genres and cast in one transaction.
func (s *Server) handleImportContent(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	mediaType := domain.MediaType(req.MediaType)
	if req.TMDBID <= 0 || !mediaType.Valid() {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "tmdbId and mediaType (movie or series) are required")
		return
	}

	if _, err := s.repo.Contents.FindByTMDBID(r.Context(), req.TMDBID); err == nil {
		s.respondError(w, http.StatusConflict, "CONFLICT", "content already imported")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Printf("lookup content error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to import content")
		return
	}

	fetchCtx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.TMDBTimeoutSecs)*time.Second)
	defer cancel()
	result, err := s.tmdb.Fetch(fetchCtx, mediaType, req.TMDBID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Title not found in upstream catalog")
			return
		}
		s.logger.Printf("tmdb fetch failed for %d: %v", req.TMDBID, err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream catalog unavailable")
		return
	}

	content, err := s.importResult(r.Context(), result)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "content already imported")
			return
		}
		s.logger.Printf("import content error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to import content")
		return
	}

	s.respondJSON(w, http.StatusCreated, toContentResponse(content))
}

func (s *Server) importResult(ctx context.Context, result *tmdb.Result) (domain.Content, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return domain.Content{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := s.repo.WithTx(tx)
	content, err := txRepo.Contents.Create(ctx, repository.ContentCreateParams{
		TMDBID:         &result.TMDBID,
		Title:          result.Title,
		Overview:       result.Overview,
		RuntimeMins:    result.RuntimeMins,
		ReleaseYear:    result.ReleaseYear,
		MediaType:      result.MediaType,
		PosterURL:      result.PosterURL,
		TrailerURL:     result.TrailerURL,
		Director:       result.Director,
		ExternalRating: result.ExternalRating,
	})
	if err != nil {
		return domain.Content{}, err
	}

	for _, genre := range result.Genres {
		if err := txRepo.Contents.AttachGenre(ctx, content.ID, genre); err != nil {
			return domain.Content{}, err
		}
	}
	for _, credit := range result.Cast {
		tmdbID := credit.TMDBID
		err := txRepo.Contents.AddCastMember(ctx, content.ID, repository.CastParams{
			TMDBID:      &tmdbID,
			Name:        credit.Name,
			CharacterAs: credit.CharacterAs,
			PhotoURL:    credit.PhotoURL,
			Position:    credit.Order,
		})
		if err != nil {
			return domain.Content{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Content{}, err
	}
	return content, nil
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req contentUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	mediaType := domain.MediaType(req.MediaType)
	if strings.TrimSpace(req.Title) == "" || !mediaType.Valid() {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title and mediaType (movie or series) are required")
		return
	}

	content, err := s.repo.Contents.Update(r.Context(), contentID, repository.ContentUpdateParams{
		Title:       strings.TrimSpace(req.Title),
		Overview:    normalizeStringPtr(req.Overview),
		RuntimeMins: req.RuntimeMins,
		ReleaseYear: req.ReleaseYear,
		MediaType:   mediaType,
		PosterURL:   normalizeStringPtr(req.PosterURL),
		TrailerURL:  normalizeStringPtr(req.TrailerURL),
		Director:    normalizeStringPtr(req.Director),
	})
	if err != nil {
		s.respondServiceError(w, err, "update content error")
		return
	}
	s.respondJSON(w, http.StatusOK, toContentResponse(content))
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.repo.Contents.Delete(r.Context(), contentID); err != nil {
		s.respondServiceError(w, err, "delete content error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toContentResponse(content domain.Content) contentResponse {
	return contentResponse{
		ID:             content.ID,
		TMDBID:         content.TMDBID,
		Title:          content.Title,
		Overview:       content.Overview,
		RuntimeMins:    content.RuntimeMins,
		ReleaseYear:    content.ReleaseYear,
		MediaType:      string(content.MediaType),
		PosterURL:      content.PosterURL,
		TrailerURL:     content.TrailerURL,
		Director:       content.Director,
		ExternalRating: content.ExternalRating,
		UserRating:     content.UserRating,
		CreatedAt:      content.CreatedAt,
	}
}
