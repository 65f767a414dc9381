package httpserver

import (
	"errors"
	"net/http"

	"github.com/cinelog/cinelog/internal/repository"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	contents, err := s.repo.Favorites.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Printf("list favorites error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list favorites")
		return
	}

	items := make([]contentResponse, 0, len(contents))
	for _, content := range contents {
		items = append(items, toContentResponse(content))
	}
	s.respondJSON(w, http.StatusOK, contentListResponse{Items: items})
}

type favoriteStateResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	isFavorite, err := s.repo.Favorites.Exists(r.Context(), identity.UserID, contentID)
	if err != nil {
		s.logger.Printf("check favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check favorite")
		return
	}
	s.respondJSON(w, http.StatusOK, favoriteStateResponse{IsFavorite: isFavorite})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	exists, err := s.repo.Contents.Exists(r.Context(), contentID)
	if err != nil {
		s.logger.Printf("check content error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add favorite")
		return
	}
	if !exists {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	if err := s.repo.Favorites.Add(r.Context(), identity.UserID, contentID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "already a favorite")
			return
		}
		s.logger.Printf("add favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	if err := s.repo.Favorites.Remove(r.Context(), identity.UserID, contentID); err != nil {
		s.logger.Printf("remove favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
