package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cinelog/cinelog/internal/domain"
	"github.com/cinelog/cinelog/internal/repository"
)

type listRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type listItemRequest struct {
	ContentID int64 `json:"contentId"`
}

type listResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type listDetailResponse struct {
	listResponse
	Items []contentResponse `json:"items"`
}

type listCollectionResponse struct {
	Items []listResponse `json:"items"`
}

// ownedList resolves a list and verifies the caller owns it. Missing and
// foreign lists are indistinguishable to the caller.
func (s *Server) ownedList(w http.ResponseWriter, r *http.Request) (domain.List, bool) {
	listID, err := idParam(r, "listID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return domain.List{}, false
	}
	identity, _ := identityFrom(r.Context())

	list, err := s.repo.Lists.Get(r.Context(), listID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return domain.List{}, false
		}
		s.logger.Printf("fetch list error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch list")
		return domain.List{}, false
	}
	if list.OwnerID != identity.UserID {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return domain.List{}, false
	}
	return list, true
}

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	lists, err := s.repo.Lists.ListForOwner(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Printf("list lists error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list lists")
		return
	}

	items := make([]listResponse, 0, len(lists))
	for _, list := range lists {
		items = append(items, toListResponse(list))
	}
	s.respondJSON(w, http.StatusOK, listCollectionResponse{Items: items})
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req listRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	list, err := s.repo.Lists.Create(r.Context(), repository.ListCreateParams{
		OwnerID:     identity.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: normalizeStringPtr(req.Description),
	})
	if err != nil {
		s.logger.Printf("create list error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create list")
		return
	}
	s.respondJSON(w, http.StatusCreated, toListResponse(list))
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, ok := s.ownedList(w, r)
	if !ok {
		return
	}

	contents, err := s.repo.Lists.Items(r.Context(), list.ID)
	if err != nil {
		s.logger.Printf("fetch list items error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch list")
		return
	}

	resp := listDetailResponse{
		listResponse: toListResponse(list),
		Items:        make([]contentResponse, 0, len(contents)),
	}
	for _, content := range contents {
		resp.Items = append(resp.Items, toContentResponse(content))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	list, ok := s.ownedList(w, r)
	if !ok {
		return
	}

	var req listRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	if err := s.repo.Lists.Update(r.Context(), list.ID, strings.TrimSpace(req.Name), normalizeStringPtr(req.Description)); err != nil {
		s.respondServiceError(w, err, "update list error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	list, ok := s.ownedList(w, r)
	if !ok {
		return
	}

	if err := s.repo.Lists.Delete(r.Context(), list.ID); err != nil {
		s.respondServiceError(w, err, "delete list error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddListItem(w http.ResponseWriter, r *http.Request) {
	list, ok := s.ownedList(w, r)
	if !ok {
		return
	}

	var req listItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.ContentID <= 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "contentId is required")
		return
	}

	exists, err := s.repo.Contents.Exists(r.Context(), req.ContentID)
	if err != nil {
		s.logger.Printf("check content error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add list item")
		return
	}
	if !exists {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	if err := s.repo.Lists.AddItem(r.Context(), list.ID, req.ContentID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "content already in list")
			return
		}
		s.logger.Printf("add list item error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add list item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveListItem(w http.ResponseWriter, r *http.Request) {
	list, ok := s.ownedList(w, r)
	if !ok {
		return
	}
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.repo.Lists.RemoveItem(r.Context(), list.ID, contentID); err != nil {
		s.logger.Printf("remove list item error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove list item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toListResponse(list domain.List) listResponse {
	return listResponse{
		ID:          list.ID,
		Name:        list.Name,
		Description: list.Description,
		ItemCount:   list.ItemCount,
		CreatedAt:   list.CreatedAt,
	}
}
