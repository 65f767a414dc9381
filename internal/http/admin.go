package httpserver

import (
	"net/http"
	"strings"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/repository"
)

type adminUserUpdateRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
	IsAdmin     bool    `json:"isAdmin"`
	Password    *string `json:"password"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.Users.List(r.Context())
	if err != nil {
		s.logger.Printf("list users error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	s.respondJSON(w, http.StatusOK, userListResponse{Items: items})
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req adminUserUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "username and email are required")
		return
	}

	var hash *string
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password, s.cfg.BcryptCost)
		if err != nil {
			s.logger.Printf("hash password error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user")
			return
		}
		hash = &hashed
	}

	err = s.repo.Users.AdminUpdate(r.Context(), userID, repository.AdminUpdateParams{
		Username:     req.Username,
		Email:        req.Email,
		DisplayName:  normalizeStringPtr(req.DisplayName),
		IsAdmin:      req.IsAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		s.respondServiceError(w, err, "admin update user error")
		return
	}

	user, err := s.repo.Users.GetByID(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, err, "fetch user error")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

// handleAdminDeleteUser removes an account. Administrators cannot delete
// themselves.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())
	if userID == identity.UserID {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "cannot delete your own account")
		return
	}

	if err := s.repo.Users.Delete(r.Context(), userID); err != nil {
		s.respondServiceError(w, err, "admin delete user error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviews.ListAll(r.Context())
	if err != nil {
		s.logger.Printf("admin list reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}

	items := make([]authorReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toAuthorReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, authorReviewListResponse{Items: items})
}

func (s *Server) handleAdminModerateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if err := s.reviews.Moderate(r.Context(), reviewID, req.Score, normalizeStringPtr(req.Comment)); err != nil {
		s.respondServiceError(w, err, "moderate review error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminRecomputeRating re-derives one content's user rating from its
// review set. Repair endpoint; normal mutations keep the rating current.
func (s *Server) handleAdminRecomputeRating(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.reviews.RecomputeRating(r.Context(), contentID); err != nil {
		s.respondServiceError(w, err, "recompute rating error")
		return
	}

	content, err := s.repo.Contents.GetByID(r.Context(), contentID)
	if err != nil {
		s.respondServiceError(w, err, "fetch content error")
		return
	}
	s.respondJSON(w, http.StatusOK, toContentResponse(content))
}
