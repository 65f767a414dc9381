package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/domain"
	"github.com/cinelog/cinelog/internal/repository"
)

type registerRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"displayName"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
	Password    *string `json:"password"`
}

type userResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "username, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  normalizeStringPtr(req.DisplayName),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "username or email already taken")
			return
		}
		s.logger.Printf("create user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, IsAdmin: user.IsAdmin})
	if err != nil {
		s.logger.Printf("issue token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	s.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "login and password are required")
		return
	}

	user, err := s.repo.Users.GetByLogin(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
			return
		}
		s.logger.Printf("login lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, IsAdmin: user.IsAdmin})
	if err != nil {
		s.logger.Printf("issue token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	user, err := s.repo.Users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		s.respondServiceError(w, err, "fetch profile error")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req profileUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email is required")
		return
	}

	var hash *string
	if req.Password != nil {
		if len(*req.Password) < 6 {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "password must be at least 6 characters")
			return
		}
		hashed, err := auth.HashPassword(*req.Password, s.cfg.BcryptCost)
		if err != nil {
			s.logger.Printf("hash password error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update profile")
			return
		}
		hash = &hashed
	}

	err := s.repo.Users.UpdateProfile(r.Context(), identity.UserID, repository.UserUpdateParams{
		Email:        req.Email,
		DisplayName:  normalizeStringPtr(req.DisplayName),
		PasswordHash: hash,
	})
	if err != nil {
		s.respondServiceError(w, err, "update profile error")
		return
	}

	user, err := s.repo.Users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		s.respondServiceError(w, err, "fetch profile error")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
	}
}

func normalizeStringPtr(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	val := strings.TrimSpace(*ptr)
	if val == "" {
		return nil
	}
	return &val
}
