package httpserver

import (
	"net/http"
	"time"

	"github.com/cinelog/cinelog/internal/domain"
	"github.com/cinelog/cinelog/internal/service"
)

type reviewRequest struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment"`
}

type reviewResponse struct {
	ID             int64     `json:"id"`
	ContentID      int64     `json:"contentId"`
	AuthorID       int64     `json:"authorId"`
	AuthorUsername string    `json:"authorUsername,omitempty"`
	AuthorName     *string   `json:"authorName,omitempty"`
	Score          int       `json:"score"`
	Comment        *string   `json:"comment,omitempty"`
	UsefulVotes    int       `json:"usefulVotes"`
	CreatedAt      time.Time `json:"createdAt"`
}

type authorReviewResponse struct {
	reviewResponse
	ContentTitle     string  `json:"contentTitle"`
	ContentMediaType string  `json:"contentMediaType"`
	ContentPosterURL *string `json:"contentPosterUrl,omitempty"`
	ContentYear      *int    `json:"contentYear,omitempty"`
}

type reviewListResponse struct {
	Items []reviewResponse `json:"items"`
}

type authorReviewListResponse struct {
	Items []authorReviewResponse `json:"items"`
}

// toggleVoteResponse always carries the counter; a toggle-off that lands on
// zero still reports usefulVotes:0.
type toggleVoteResponse struct {
	Voted       bool `json:"voted"`
	UsefulVotes int  `json:"usefulVotes"`
}

type voteStateResponse struct {
	Voted bool `json:"voted"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	result, err := s.reviews.Submit(r.Context(), contentID, identity.UserID, req.Score, normalizeStringPtr(req.Comment))
	if err != nil {
		s.respondServiceError(w, err, "submit review error")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, toReviewResponse(result.Review))
}

func (s *Server) handleListContentReviews(w http.ResponseWriter, r *http.Request) {
	contentID, err := idParam(r, "contentID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	reviews, err := s.reviews.ListForContent(r.Context(), contentID)
	if err != nil {
		s.logger.Printf("list reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, reviewListResponse{Items: items})
}

func (s *Server) handleListMyReviews(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	caller := service.Caller{UserID: identity.UserID, IsAdmin: identity.IsAdmin}

	reviews, err := s.reviews.ListForAuthor(r.Context(), identity.UserID, caller)
	if err != nil {
		s.respondServiceError(w, err, "list own reviews error")
		return
	}

	items := make([]authorReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toAuthorReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, authorReviewListResponse{Items: items})
}

// handleListUserReviews exposes one author's reviews to that author or an
// administrator.
func (s *Server) handleListUserReviews(w http.ResponseWriter, r *http.Request) {
	authorID, err := idParam(r, "userID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	reviews, err := s.reviews.ListForAuthor(r.Context(), authorID, service.Caller{UserID: identity.UserID, IsAdmin: identity.IsAdmin})
	if err != nil {
		s.respondServiceError(w, err, "list user reviews error")
		return
	}

	items := make([]authorReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toAuthorReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, authorReviewListResponse{Items: items})
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	err = s.reviews.Delete(r.Context(), reviewID, service.Caller{UserID: identity.UserID, IsAdmin: identity.IsAdmin})
	if err != nil {
		s.respondServiceError(w, err, "delete review error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleVote(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	result, err := s.votes.Toggle(r.Context(), reviewID, identity.UserID)
	if err != nil {
		s.respondServiceError(w, err, "toggle vote error")
		return
	}
	s.respondJSON(w, http.StatusOK, toggleVoteResponse{Voted: result.Voted, UsefulVotes: result.UsefulVotes})
}

func (s *Server) handleGetVote(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	identity, _ := identityFrom(r.Context())

	voted, err := s.votes.HasVoted(r.Context(), reviewID, identity.UserID)
	if err != nil {
		s.respondServiceError(w, err, "fetch vote state error")
		return
	}
	s.respondJSON(w, http.StatusOK, voteStateResponse{Voted: voted})
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:             review.ID,
		ContentID:      review.ContentID,
		AuthorID:       review.AuthorID,
		AuthorUsername: review.AuthorUsername,
		AuthorName:     review.AuthorName,
		Score:          review.Score,
		Comment:        review.Comment,
		UsefulVotes:    review.UsefulVotes,
		CreatedAt:      review.CreatedAt,
	}
}

func toAuthorReviewResponse(review domain.AuthorReview) authorReviewResponse {
	return authorReviewResponse{
		reviewResponse:   toReviewResponse(review.Review),
		ContentTitle:     review.ContentTitle,
		ContentMediaType: string(review.ContentMediaType),
		ContentPosterURL: review.ContentPosterURL,
		ContentYear:      review.ContentYear,
	}
}
