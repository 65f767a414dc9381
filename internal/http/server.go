package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/repository"
	"github.com/cinelog/cinelog/internal/service"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/tmdb"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	reviews *service.ReviewService
	votes   *service.VoteService
	tokens  *auth.TokenManager
	tmdb    tmdb.Client
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, reviews *service.ReviewService, votes *service.VoteService, tokens *auth.TokenManager, tmdbClient tmdb.Client, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		repo:    repo,
		reviews: reviews,
		votes:   votes,
		tokens:  tokens,
		tmdb:    tmdbClient,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleMe)
				r.Put("/me", s.handleUpdateProfile)
			})
		})

		r.Route("/contents", func(r chi.Router) {
			r.Get("/", s.handleListContents)
			r.Get("/{contentID}", s.handleGetContent)
			r.Get("/{contentID}/reviews", s.handleListContentReviews)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/{contentID}/reviews", s.handleSubmitReview)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Post("/", s.handleCreateContent)
				r.Post("/tmdb/import", s.handleImportContent)
				r.Get("/tmdb/check/{tmdbID}", s.handleCheckTMDB)
				r.Put("/{contentID}", s.handleUpdateContent)
				r.Delete("/{contentID}", s.handleDeleteContent)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/mine", s.handleListMyReviews)
			r.Get("/user/{userID}", s.handleListUserReviews)
			r.Delete("/{reviewID}", s.handleDeleteReview)
			r.Post("/{reviewID}/vote", s.handleToggleVote)
			r.Get("/{reviewID}/vote", s.handleGetVote)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListFavorites)
			r.Get("/{contentID}", s.handleCheckFavorite)
			r.Post("/{contentID}", s.handleAddFavorite)
			r.Delete("/{contentID}", s.handleRemoveFavorite)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListLists)
			r.Post("/", s.handleCreateList)
			r.Get("/{listID}", s.handleGetList)
			r.Put("/{listID}", s.handleUpdateList)
			r.Delete("/{listID}", s.handleDeleteList)
			r.Post("/{listID}/items", s.handleAddListItem)
			r.Delete("/{listID}/items/{contentID}", s.handleRemoveListItem)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Get("/users", s.handleAdminListUsers)
			r.Put("/users/{userID}", s.handleAdminUpdateUser)
			r.Delete("/users/{userID}", s.handleAdminDeleteUser)
			r.Get("/reviews", s.handleAdminListReviews)
			r.Put("/reviews/{reviewID}", s.handleAdminModerateReview)
			r.Post("/contents/{contentID}/recompute-rating", s.handleAdminRecomputeRating)
		})
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
