// Package httpapi exposes the service operations over a REST-style HTTP API.
// It is a thin layer: request decoding, bearer-token extraction, and status
// mapping; every decision is made by the services it wraps.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"taskkeeper/internal/logging"
	"taskkeeper/internal/server/models"
	"taskkeeper/internal/server/services"
)

// UserAPI is the slice of UserService the handlers consume.
type UserAPI interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Authenticate(ctx context.Context, rawToken string) (*models.User, string, error)
	Logout(ctx context.Context, userID, token string) error
	LogoutAll(ctx context.Context, userID string) error
	UpdateSelf(ctx context.Context, user *models.User, fields map[string]any) (*models.User, error)
	DeleteSelf(ctx context.Context, user *models.User) error
}

// TaskAPI is the slice of TaskService the handlers consume.
type TaskAPI interface {
	Create(ctx context.Context, ownerID string, description string, completed bool) (*models.Task, error)
	Get(ctx context.Context, ownerID string, id string) (*models.Task, error)
	List(ctx context.Context, ownerID string, p services.TaskListParams) ([]*models.Task, error)
	Update(ctx context.Context, ownerID string, id string, fields map[string]any) (*models.Task, error)
	Delete(ctx context.Context, ownerID string, id string) error
}

// AvatarAPI is the slice of AvatarService the handlers consume.
type AvatarAPI interface {
	Upload(ctx context.Context, userID string, data []byte, contentType string) error
	Get(ctx context.Context, userID string) ([]byte, string, error)
	Delete(ctx context.Context, userID string) error
}

// Server serves the public HTTP endpoint.
type Server struct {
	address        string
	logger         logging.Logger
	users          UserAPI
	tasks          TaskAPI
	avatars        AvatarAPI
	allowedOrigins []string
}

// NewServer wires handlers to their services.
func NewServer(address string, l logging.Logger, us UserAPI, ts TaskAPI, as AvatarAPI, allowedOrigins []string) *Server {
	return &Server{
		address:        address,
		logger:         l.With("module", "http_server"),
		users:          us,
		tasks:          ts,
		avatars:        as,
		allowedOrigins: allowedOrigins,
	}
}

// Routes constructs the chi router containing all API endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public routes.
	r.Post("/users", s.handleRegister)
	r.Post("/users/login", s.handleLogin)
	r.Get("/users/{id}/avatar", s.handleGetAvatar)

	// Protected routes.
	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)

		r.Post("/users/logout", s.handleLogout)
		r.Post("/users/logoutAll", s.handleLogoutAll)
		r.Get("/users/me", s.handleGetSelf)
		r.Patch("/users/me", s.handleUpdateSelf)
		r.Delete("/users/me", s.handleDeleteSelf)
		r.Post("/users/me/avatar", s.handleUploadAvatar)
		r.Delete("/users/me/avatar", s.handleDeleteAvatar)

		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleCreateTask)
		r.Get("/tasks/{id}", s.handleGetTask)
		r.Patch("/tasks/{id}", s.handleUpdateTask)
		r.Delete("/tasks/{id}", s.handleDeleteTask)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
