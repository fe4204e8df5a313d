package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskkeeper/internal/common"
	"taskkeeper/internal/server/models"
	"taskkeeper/internal/server/services"
)

// maxAvatarSize caps avatar uploads at 1 MB.
const maxAvatarSize = 1_000_000

// userResponse is the only externally visible user representation. Password
// hash, session tokens, and avatar bytes never appear here.
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int64     `json:"age"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Age      int64  `json:"age"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, token, err := s.users.Register(r.Context(), services.RegisterParams{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	if err := s.users.Logout(r.Context(), user.ID, requestToken(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	if err := s.users.LogoutAll(r.Context(), user.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleGetSelf(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toUserResponse(requestUser(r)))
}

func (s *Server) handleUpdateSelf(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, err := s.users.UpdateSelf(r.Context(), requestUser(r), fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteSelf(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	if err := s.users.DeleteSelf(r.Context(), user); err != nil {
		respondServiceError(w, err)
		return
	}

	// The account is gone; losing the orphaned avatar object is acceptable.
	if err := s.avatars.Delete(r.Context(), user.ID); err != nil {
		s.logger.Warn(r.Context(), "failed to delete avatar", "user_id", user.ID, "error", err.Error())
	}

	s.logger.Info(r.Context(), "user deleted", "user_id", user.ID)
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" {
		respondError(w, http.StatusBadRequest, "please upload an image (.jpg, .jpeg or .png)")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "avatar must be at most 1MB")
		return
	}

	if err := s.avatars.Upload(r.Context(), requestUser(r).ID, data, contentType); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := s.avatars.Delete(r.Context(), requestUser(r).ID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	data, contentType, err := s.avatars.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondServiceError(w, err)
		return
	}

	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
