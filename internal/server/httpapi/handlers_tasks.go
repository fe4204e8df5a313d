package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"taskkeeper/internal/server/models"
	"taskkeeper/internal/server/services"
)

type taskResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	// The owner never comes from the body; it is always the acting user.
	var req struct {
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	task, err := s.tasks.Create(r.Context(), requestUser(r).ID, req.Description, req.Completed)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTaskResponse(task))
}

// handleListTasks serves GET /tasks?completed=true&sortBy=createdAt:desc&limit=10&skip=20.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := services.TaskListParams{}

	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		params.Completed = &completed
	}

	if v := q.Get("sortBy"); v != "" {
		field, direction, _ := strings.Cut(v, ":")
		params.SortField = field
		params.SortDesc = direction == "desc"
	}

	if v := q.Get("limit"); v != "" {
		params.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("skip"); v != "" {
		params.Skip, _ = strconv.Atoi(v)
	}

	list, err := s.tasks.List(r.Context(), requestUser(r).ID, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result := make([]taskResponse, 0, len(list))
	for _, t := range list {
		result = append(result, toTaskResponse(t))
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), requestUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	task, err := s.tasks.Update(r.Context(), requestUser(r).ID, chi.URLParam(r, "id"), fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), requestUser(r).ID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}
