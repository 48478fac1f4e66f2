// internal/transport/http/handler.go
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/H0guera/task-tracker/internal/response"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	"github.com/H0guera/task-tracker/internal/usecase"
	"github.com/H0guera/task-tracker/pkg/logger"
)

type Handler struct {
	uc  usecase.Handler
	log *logger.Logger
}

func NewHandler(uc usecase.Handler, log *logger.Logger) *Handler {
	return &Handler{uc: uc, log: log.Named("http")}
}

// ===== auth =====

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Username string `json:"username"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	user, err := h.uc.Register.Handle(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			response.BadRequest(w, "REGISTER_USER_ALREADY_EXISTS")
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.BadRequest(w, "REGISTER_INVALID_INPUT")
		default:
			response.InternalError(w, "registration failed")
		}
		return
	}

	response.Created(w, registerResponse{Username: user.Username})
}

// Login принимает form-encoded поля username и password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	pair, err := h.uc.Login.Handle(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.BadRequest(w, "LOGIN_BAD_CREDENTIALS")
			return
		}
		response.InternalError(w, "login failed")
		return
	}

	response.JSON(w, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	})
}

// Refresh принимает refresh-токен в заголовке Authorization
// и возвращает только новый access-токен: refresh не ротируется.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		response.Forbidden(w, "Not authenticated")
		return
	}

	access, err := h.uc.Refresh.Handle(r.Context(), token)
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthorized) {
			response.Unauthorized(w, "invalid token")
			return
		}
		response.InternalError(w, "refresh failed")
		return
	}

	response.JSON(w, tokenResponse{AccessToken: access, TokenType: "Bearer"})
}

// ===== tasks =====

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type taskPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type taskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      string `json:"user_id"`
}

func toTaskResponse(t *postgres.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.UserID,
	}
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Not authenticated")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	status, err := postgres.ParseTaskStatus(req.Status)
	if err != nil {
		response.BadRequest(w, "invalid status")
		return
	}

	task, err := h.uc.Tasks.Create(r.Context(), user, usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
	})
	if err != nil {
		response.InternalError(w, "create task failed")
		return
	}

	response.Created(w, toTaskResponse(task))
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var status *postgres.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := postgres.ParseTaskStatus(raw)
		if err != nil {
			response.BadRequest(w, "invalid status")
			return
		}
		status = &s
	}

	tasks, err := h.uc.Tasks.List(r.Context(), status)
	if err != nil {
		response.InternalError(w, "list tasks failed")
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	response.JSON(w, out)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Not authenticated")
		return
	}

	task, err := h.uc.Tasks.Get(r.Context(), user, chi.URLParam(r, "taskID"))
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	response.JSON(w, toTaskResponse(task))
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Not authenticated")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	status, err := postgres.ParseTaskStatus(req.Status)
	if err != nil {
		response.BadRequest(w, "invalid status")
		return
	}

	task, err := h.uc.Tasks.Update(r.Context(), user, chi.URLParam(r, "taskID"), usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
	})
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	response.JSON(w, toTaskResponse(task))
}

func (h *Handler) PatchTask(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Not authenticated")
		return
	}

	var req taskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	patch := usecase.TaskPatch{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		status, err := postgres.ParseTaskStatus(*req.Status)
		if err != nil {
			response.BadRequest(w, "invalid status")
			return
		}
		patch.Status = &status
	}

	task, err := h.uc.Tasks.UpdatePartial(r.Context(), user, chi.URLParam(r, "taskID"), patch)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	response.JSON(w, toTaskResponse(task))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Not authenticated")
		return
	}

	if err := h.uc.Tasks.Delete(r.Context(), user, chi.URLParam(r, "taskID")); err != nil {
		h.writeTaskError(w, err)
		return
	}
	response.NoContent(w)
}

// writeTaskError переводит ошибки usecase в HTTP-ответ.
// Чужая и несуществующая задача одинаково дают 403.
func (h *Handler) writeTaskError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrForbidden) {
		response.Forbidden(w, "forbidden")
		return
	}
	response.InternalError(w, "task operation failed")
}
