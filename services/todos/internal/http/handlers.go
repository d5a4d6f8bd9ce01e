package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	sharedlogger "github.com/sun1tar/tech-ip-sem2/shared/logger"
	"github.com/sun1tar/tech-ip-sem2/shared/middleware"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/service"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/validation"
)

const (
	maxBodyBytes = 1 << 20

	msgNotFound = "To-Do item not found"
	msgDeleted  = "To-Do item deleted"
	msgReorder  = "To-Do order updated"
)

type TodoHandler struct {
	todoService *service.TodoService
	validator   *validation.Validator
	logger      *logrus.Logger
}

func NewTodoHandler(ts *service.TodoService, v *validation.Validator, logger *logrus.Logger) *TodoHandler {
	if logger == nil {
		logger = sharedlogger.Default()
	}
	return &TodoHandler{
		todoService: ts,
		validator:   v,
		logger:      logger,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

func (h *TodoHandler) entry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError переводит ошибку слоя сервиса в HTTP-ответ
func writeError(w http.ResponseWriter, logEntry *logrus.Entry, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		logEntry.WithError(err).Warn("invalid request")
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: verr.Violations})
	case errors.Is(err, service.ErrNotFound):
		logEntry.Warn("todo not found")
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: msgNotFound})
	default:
		logEntry.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

// pathID разбирает {id} из пути; нечисловой id - ошибка валидации
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.NewError("path/id", "value is not a valid integer")
	}
	return id, nil
}

// ListTodos обрабатывает GET /todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ListTodos")

	items, err := h.todoService.List(r.Context())
	if err != nil {
		writeError(w, logEntry, err)
		return
	}

	logEntry.WithField("count", len(items)).Debug("todos listed")
	writeJSON(w, http.StatusOK, items)
}

// GetTodo обрабатывает GET /todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "GetTodo")

	id, err := pathID(r)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}
	logEntry = logEntry.WithField("todo_id", id)

	item, err := h.todoService.Get(r.Context(), id)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateTodo обрабатывает POST /todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "CreateTodo")

	item, err := h.validator.DecodeItem(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, logEntry, err)
		return
	}

	created, err := h.todoService.Create(r.Context(), item)
	if err != nil {
		writeError(w, logEntry.WithField("todo_id", item.ID), err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// UpdateTodo обрабатывает PUT /todos/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "UpdateTodo")

	id, err := pathID(r)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}
	logEntry = logEntry.WithField("todo_id", id)

	item, err := h.validator.DecodeItem(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, logEntry, err)
		return
	}

	updated, err := h.todoService.Update(r.Context(), id, item)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ToggleTodo обрабатывает PUT /todos/{id}/toggle
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ToggleTodo")

	id, err := pathID(r)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}
	logEntry = logEntry.WithField("todo_id", id)

	item, err := h.todoService.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteTodo обрабатывает DELETE /todos/{id}; отсутствующий id не ошибка
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "DeleteTodo")

	id, err := pathID(r)
	if err != nil {
		writeError(w, logEntry, err)
		return
	}

	if err := h.todoService.Delete(r.Context(), id); err != nil {
		writeError(w, logEntry.WithField("todo_id", id), err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
}

// ReorderTodos обрабатывает PUT /todos/reorder
func (h *TodoHandler) ReorderTodos(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ReorderTodos")

	items, err := h.validator.DecodeList(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, logEntry, err)
		return
	}

	if err := h.todoService.Reorder(r.Context(), items); err != nil {
		writeError(w, logEntry, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgReorder})
}
