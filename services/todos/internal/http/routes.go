package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sun1tar/tech-ip-sem2/shared/middleware"
	customMiddleware "github.com/sun1tar/tech-ip-sem2/services/todos/internal/middleware"
)

// methodNotAllowed отвечает 405, когда путь найден, а метод нет
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
}

// NewRouter собирает таблицу маршрутов и цепочку middleware
func NewRouter(todos *TodoHandler, static *StaticHandler, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()

	// /todos/reorder регистрируется раньше /todos/{id}
	router.HandleFunc("/todos", todos.ListTodos).Methods(http.MethodGet)
	router.HandleFunc("/todos", todos.CreateTodo).Methods(http.MethodPost)
	router.HandleFunc("/todos/reorder", todos.ReorderTodos).Methods(http.MethodPut)
	router.HandleFunc("/todos/{id}", todos.GetTodo).Methods(http.MethodGet)
	router.HandleFunc("/todos/{id}", todos.UpdateTodo).Methods(http.MethodPut)
	router.HandleFunc("/todos/{id}", todos.DeleteTodo).Methods(http.MethodDelete)
	router.HandleFunc("/todos/{id}/toggle", todos.ToggleTodo).Methods(http.MethodPut)
	router.HandleFunc("/", static.Index).Methods(http.MethodGet)
	router.HandleFunc("/favicon.ico", static.Favicon).Methods(http.MethodGet)
	router.Handle("/metrics", customMiddleware.MetricsHandler()).Methods(http.MethodGet)

	router.Use(customMiddleware.MetricsMiddleware)
	router.NotFoundHandler = customMiddleware.MetricsMiddleware(http.NotFoundHandler())
	router.MethodNotAllowedHandler = customMiddleware.MetricsMiddleware(http.HandlerFunc(methodNotAllowed))

	// Цепочка middleware: request-id снаружи, чтобы его видел логгер
	var handler http.Handler = router
	handler = customMiddleware.SecurityHeadersMiddleware(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	return handler
}
