// internal/transport/http/routes.go
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *Middleware) http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(mw.JWTMiddleware)

		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks", h.ListTasks)
		r.Get("/tasks/{taskID}", h.GetTask)
		r.Put("/tasks/{taskID}", h.UpdateTask)
		r.Patch("/tasks/{taskID}", h.PatchTask)
		r.Delete("/tasks/{taskID}", h.DeleteTask)
	})

	return r
}
