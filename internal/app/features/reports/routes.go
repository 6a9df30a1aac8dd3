// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
)

// Routes mounts the pilot-facing report routes (typically under
// "/reports" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/categories", h.ServeCategories)
		pr.Get("/{id}", h.ServeReport)
		pr.Put("/{id}", h.HandleUpdate)
	})

	return r
}
