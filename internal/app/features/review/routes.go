// internal/app/features/review/routes.go
package review

import (
	"github.com/go-chi/chi/v5"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// Routes mounts the review routes (typically under "/review" from
// bootstrap). The map feed is open to any signed-in user; everything
// else needs the registry administrator role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/map", h.ServeMap)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleRegistryAdmin))

		pr.Get("/dashboard", h.ServeDashboard)
		pr.Get("/{id}", h.ServeReport)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
		pr.Post("/{id}/pending", h.HandlePending)
		pr.Post("/{id}/assign", h.HandleAssign)
	})

	return r
}
