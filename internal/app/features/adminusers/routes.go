// internal/app/features/adminusers/routes.go
package adminusers

import (
	"github.com/go-chi/chi/v5"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// Routes mounts the account administration routes (typically under
// "/admin/users" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSystemAdmin))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
