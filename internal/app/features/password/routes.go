// internal/app/features/password/routes.go
package password

import (
	"github.com/go-chi/chi/v5"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
)

// Routes mounts the password change endpoint.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.HandleChange)
	})
	return r
}
