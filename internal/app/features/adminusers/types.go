// internal/app/features/adminusers/types.go
package adminusers

import (
	"time"

	"github.com/skarland/obstaclehub/internal/domain/models"
)

type createRequest struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
}

type createResponse struct {
	User         userRow `json:"user"`
	TempPassword string  `json:"temp_password"`
}

type userRow struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Organization       string    `json:"organization"`
	Roles              []string  `json:"roles"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
}

func rowFor(u *models.UserAccount) userRow {
	return userRow{
		ID:                 u.ID.Hex(),
		Email:              u.Email,
		FullName:           u.FullName,
		Organization:       u.Organization,
		Roles:              u.Roles,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
	}
}
