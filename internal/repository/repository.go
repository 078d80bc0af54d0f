package repository

import (
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
)

// Viewer identifies the authenticated caller for visibility scoping.
// A nil *Viewer means an anonymous request.
type Viewer struct {
	UserID uuid.UUID
	Role   models.Role
}

// IsAdmin reports whether the viewer holds the admin role.
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == models.RoleAdmin
}
