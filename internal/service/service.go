package service

import (
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/repository"
)

// Actor is the authenticated identity a handler extracted from the access
// token. Core operations take it explicitly, never from ambient state.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

// Viewer converts an optional actor into a repository visibility scope.
func (a *Actor) Viewer() *repository.Viewer {
	if a == nil {
		return nil
	}
	return &repository.Viewer{UserID: a.UserID, Role: a.Role}
}

// roleOf treats anonymous callers as readers for permission purposes.
func roleOf(a *Actor) models.Role {
	if a == nil {
		return models.RoleReader
	}
	return a.Role
}
