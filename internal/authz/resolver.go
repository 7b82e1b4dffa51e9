// Package authz holds the single authorization decision point for vichars.
// Every guarded operation resolves through Can; no call site repeats the
// owner-or-permission check on its own.
package authz

import (
	"errors"
	"fmt"

	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/repository"
	"gorm.io/gorm"
)

// Resolver decides whether an actor may perform an operation on a vichar.
type Resolver struct {
	collaboratorRepo repository.CollaboratorRepository
}

// NewResolver creates a new Resolver.
func NewResolver(collaboratorRepo repository.CollaboratorRepository) *Resolver {
	return &Resolver{
		collaboratorRepo: collaboratorRepo,
	}
}

// Can reports whether the actor holds the given permission on the vichar.
//
// The owner passes every check, including permissions outside the known
// enumeration. Otherwise the actor must hold a collaborator grant on the
// vichar whose role's permission set contains the permission exactly.
// A grant without a role confers nothing. Decisions are resolved fresh on
// every call; there is no caching.
func (r *Resolver) Can(actorID uint64, vichar *models.Vichar, permission models.Permission) (bool, error) {
	if vichar.IsOwnedBy(actorID) {
		return true, nil
	}

	collaborator, err := r.collaboratorRepo.Find(vichar.ID, actorID, "Role")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve collaborator: %w", err)
	}

	if collaborator.Role == nil {
		return false, nil
	}

	return collaborator.Role.Permissions.Contains(permission), nil
}

// IsRelated reports whether the actor is the owner of or a collaborator on
// the vichar, regardless of permissions. Used for visibility decisions.
func (r *Resolver) IsRelated(actorID uint64, vichar *models.Vichar) (bool, error) {
	if vichar.IsOwnedBy(actorID) {
		return true, nil
	}

	if _, err := r.collaboratorRepo.Find(vichar.ID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve collaborator: %w", err)
	}

	return true, nil
}
