package services

import (
	"errors"
	"fmt"

	"github.com/vicharak/vicharak-api/internal/authz"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOwnerCannotCollaborate = errors.New("owner cannot be a collaborator")
	ErrCollaboratorExists     = errors.New("collaborator already exists")
	ErrCollaboratorNotFound   = errors.New("collaborator does not exist")
	ErrTargetUserNotFound     = errors.New("user not found")
)

// CollaboratorService manages the grants binding users and roles to vichars.
type CollaboratorService struct {
	collaboratorRepo repository.CollaboratorRepository
	vicharRepo       repository.VicharRepository
	roleRepo         repository.RoleRepository
	userRepo         repository.UserRepository
	resolver         *authz.Resolver
}

// NewCollaboratorService creates a new CollaboratorService
func NewCollaboratorService(
	collaboratorRepo repository.CollaboratorRepository,
	vicharRepo repository.VicharRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	resolver *authz.Resolver,
) *CollaboratorService {
	return &CollaboratorService{
		collaboratorRepo: collaboratorRepo,
		vicharRepo:       vicharRepo,
		roleRepo:         roleRepo,
		userRepo:         userRepo,
		resolver:         resolver,
	}
}

// AddCollaboratorInput represents input for granting a user access to a vichar
type AddCollaboratorInput struct {
	VicharID       uint64
	ActorID        uint64
	CollaboratorID uint64
	RoleID         uint64
}

// ListCollaborators returns the grants on a vichar. The owner and holders of
// VIEW_COLLABORATORS see the full list; any other actor related to the
// vichar gets an empty list rather than an error.
func (s *CollaboratorService) ListCollaborators(vicharID, actorID uint64) ([]models.Collaborator, error) {
	vichar, err := s.findActiveVichar(vicharID)
	if err != nil {
		return nil, err
	}

	related, err := s.resolver.IsRelated(actorID, vichar)
	if err != nil {
		return nil, err
	}
	if !related {
		return nil, ErrVicharNotFound
	}

	allowed, err := s.resolver.Can(actorID, vichar, models.PermissionViewCollaborators)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []models.Collaborator{}, nil
	}

	collaborators, err := s.collaboratorRepo.ListByVichar(vichar.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}

	return collaborators, nil
}

// AddCollaborator grants a role to a user on a vichar. The actor must be the
// owner or hold ADD_COLLABORATOR. The vichar's owner can never be granted a
// collaborator row, and at most one grant exists per (vichar, user) pair --
// enforced both by the pre-check and by the unique index underneath it.
func (s *CollaboratorService) AddCollaborator(input AddCollaboratorInput) (*models.Collaborator, error) {
	vichar, err := s.findActiveVichar(input.VicharID)
	if err != nil {
		return nil, err
	}

	if vichar.IsOwnedBy(input.CollaboratorID) {
		return nil, ErrOwnerCannotCollaborate
	}

	allowed, err := s.resolver.Can(input.ActorID, vichar, models.PermissionAddCollaborator)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrVicharPermissionDenied
	}

	if _, err := s.userRepo.FindByID(input.CollaboratorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	role, err := s.findRole(input.RoleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.collaboratorRepo.Find(vichar.ID, input.CollaboratorID); err == nil {
		return nil, ErrCollaboratorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check collaborator: %w", err)
	}

	collaborator := &models.Collaborator{
		VicharID:       vichar.ID,
		OwnerID:        vichar.UserID,
		CollaboratorID: input.CollaboratorID,
		RoleID:         &role.ID,
	}

	if err := s.collaboratorRepo.Create(collaborator); err != nil {
		// Concurrent adds racing past the pre-check land on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCollaboratorExists
		}
		return nil, fmt.Errorf("failed to add collaborator: %w", err)
	}

	return s.collaboratorRepo.Find(vichar.ID, input.CollaboratorID, "Collaborator", "Role")
}

// UpdateCollaboratorRole reassigns the role on an existing grant.
func (s *CollaboratorService) UpdateCollaboratorRole(vicharID, targetUserID, roleID uint64) (*models.Collaborator, error) {
	collaborator, err := s.collaboratorRepo.Find(vicharID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollaboratorNotFound
		}
		return nil, fmt.Errorf("failed to find collaborator: %w", err)
	}

	role, err := s.findRole(roleID)
	if err != nil {
		return nil, err
	}

	collaborator.RoleID = &role.ID
	if err := s.collaboratorRepo.Update(collaborator); err != nil {
		return nil, fmt.Errorf("failed to update collaborator: %w", err)
	}

	return s.collaboratorRepo.Find(vicharID, targetUserID, "Collaborator", "Role")
}

// RemoveCollaborator revokes a grant. The actor must be the owner or hold
// REMOVE_COLLABORATOR.
func (s *CollaboratorService) RemoveCollaborator(vicharID, actorID, targetUserID uint64) error {
	vichar, err := s.findActiveVichar(vicharID)
	if err != nil {
		return err
	}

	allowed, err := s.resolver.Can(actorID, vichar, models.PermissionRemoveCollaborator)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrVicharPermissionDenied
	}

	if _, err := s.collaboratorRepo.Find(vichar.ID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollaboratorNotFound
		}
		return fmt.Errorf("failed to find collaborator: %w", err)
	}

	if err := s.collaboratorRepo.Delete(vichar.ID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}

	return nil
}

func (s *CollaboratorService) findActiveVichar(vicharID uint64) (*models.Vichar, error) {
	vichar, err := s.vicharRepo.FindByID(vicharID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVicharNotFound
		}
		return nil, fmt.Errorf("failed to find vichar: %w", err)
	}
	if vichar.IsDeleted() {
		return nil, ErrVicharNotFound
	}
	return vichar, nil
}

func (s *CollaboratorService) findRole(roleID uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}
