package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vicharak/vicharak-api/internal/authz"
	"github.com/vicharak/vicharak-api/internal/constants"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrVicharNotFound         = errors.New("vichar not found")
	ErrVicharPermissionDenied = errors.New("you do not have permission to perform this action on the vichar")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleTooLong           = errors.New("title cannot exceed 50 characters")
	ErrBodyRequired           = errors.New("body is required")
)

// VicharService governs the vichar lifecycle: creation, edits, the
// soft-delete state machine (active -> deleted -> restored or purged) and
// the listings derived from it. Every guarded transition goes through the
// authz resolver.
type VicharService struct {
	vicharRepo repository.VicharRepository
	resolver   *authz.Resolver
}

// NewVicharService creates a new VicharService
func NewVicharService(vicharRepo repository.VicharRepository, resolver *authz.Resolver) *VicharService {
	return &VicharService{
		vicharRepo: vicharRepo,
		resolver:   resolver,
	}
}

// CreateVicharInput represents input for creating a vichar
type CreateVicharInput struct {
	Title  string
	Body   string
	UserID uint64
}

// UpdateVicharInput represents a partial update to a vichar
type UpdateVicharInput struct {
	Title *string
	Body  *string
}

// ListVicharsInput represents filters for listing vichars
type ListVicharsInput struct {
	UserID      uint64
	TitleSearch string
	Page        int
	PageSize    int
}

// CreateVichar creates a new vichar owned by the actor. Any authenticated
// user may create; no permission check applies.
func (s *VicharService) CreateVichar(input CreateVicharInput) (*models.Vichar, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrBodyRequired
	}

	vichar := &models.Vichar{
		Title:  title,
		Body:   input.Body,
		UserID: input.UserID,
	}

	if err := s.vicharRepo.Create(vichar); err != nil {
		return nil, fmt.Errorf("failed to create vichar: %w", err)
	}

	return vichar, nil
}

// GetVichar returns an active vichar visible to the actor. Soft-deleted
// vichars and vichars the actor has no relation to resolve to not-found,
// so existence is not leaked.
func (s *VicharService) GetVichar(vicharID, actorID uint64) (*models.Vichar, error) {
	vichar, err := s.findActive(vicharID)
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

	return s.vicharRepo.FindByID(vichar.ID, "User")
}

// ListVichars returns active vichars the actor owns or collaborates on
func (s *VicharService) ListVichars(input ListVicharsInput) ([]models.Vichar, int64, error) {
	vichars, total, err := s.vicharRepo.ListVisible(repository.VicharFilter{
		UserID:      input.UserID,
		TitleSearch: input.TitleSearch,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vichars: %w", err)
	}

	return vichars, total, nil
}

// ListDeletedVichars returns soft-deleted vichars the actor owns or
// collaborates on.
func (s *VicharService) ListDeletedVichars(actorID uint64) ([]models.Vichar, error) {
	vichars, err := s.vicharRepo.ListDeleted(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted vichars: %w", err)
	}
	return vichars, nil
}

// UpdateVichar applies a partial update. The actor must be the owner or
// hold EDIT_VICHAR. updated_at is stamped only on a successful edit.
func (s *VicharService) UpdateVichar(vicharID, actorID uint64, input UpdateVicharInput) (*models.Vichar, error) {
	vichar, err := s.findActive(vicharID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.resolver.Can(actorID, vichar, models.PermissionEditVichar)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrVicharPermissionDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if len(title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		vichar.Title = title
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, ErrBodyRequired
		}
		vichar.Body = *input.Body
	}

	now := time.Now()
	vichar.UpdatedAt = &now

	if err := s.vicharRepo.Update(vichar); err != nil {
		return nil, fmt.Errorf("failed to update vichar: %w", err)
	}

	return vichar, nil
}

// SoftDeleteVichar marks the vichar deleted. The actor must be the owner or
// hold DELETE_VICHAR. A repeat call re-stamps deleted_at; the operation is
// deliberately not idempotent.
func (s *VicharService) SoftDeleteVichar(vicharID, actorID uint64) error {
	vichar, err := s.find(vicharID)
	if err != nil {
		return err
	}

	allowed, err := s.resolver.Can(actorID, vichar, models.PermissionDeleteVichar)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrVicharPermissionDenied
	}

	now := time.Now()
	vichar.DeletedAt = &now

	if err := s.vicharRepo.Update(vichar); err != nil {
		return fmt.Errorf("failed to soft delete vichar: %w", err)
	}

	return nil
}

// RestoreVichar clears the deletion stamp. Valid only while the vichar is
// soft-deleted; restoring an active vichar is not-found. The actor must be
// the owner or hold DELETE_VICHAR.
func (s *VicharService) RestoreVichar(vicharID, actorID uint64) (*models.Vichar, error) {
	vichar, err := s.findDeleted(vicharID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.resolver.Can(actorID, vichar, models.PermissionDeleteVichar)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrVicharPermissionDenied
	}

	vichar.DeletedAt = nil

	if err := s.vicharRepo.Update(vichar); err != nil {
		return nil, fmt.Errorf("failed to restore vichar: %w", err)
	}

	return vichar, nil
}

// PermanentlyDeleteVichar removes a soft-deleted vichar and all of its
// collaborator grants in one transaction. Valid only while soft-deleted;
// the actor must be the owner or hold DELETE_VICHAR.
func (s *VicharService) PermanentlyDeleteVichar(vicharID, actorID uint64) error {
	vichar, err := s.findDeleted(vicharID)
	if err != nil {
		return err
	}

	allowed, err := s.resolver.Can(actorID, vichar, models.PermissionDeleteVichar)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrVicharPermissionDenied
	}

	if err := s.vicharRepo.DeletePermanently(vichar.ID); err != nil {
		return fmt.Errorf("failed to permanently delete vichar: %w", err)
	}

	return nil
}

func (s *VicharService) find(vicharID uint64) (*models.Vichar, error) {
	vichar, err := s.vicharRepo.FindByID(vicharID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVicharNotFound
		}
		return nil, fmt.Errorf("failed to find vichar: %w", err)
	}
	return vichar, nil
}

func (s *VicharService) findActive(vicharID uint64) (*models.Vichar, error) {
	vichar, err := s.find(vicharID)
	if err != nil {
		return nil, err
	}
	if vichar.IsDeleted() {
		return nil, ErrVicharNotFound
	}
	return vichar, nil
}

func (s *VicharService) findDeleted(vicharID uint64) (*models.Vichar, error) {
	vichar, err := s.find(vicharID)
	if err != nil {
		return nil, err
	}
	if !vichar.IsDeleted() {
		return nil, ErrVicharNotFound
	}
	return vichar, nil
}
