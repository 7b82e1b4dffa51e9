package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vicharak/vicharak-api/internal/constants"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleNameRequired    = errors.New("role name is required")
	ErrRoleNameTooLong     = errors.New("role name cannot exceed 50 characters")
	ErrRoleNameTaken       = errors.New("role name already exists")
	ErrPermissionsRequired = errors.New("at least one permission is required")
	ErrUnknownPermission   = errors.New("unknown permission")
)

// RoleService manages the named permission sets assignable to collaborators.
// Permission lists are validated against the closed enumeration and
// deduplicated on every write.
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
	}
}

// CreateRoleInput represents input for creating a role
type CreateRoleInput struct {
	Name        string
	Permissions []models.Permission
}

// UpdateRoleInput represents a partial update to a role
type UpdateRoleInput struct {
	Name        *string
	Permissions []models.Permission
}

// ListRolesInput represents filters for listing roles
type ListRolesInput struct {
	NameSearch string
	Page       int
	PageSize   int
}

// CreateRole creates a new role with a normalized permission set
func (s *RoleService) CreateRole(input CreateRoleInput) (*models.Role, error) {
	name, err := s.validateName(input.Name)
	if err != nil {
		return nil, err
	}

	permissions, err := s.normalizePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	if _, err := s.roleRepo.FindByName(name); err == nil {
		return nil, ErrRoleNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	role := &models.Role{
		Name:        name,
		Permissions: permissions,
	}

	if err := s.roleRepo.Create(role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// GetRole returns a role by ID
func (s *RoleService) GetRole(roleID uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}

// ListRoles returns roles matching the filter
func (s *RoleService) ListRoles(input ListRolesInput) ([]models.Role, int64, error) {
	roles, total, err := s.roleRepo.List(repository.RoleFilter{
		NameSearch: input.NameSearch,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, total, nil
}

// UpdateRole applies a partial update; the permission set is re-normalized
// whenever it is replaced.
func (s *RoleService) UpdateRole(roleID uint64, input UpdateRoleInput) (*models.Role, error) {
	role, err := s.GetRole(roleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := s.validateName(*input.Name)
		if err != nil {
			return nil, err
		}

		if existing, err := s.roleRepo.FindByName(name); err == nil {
			if existing.ID != role.ID {
				return nil, ErrRoleNameTaken
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check role name: %w", err)
		}

		role.Name = name
	}

	if input.Permissions != nil {
		permissions, err := s.normalizePermissions(input.Permissions)
		if err != nil {
			return nil, err
		}
		role.Permissions = permissions
	}

	if err := s.roleRepo.Update(role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a role. Grants referencing it lose their role
// reference but remain in place.
func (s *RoleService) DeleteRole(roleID uint64) error {
	if _, err := s.GetRole(roleID); err != nil {
		return err
	}

	if err := s.roleRepo.Delete(roleID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	return nil
}

func (s *RoleService) validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrRoleNameRequired
	}
	if len(name) > constants.MaxRoleNameLength {
		return "", ErrRoleNameTooLong
	}
	return name, nil
}

// normalizePermissions validates every permission against the enumeration
// and removes duplicates, so two lists with the same members always persist
// as the same set.
func (s *RoleService) normalizePermissions(permissions []models.Permission) (models.PermissionList, error) {
	if len(permissions) == 0 {
		return nil, ErrPermissionsRequired
	}

	for _, p := range permissions {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
	}

	return models.PermissionList(permissions).Normalize(), nil
}
