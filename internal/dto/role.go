package dto

import (
	"time"

	"github.com/vicharak/vicharak-api/internal/models"
)

// RoleDTO represents a role in API responses
type RoleDTO struct {
	ID          uint64                `json:"id"`
	Name        string                `json:"name"`
	Permissions models.PermissionList `json:"permissions"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ToRoleDTO converts a role model to DTO
func ToRoleDTO(role models.Role) RoleDTO {
	permissions := role.Permissions
	if permissions == nil {
		permissions = models.PermissionList{}
	}

	return RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: permissions,
		CreatedAt:   role.CreatedAt,
	}
}

// ToRoleDTOs converts a slice of role models to DTOs
func ToRoleDTOs(roles []models.Role) []RoleDTO {
	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = ToRoleDTO(role)
	}
	return dtos
}
