package dto

import (
	"time"

	"github.com/vicharak/vicharak-api/internal/models"
)

// VicharDTO represents a vichar in API responses
type VicharDTO struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// VicharDetailDTO is a vichar with its collaborator list. The list is empty
// unless the requesting user is the owner or holds VIEW_COLLABORATORS.
type VicharDetailDTO struct {
	VicharDTO
	Collaborators []CollaboratorDTO `json:"collaborators"`
}

// CollaboratorDTO represents a collaborator grant in API responses. The
// role's permissions are flattened alongside the role reference.
type CollaboratorDTO struct {
	ID           uint64                `json:"id"`
	VicharID     uint64                `json:"vichar_id"`
	OwnerID      uint64                `json:"owner_id"`
	Collaborator UserDTO               `json:"collaborator"`
	Role         *RoleDTO              `json:"role"`
	Permissions  models.PermissionList `json:"permissions"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ToVicharDTO converts a vichar model to DTO
func ToVicharDTO(vichar models.Vichar) VicharDTO {
	return VicharDTO{
		ID:        vichar.ID,
		UserID:    vichar.UserID,
		Title:     vichar.Title,
		Body:      vichar.Body,
		CreatedAt: vichar.CreatedAt,
		UpdatedAt: vichar.UpdatedAt,
		DeletedAt: vichar.DeletedAt,
	}
}

// ToVicharDTOs converts a slice of vichar models to DTOs
func ToVicharDTOs(vichars []models.Vichar) []VicharDTO {
	dtos := make([]VicharDTO, len(vichars))
	for i, vichar := range vichars {
		dtos[i] = ToVicharDTO(vichar)
	}
	return dtos
}

// ToVicharDetailDTO converts a vichar and its visible collaborators to DTO
func ToVicharDetailDTO(vichar models.Vichar, collaborators []models.Collaborator) VicharDetailDTO {
	return VicharDetailDTO{
		VicharDTO:     ToVicharDTO(vichar),
		Collaborators: ToCollaboratorDTOs(collaborators),
	}
}

// ToCollaboratorDTO converts a collaborator model to DTO
func ToCollaboratorDTO(collaborator models.Collaborator) CollaboratorDTO {
	d := CollaboratorDTO{
		ID:           collaborator.ID,
		VicharID:     collaborator.VicharID,
		OwnerID:      collaborator.OwnerID,
		Collaborator: ToUserDTO(collaborator.Collaborator),
		Permissions:  models.PermissionList{},
		CreatedAt:    collaborator.CreatedAt,
	}

	if collaborator.Role != nil {
		role := ToRoleDTO(*collaborator.Role)
		d.Role = &role
		d.Permissions = role.Permissions
	}

	return d
}

// ToCollaboratorDTOs converts a slice of collaborator models to DTOs
func ToCollaboratorDTOs(collaborators []models.Collaborator) []CollaboratorDTO {
	dtos := make([]CollaboratorDTO, len(collaborators))
	for i, collaborator := range collaborators {
		dtos[i] = ToCollaboratorDTO(collaborator)
	}
	return dtos
}
