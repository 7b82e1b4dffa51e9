package models

import (
	"time"
)

// Collaborator grants a role to a user on a single vichar. OwnerID is a
// snapshot of the vichar's owner at grant time and is never re-synced.
type Collaborator struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	VicharID       uint64    `gorm:"not null;uniqueIndex:idx_vichar_collaborator" json:"vichar_id"`
	OwnerID        uint64    `gorm:"not null" json:"owner_id"`
	CollaboratorID uint64    `gorm:"not null;uniqueIndex:idx_vichar_collaborator" json:"collaborator_id"`
	RoleID         *uint64   `json:"role_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Vichar       Vichar `gorm:"foreignKey:VicharID" json:"-"`
	Owner        User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Collaborator User   `gorm:"foreignKey:CollaboratorID" json:"collaborator,omitempty"`
	Role         *Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
