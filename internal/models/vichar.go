package models

import (
	"time"
)

type Vichar struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	UserID    uint64     `gorm:"not null;index" json:"user_id"`
	Title     string     `gorm:"type:varchar(50);not null" json:"title"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`

	// Relations
	User          User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Collaborators []Collaborator `gorm:"foreignKey:VicharID" json:"collaborators,omitempty"`
}

// IsDeleted reports whether the vichar is soft-deleted. A non-nil deleted_at
// is the only marker of the deleted state.
func (v *Vichar) IsDeleted() bool {
	return v.DeletedAt != nil
}

// IsOwnedBy reports whether the given user created the vichar.
func (v *Vichar) IsOwnedBy(userID uint64) bool {
	return v.UserID == userID
}
