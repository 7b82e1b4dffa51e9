package models

import (
	"time"
)

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Name         string     `gorm:"type:varchar(50)" json:"name,omitempty"`
	Email        string     `gorm:"type:varchar(50)" json:"email,omitempty"`
	PasswordHash string     `gorm:"type:varchar(128);not null" json:"-"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Vichars        []Vichar       `gorm:"foreignKey:UserID" json:"-"`
	Collaborations []Collaborator `gorm:"foreignKey:CollaboratorID" json:"-"`
}
