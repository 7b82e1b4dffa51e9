package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PermissionList is a set of permissions stored as a JSON array column.
type PermissionList []Permission

// Value implements driver.Valuer.
func (l PermissionList) Value() (driver.Value, error) {
	if l == nil {
		l = PermissionList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*l = PermissionList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for PermissionList: %T", value)
	}

	return json.Unmarshal(data, l)
}

// Normalize returns the list with duplicates removed. Order is not preserved
// as meaningful; the set is what matters.
func (l PermissionList) Normalize() PermissionList {
	seen := make(map[Permission]struct{}, len(l))
	result := make(PermissionList, 0, len(l))

	for _, p := range l {
		if _, exists := seen[p]; exists {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}

	return result
}

// Contains reports exact membership of a permission in the set.
func (l PermissionList) Contains(p Permission) bool {
	for _, candidate := range l {
		if candidate == p {
			return true
		}
	}
	return false
}

type Role struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Permissions PermissionList `gorm:"type:json;not null" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`

	// Relations
	Collaborators []Collaborator `gorm:"foreignKey:RoleID" json:"-"`
}
