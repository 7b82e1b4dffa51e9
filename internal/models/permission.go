package models

// Permission is a single capability a role can grant on a vichar.
type Permission string

const (
	PermissionViewVichar         Permission = "VIEW_VICHAR"
	PermissionEditVichar         Permission = "EDIT_VICHAR"
	PermissionDeleteVichar       Permission = "DELETE_VICHAR"
	PermissionAddCollaborator    Permission = "ADD_COLLABORATOR"
	PermissionRemoveCollaborator Permission = "REMOVE_COLLABORATOR"
	PermissionViewCollaborators  Permission = "VIEW_COLLABORATORS"
)

// AllPermissions lists every permission a role may carry.
var AllPermissions = []Permission{
	PermissionViewVichar,
	PermissionEditVichar,
	PermissionDeleteVichar,
	PermissionAddCollaborator,
	PermissionRemoveCollaborator,
	PermissionViewCollaborators,
}

// Valid reports whether p is one of the supported permissions.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
