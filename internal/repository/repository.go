package repository

import (
	"github.com/vicharak/vicharak-api/internal/models"
)

// VicharRepository defines the interface for vichar data access
type VicharRepository interface {
	// Create creates a new vichar
	Create(vichar *models.Vichar) error

	// FindByID finds a vichar by ID with optional preloading.
	// Soft-deleted vichars are returned too; callers decide on state.
	FindByID(id uint64, preload ...string) (*models.Vichar, error)

	// ListVisible retrieves active vichars the user owns or collaborates on
	ListVisible(filter VicharFilter) ([]models.Vichar, int64, error)

	// ListDeleted retrieves soft-deleted vichars the user owns or collaborates on
	ListDeleted(userID uint64) ([]models.Vichar, error)

	// Update persists changes to a vichar
	Update(vichar *models.Vichar) error

	// DeletePermanently removes a vichar and its collaborator rows
	DeletePermanently(id uint64) error
}

// VicharFilter holds filtering options for listing vichars
type VicharFilter struct {
	UserID      uint64
	TitleSearch string
	Page        int
	PageSize    int
}

// CollaboratorRepository defines the interface for collaborator data access
type CollaboratorRepository interface {
	// Create creates a new collaborator grant
	Create(collaborator *models.Collaborator) error

	// Find finds the grant for a (vichar, user) pair with optional preloading
	Find(vicharID, userID uint64, preload ...string) (*models.Collaborator, error)

	// ListByVichar lists all grants on a vichar
	ListByVichar(vicharID uint64) ([]models.Collaborator, error)

	// Update persists changes to a grant
	Update(collaborator *models.Collaborator) error

	// Delete removes the grant for a (vichar, user) pair
	Delete(vicharID, userID uint64) error
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// Create creates a new role
	Create(role *models.Role) error

	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// FindByName finds a role by its unique name
	FindByName(name string) (*models.Role, error)

	// List retrieves roles with name search and pagination
	List(filter RoleFilter) ([]models.Role, int64, error)

	// Update persists changes to a role
	Update(role *models.Role) error

	// Delete removes a role, clearing references from collaborators
	Delete(id uint64) error
}

// RoleFilter holds filtering options for listing roles
type RoleFilter struct {
	NameSearch string
	Page       int
	PageSize   int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}
