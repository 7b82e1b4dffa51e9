package repository

import (
	"github.com/vicharak/vicharak-api/internal/database"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/utils"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role
func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by its unique name
func (r *GormRoleRepository) FindByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List retrieves roles with name search and pagination
func (r *GormRoleRepository) List(filter RoleFilter) ([]models.Role, int64, error) {
	var roles []models.Role

	query := r.db.Model(&models.Role{})

	if filter.NameSearch != "" {
		query = query.Where("name LIKE ?", "%"+filter.NameSearch+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("id ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// Update persists changes to a role
func (r *GormRoleRepository) Update(role *models.Role) error {
	return r.db.Save(role).Error
}

// Delete removes a role. Collaborators referencing it keep their rows but
// lose the role reference, so existing grants stop conferring permissions
// rather than disappearing.
func (r *GormRoleRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Collaborator{}).
			Where("role_id = ?", id).
			Update("role_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, id).Error
	})
}
