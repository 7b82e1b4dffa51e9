package repository

import (
	"github.com/vicharak/vicharak-api/internal/database"
	"github.com/vicharak/vicharak-api/internal/models"
	"github.com/vicharak/vicharak-api/internal/utils"
	"gorm.io/gorm"
)

// GormVicharRepository is a GORM implementation of VicharRepository
type GormVicharRepository struct {
	db *gorm.DB
}

// NewVicharRepository creates a new VicharRepository
func NewVicharRepository(db *gorm.DB) VicharRepository {
	return &GormVicharRepository{db: db}
}

// Create creates a new vichar
func (r *GormVicharRepository) Create(vichar *models.Vichar) error {
	return r.db.Create(vichar).Error
}

// FindByID finds a vichar by ID with optional preloading
func (r *GormVicharRepository) FindByID(id uint64, preload ...string) (*models.Vichar, error) {
	var vichar models.Vichar
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&vichar, id).Error; err != nil {
		return nil, err
	}

	return &vichar, nil
}

// ListVisible retrieves active vichars the user owns or collaborates on.
// The EXISTS subquery keeps results distinct without a join.
func (r *GormVicharRepository) ListVisible(filter VicharFilter) ([]models.Vichar, int64, error) {
	var vichars []models.Vichar

	collaborationSubQuery := r.db.Model(&models.Collaborator{}).
		Select("1").
		Where("collaborators.vichar_id = vichars.id").
		Where("collaborators.collaborator_id = ?", filter.UserID)

	query := r.db.Model(&models.Vichar{}).
		Where("vichars.deleted_at IS NULL").
		Where("vichars.user_id = ? OR EXISTS (?)", filter.UserID, collaborationSubQuery)

	if filter.TitleSearch != "" {
		query = query.Where("vichars.title LIKE ?", "%"+filter.TitleSearch+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("vichars.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("User").Find(&vichars).Error; err != nil {
		return nil, 0, err
	}

	return vichars, total, nil
}

// ListDeleted retrieves soft-deleted vichars the user owns or collaborates on
func (r *GormVicharRepository) ListDeleted(userID uint64) ([]models.Vichar, error) {
	var vichars []models.Vichar

	collaborationSubQuery := r.db.Model(&models.Collaborator{}).
		Select("1").
		Where("collaborators.vichar_id = vichars.id").
		Where("collaborators.collaborator_id = ?", userID)

	err := r.db.Model(&models.Vichar{}).
		Where("vichars.deleted_at IS NOT NULL").
		Where("vichars.user_id = ? OR EXISTS (?)", userID, collaborationSubQuery).
		Order("vichars.deleted_at DESC").
		Find(&vichars).Error
	if err != nil {
		return nil, err
	}

	return vichars, nil
}

// Update persists changes to a vichar
func (r *GormVicharRepository) Update(vichar *models.Vichar) error {
	return r.db.Save(vichar).Error
}

// DeletePermanently removes a vichar and its collaborator rows atomically
func (r *GormVicharRepository) DeletePermanently(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vichar_id = ?", id).Delete(&models.Collaborator{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Vichar{}, id).Error
	})
}
