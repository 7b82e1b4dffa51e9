package repository

import (
	"github.com/vicharak/vicharak-api/internal/models"
	"gorm.io/gorm"
)

// GormCollaboratorRepository is a GORM implementation of CollaboratorRepository
type GormCollaboratorRepository struct {
	db *gorm.DB
}

// NewCollaboratorRepository creates a new CollaboratorRepository
func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &GormCollaboratorRepository{db: db}
}

// Create creates a new collaborator grant. The composite unique index on
// (vichar_id, collaborator_id) makes concurrent duplicate adds fail here
// with gorm.ErrDuplicatedKey instead of producing a second row.
func (r *GormCollaboratorRepository) Create(collaborator *models.Collaborator) error {
	return r.db.Create(collaborator).Error
}

// Find finds the grant for a (vichar, user) pair with optional preloading
func (r *GormCollaboratorRepository) Find(vicharID, userID uint64, preload ...string) (*models.Collaborator, error) {
	var collaborator models.Collaborator
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("vichar_id = ? AND collaborator_id = ?", vicharID, userID).
		First(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// ListByVichar lists all grants on a vichar with user and role loaded
func (r *GormCollaboratorRepository) ListByVichar(vicharID uint64) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	if err := r.db.Preload("Collaborator").Preload("Role").
		Where("vichar_id = ?", vicharID).
		Find(&collaborators).Error; err != nil {
		return nil, err
	}
	return collaborators, nil
}

// Update persists changes to a grant
func (r *GormCollaboratorRepository) Update(collaborator *models.Collaborator) error {
	return r.db.Save(collaborator).Error
}

// Delete removes the grant for a (vichar, user) pair
func (r *GormCollaboratorRepository) Delete(vicharID, userID uint64) error {
	return r.db.Where("vichar_id = ? AND collaborator_id = ?", vicharID, userID).
		Delete(&models.Collaborator{}).Error
}
