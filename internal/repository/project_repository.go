package repository

import (
	"github.com/laptrinhjava/task-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByIDAndOwner finds a project by ID scoped to its owner. A project
// owned by someone else is indistinguishable from a missing one.
func (r *GormProjectRepository) FindByIDAndOwner(id, ownerID uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListByOwner lists all projects owned by a user
func (r *GormProjectRepository) ListByOwner(ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("owner_id = ?", ownerID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all its tasks in one transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// TaskCounts returns the live task count per project ID
func (r *GormProjectRepository) TaskCounts(projectIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ProjectID uint64
		Count     int64
	}

	var rows []row
	err := r.db.Model(&models.Task{}).
		Select("project_id, COUNT(*) as count").
		Where("project_id IN ?", projectIDs).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		counts[rw.ProjectID] = rw.Count
	}

	return counts, nil
}

// CountByOwner counts projects owned by a user
func (r *GormProjectRepository) CountByOwner(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
