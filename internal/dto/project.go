package dto

import (
	"time"

	"github.com/laptrinhjava/task-planner-api/internal/models"
)

// ProjectDTO represents a project in API responses. TaskCount is derived
// at read time, never stored.
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IconName    string    `json:"icon_name"`
	IsFavorite  bool      `json:"is_favorite"`
	TaskCount   int64     `json:"task_count"`
	OwnerID     uint64    `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project, taskCount int64) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		IconName:    project.IconName,
		IsFavorite:  project.IsFavorite,
		TaskCount:   taskCount,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include owner name if preloaded
	if project.Owner.ID != 0 {
		dto.OwnerName = project.Owner.Name
	}

	return dto
}
