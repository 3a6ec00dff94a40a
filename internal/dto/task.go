package dto

import (
	"time"

	"github.com/laptrinhjava/task-planner-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       models.TaskStatus `json:"status"`
	DueDate      *time.Time        `json:"due_date"`
	ProjectID    uint64            `json:"project_id"`
	ProjectName  string            `json:"project_name,omitempty"`
	AssigneeID   *uint64           `json:"assignee_id"`
	AssigneeName string            `json:"assignee_name,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include related names if preloaded
	if task.Project.ID != 0 {
		dto.ProjectName = task.Project.Name
	}
	if task.Assignee != nil {
		dto.AssigneeName = task.Assignee.Name
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
