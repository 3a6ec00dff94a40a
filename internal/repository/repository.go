package repository

import "github.com/laptrinhjava/task-planner-api/internal/models"

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Update updates a user
	Update(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Count counts all users
	Count() (int64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByIDAndOwner finds a project by ID scoped to its owner
	FindByIDAndOwner(id, ownerID uint64, preload ...string) (*models.Project, error)

	// ListByOwner lists all projects owned by a user
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and all its tasks in one transaction
	Delete(id uint64) error

	// TaskCounts returns the live task count per project ID
	TaskCounts(projectIDs []uint64) (map[uint64]int64, error)

	// CountByOwner counts projects owned by a user
	CountByOwner(ownerID uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists all tasks belonging to a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// ListByAssignee lists all tasks assigned to a user
	ListByAssignee(assigneeID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id uint64) error
}
