package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/laptrinhjava/task-planner-api/internal/models"
	"github.com/laptrinhjava/task-planner-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both a missing task and a task the actor
	// has no visibility into.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotProjectOwner is returned when an assignee tries an
	// operation reserved for the project owner.
	ErrNotProjectOwner  = errors.New("only the project owner can delete this task")
	ErrAssigneeNotFound = errors.New("assignee not found")
)

// TaskService handles task business logic. Ownership of the parent
// project is the primary authority; assignment grants read and update
// access but not delete.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// TaskInput represents the mutable fields of a task
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
	ProjectID   uint64
	AssigneeID  *uint64
}

// CreateTask creates a task in a project owned by the actor. An omitted
// assignee defaults to the creator.
func (s *TaskService) CreateTask(actorID uint64, input TaskInput) (*models.Task, error) {
	owned, err := s.ownsProject(input.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrProjectNotFound
	}

	assigneeID := input.AssigneeID
	if assigneeID == nil {
		assigneeID = &actorID
	} else if err := s.ensureUserExists(*assigneeID); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssigneeID:  assigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Assignee")
}

// ListProjectTasks returns all tasks of a project owned by the actor.
func (s *TaskService) ListProjectTasks(projectID, actorID uint64) ([]models.Task, error) {
	owned, err := s.ownsProject(projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrProjectNotFound
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListAssignedTasks returns all tasks assigned to the actor. Assignment
// itself is the authorization, no ownership check applies.
func (s *TaskService) ListAssignedTasks(actorID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task visible to the actor: either the actor owns the
// task's project or is its assignee.
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Project.OwnerID != actorID && !isAssignee(task, actorID) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTask overwrites the mutable fields of a task. The actor must own
// the task's project or be its current assignee. Moving the task to
// another project requires ownership of the destination; an omitted
// assignee clears the assignment.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input TaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	owned, err := s.ownsProject(task.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !owned && !isAssignee(task, actorID) {
		return nil, ErrTaskNotFound
	}

	if input.ProjectID != task.ProjectID {
		ownsDest, err := s.ownsProject(input.ProjectID, actorID)
		if err != nil {
			return nil, err
		}
		if !ownsDest {
			return nil, ErrProjectNotFound
		}
		task.ProjectID = input.ProjectID
	}

	if input.AssigneeID != nil {
		if task.AssigneeID == nil || *input.AssigneeID != *task.AssigneeID {
			if err := s.ensureUserExists(*input.AssigneeID); err != nil {
				return nil, err
			}
		}
		task.AssigneeID = input.AssigneeID
	} else {
		task.AssigneeID = nil
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.DueDate = input.DueDate

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Project", "Assignee")
}

// DeleteTask removes a task. Only the project owner may delete; a mere
// assignee is refused explicitly.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	owned, err := s.ownsProject(task.ProjectID, actorID)
	if err != nil {
		return err
	}
	if !owned {
		if isAssignee(task, actorID) {
			return ErrNotProjectOwner
		}
		return ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ownsProject reports whether the actor owns the project, using the same
// owner-scoped lookup as the project read path.
func (s *TaskService) ownsProject(projectID, actorID uint64) (bool, error) {
	_, err := s.projectRepo.FindByIDAndOwner(projectID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify project ownership: %w", err)
	}
	return true, nil
}

func (s *TaskService) ensureUserExists(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}

func isAssignee(task *models.Task, userID uint64) bool {
	return task.AssigneeID != nil && *task.AssigneeID == userID
}
