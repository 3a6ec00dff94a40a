package services

import (
	"errors"
	"fmt"

	"github.com/laptrinhjava/task-planner-api/internal/models"
	"github.com/laptrinhjava/task-planner-api/internal/repository"
	"gorm.io/gorm"
)

// ErrProjectNotFound covers both a missing project and a project the
// actor does not own, so existence never leaks across users.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// ProjectInput represents the mutable fields of a project
type ProjectInput struct {
	Name        string
	Description string
	Color       string
	IconName    string
	IsFavorite  bool
}

// ListProjects returns all projects owned by the actor along with their
// live task counts.
func (s *ProjectService) ListProjects(actorID uint64) ([]models.Project, map[uint64]int64, error) {
	projects, err := s.projectRepo.ListByOwner(actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}

	ids := make([]uint64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	counts, err := s.projectRepo.TaskCounts(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return projects, counts, nil
}

// GetProject returns a project owned by the actor and its task count.
func (s *ProjectService) GetProject(projectID, actorID uint64) (*models.Project, int64, error) {
	project, err := s.projectRepo.FindByIDAndOwner(projectID, actorID, "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	counts, err := s.projectRepo.TaskCounts([]uint64{project.ID})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return project, counts[project.ID], nil
}

// CreateProject creates a project owned by the actor.
func (s *ProjectService) CreateProject(actorID uint64, input ProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		IconName:    input.IconName,
		IsFavorite:  input.IsFavorite,
		OwnerID:     actorID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// UpdateProject overwrites all mutable fields of a project owned by the
// actor. Ownership never transfers.
func (s *ProjectService) UpdateProject(projectID, actorID uint64, input ProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDAndOwner(projectID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	project.Name = input.Name
	project.Description = input.Description
	project.Color = input.Color
	project.IconName = input.IconName
	project.IsFavorite = input.IsFavorite

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project owned by the actor together with all
// of its tasks.
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	project, err := s.projectRepo.FindByIDAndOwner(projectID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
