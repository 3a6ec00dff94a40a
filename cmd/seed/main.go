// Command seed inserts a development user and sample projects. It is a
// local convenience and never runs as part of the server.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/laptrinhjava/task-planner-api/internal/config"
	"github.com/laptrinhjava/task-planner-api/internal/database"
	"github.com/laptrinhjava/task-planner-api/internal/models"
	"github.com/laptrinhjava/task-planner-api/internal/repository"
	"github.com/laptrinhjava/task-planner-api/internal/services"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	email := os.Getenv("DEFAULT_USER_EMAIL")
	if email == "" {
		log.Fatal("DEFAULT_USER_EMAIL is required")
	}
	name := os.Getenv("DEFAULT_USER_NAME")
	if name == "" {
		name = "Default Dev User"
	}

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	authService := services.NewAuthService(userRepo, cfg.DefaultUserRole)

	user, err := userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = authService.ProvisionUser(services.ProvisionInput{
			Email:     email,
			Name:      name,
			AvatarURL: os.Getenv("DEFAULT_USER_AVATAR_URL"),
		})
		if err != nil {
			log.Fatalf("Failed to create dev user: %v", err)
		}
		log.Printf("Created dev user %s (id=%d)", user.Email, user.ID)
	} else if err != nil {
		log.Fatalf("Failed to look up dev user: %v", err)
	} else {
		log.Printf("Dev user %s already exists (id=%d)", user.Email, user.ID)
	}

	count, err := projectRepo.CountByOwner(user.ID)
	if err != nil {
		log.Fatalf("Failed to count projects: %v", err)
	}
	if count > 0 {
		log.Printf("Dev user already has %d projects, nothing to seed", count)
		return
	}

	seedProjects := []models.Project{
		{Name: "Personal Plan", Description: "Personal tasks and goals", Color: "bg-indigo-500", IconName: "User", IsFavorite: true, OwnerID: user.ID},
		{Name: "Company Project ABC", Description: "Develop module XYZ", Color: "bg-sky-500", IconName: "Briefcase", OwnerID: user.ID},
		{Name: "Learning", Description: "Research AI and ML technology", Color: "bg-green-500", IconName: "BookOpen", IsFavorite: true, OwnerID: user.ID},
	}

	for i := range seedProjects {
		if err := projectRepo.Create(&seedProjects[i]); err != nil {
			log.Fatalf("Failed to seed project %q: %v", seedProjects[i].Name, err)
		}
	}

	log.Printf("Seeded %d projects for %s", len(seedProjects), user.Email)
}
