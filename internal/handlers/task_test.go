package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/laptrinhjava/task-planner-api/internal/constants"
	"github.com/laptrinhjava/task-planner-api/internal/database"
	"github.com/laptrinhjava/task-planner-api/internal/dto"
	"github.com/laptrinhjava/task-planner-api/internal/models"
	"github.com/laptrinhjava/task-planner-api/internal/repository"
	"github.com/laptrinhjava/task-planner-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(username, email string) *models.User {
	user := &models.User{
		Username: username,
		Name:     username,
		Email:    email,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}
	suite.db.Create(project)
	return project
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, projectID uint64, assigneeID *uint64) *models.Task {
	task := &models.Task{
		Title:      title,
		Status:     models.TaskStatusTodo,
		ProjectID:  projectID,
		AssigneeID: assigneeID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

func taskBody(title string, projectID uint64, assigneeID *uint64) []byte {
	payload := map[string]any{
		"title":      title,
		"status":     "TODO",
		"project_id": projectID,
	}
	if assigneeID != nil {
		payload["assignee_id"] = *assigneeID
	}
	body, _ := json.Marshal(payload)
	return body
}

// TestCreateTask_DefaultsAssigneeToCreator tests assignee defaulting
func (suite *TaskHandlerTestSuite) TestCreateTask_DefaultsAssigneeToCreator() {
	owner := suite.createTestUser("owner", "owner@x.com")
	project := suite.createTestProject("Mine", owner.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks", taskBody("Write report", project.ID, nil), owner.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotNil(response.AssigneeID)
	assert.Equal(suite.T(), owner.ID, *response.AssigneeID)
	assert.Equal(suite.T(), project.ID, response.ProjectID)
}

// TestCreateTask_ExplicitAssignee tests assigning another existing user
func (suite *TaskHandlerTestSuite) TestCreateTask_ExplicitAssignee() {
	owner := suite.createTestUser("owner", "owner@x.com")
	assignee := suite.createTestUser("assignee", "assignee@x.com")
	project := suite.createTestProject("Mine", owner.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks", taskBody("Review", project.ID, &assignee.ID), owner.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotNil(response.AssigneeID)
	assert.Equal(suite.T(), assignee.ID, *response.AssigneeID)
}

// TestCreateTask_ForeignProject_NotFound tests that creation in another
// user's project fails and persists nothing
func (suite *TaskHandlerTestSuite) TestCreateTask_ForeignProject_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")
	intruder := suite.createTestUser("intruder", "intruder@x.com")
	project := suite.createTestProject("Mine", owner.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks", taskBody("Sneak", project.ID, nil), intruder.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTask_MissingAssignee_NotFound tests a nonexistent assignee id
func (suite *TaskHandlerTestSuite) TestCreateTask_MissingAssignee_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")
	project := suite.createTestProject("Mine", owner.ID)

	missing := uint64(9999)
	c, w := suite.createAuthContext("POST", "/api/tasks", taskBody("Orphan", project.ID, &missing), owner.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTask_MissingProjectID tests that project_id is mandatory
func (suite *TaskHandlerTestSuite) TestCreateTask_MissingProjectID() {
	owner := suite.createTestUser("owner", "owner@x.com")

	body, _ := json.Marshal(map[string]any{"title": "No project", "status": "TODO"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, owner.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetTask_AssigneeCanView tests assignee visibility across ownership
func (suite *TaskHandlerTestSuite) TestGetTask_AssigneeCanView() {
	owner := suite.createTestUser("owner", "owner@x.com")
	assignee := suite.createTestUser("assignee", "assignee@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	task := suite.createTestTask("Shared", project.ID, &assignee.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, assignee.ID)
	suite.setIDParam(c, "1")
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), task.ID, response.ID)
	assert.Equal(suite.T(), "Mine", response.ProjectName)
}

// TestGetTask_Outsider_NotFound tests that a third party cannot see the task
func (suite *TaskHandlerTestSuite) TestGetTask_Outsider_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")
	outsider := suite.createTestUser("outsider", "outsider@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Private", project.ID, &owner.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, outsider.ID)
	suite.setIDParam(c, "1")
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetTask_Nonexistent_NotFound tests a missing task id
func (suite *TaskHandlerTestSuite) TestGetTask_Nonexistent_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")

	c, w := suite.createAuthContext("GET", "/api/tasks/42", nil, owner.ID)
	suite.setIDParam(c, "42")
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestListProjectTasks_RequiresOwnership tests owner-scoped task listing
func (suite *TaskHandlerTestSuite) TestListProjectTasks_RequiresOwnership() {
	owner := suite.createTestUser("owner", "owner@x.com")
	outsider := suite.createTestUser("outsider", "outsider@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("T1", project.ID, nil)
	suite.createTestTask("T2", project.ID, nil)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks", nil, owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.ListProjectTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response, 2)

	c, w = suite.createAuthContext("GET", "/api/projects/1/tasks", nil, outsider.ID)
	suite.setIDParam(c, "1")
	suite.handler.ListProjectTasks(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestListAssignedTasks tests the assigned-to-me listing
func (suite *TaskHandlerTestSuite) TestListAssignedTasks() {
	owner := suite.createTestUser("owner", "owner@x.com")
	assignee := suite.createTestUser("assignee", "assignee@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("ForMe", project.ID, &assignee.ID)
	suite.createTestTask("NotForMe", project.ID, &owner.ID)
	suite.createTestTask("Unassigned", project.ID, nil)

	c, w := suite.createAuthContext("GET", "/api/tasks/assigned", nil, assignee.ID)
	suite.handler.ListAssignedTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), "ForMe", response[0].Title)
}

// TestUpdateTask_AssigneeCanUpdate tests the looser update rule
func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeCanUpdate() {
	owner := suite.createTestUser("owner", "owner@x.com")
	assignee := suite.createTestUser("assignee", "assignee@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Draft", project.ID, &assignee.ID)

	body, _ := json.Marshal(map[string]any{
		"title":       "Done work",
		"status":      "DONE",
		"project_id":  project.ID,
		"assignee_id": assignee.ID,
	})
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, assignee.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.Task
	suite.db.First(&stored, 1)
	assert.Equal(suite.T(), "Done work", stored.Title)
	assert.Equal(suite.T(), models.TaskStatusDone, stored.Status)
}

// TestUpdateTask_OmittedAssigneeClears tests that omitting assignee_id unassigns
func (suite *TaskHandlerTestSuite) TestUpdateTask_OmittedAssigneeClears() {
	owner := suite.createTestUser("owner", "owner@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Assigned", project.ID, &owner.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", taskBody("Assigned", project.ID, nil), owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.Task
	suite.db.First(&stored, 1)
	assert.Nil(suite.T(), stored.AssigneeID)
}

// TestUpdateTask_MissingAssignee_NotFound tests that a bad assignee id
// leaves the task unchanged
func (suite *TaskHandlerTestSuite) TestUpdateTask_MissingAssignee_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Stable", project.ID, &owner.ID)

	missing := uint64(9999)
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", taskBody("Changed", project.ID, &missing), owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var stored models.Task
	suite.db.First(&stored, 1)
	assert.Equal(suite.T(), "Stable", stored.Title)
	suite.Require().NotNil(stored.AssigneeID)
	assert.Equal(suite.T(), owner.ID, *stored.AssigneeID)
}

// TestUpdateTask_MoveToForeignProject_NotFound tests that moving a task
// requires ownership of the destination project
func (suite *TaskHandlerTestSuite) TestUpdateTask_MoveToForeignProject_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")
	other := suite.createTestUser("other", "other@x.com")
	mine := suite.createTestProject("Mine", owner.ID)
	theirs := suite.createTestProject("Theirs", other.ID)
	suite.createTestTask("Anchored", mine.ID, nil)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", taskBody("Anchored", theirs.ID, nil), owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var stored models.Task
	suite.db.First(&stored, 1)
	assert.Equal(suite.T(), mine.ID, stored.ProjectID)
}

// TestUpdateTask_Idempotent tests that repeating an update changes nothing
func (suite *TaskHandlerTestSuite) TestUpdateTask_Idempotent() {
	owner := suite.createTestUser("owner", "owner@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Original", project.ID, &owner.ID)

	body := taskBody("Settled", project.ID, &owner.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var first models.Task
	suite.db.First(&first, 1)

	c, w = suite.createAuthContext("PUT", "/api/tasks/1", body, owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var second models.Task
	suite.db.First(&second, 1)

	assert.Equal(suite.T(), first.Title, second.Title)
	assert.Equal(suite.T(), first.Status, second.Status)
	assert.Equal(suite.T(), first.ProjectID, second.ProjectID)
	assert.Equal(suite.T(), first.AssigneeID, second.AssigneeID)
	assert.Equal(suite.T(), first.CreatedAt, second.CreatedAt)
}

// TestDeleteTask_AssigneeForbidden tests that a mere assignee cannot delete
func (suite *TaskHandlerTestSuite) TestDeleteTask_AssigneeForbidden() {
	owner := suite.createTestUser("owner", "owner@x.com")
	assignee := suite.createTestUser("assignee", "assignee@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Protected", project.ID, &assignee.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, assignee.ID)
	suite.setIDParam(c, "1")
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestDeleteTask_OwnerSuccess tests deletion by the project owner
func (suite *TaskHandlerTestSuite) TestDeleteTask_OwnerSuccess() {
	owner := suite.createTestUser("owner", "owner@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Done with this", project.ID, nil)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, owner.ID)
	suite.setIDParam(c, "1")
	suite.handler.DeleteTask(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteTask_Outsider_NotFound tests that outsiders get 404, not 403
func (suite *TaskHandlerTestSuite) TestDeleteTask_Outsider_NotFound() {
	owner := suite.createTestUser("owner", "owner@x.com")
	outsider := suite.createTestUser("outsider", "outsider@x.com")
	project := suite.createTestProject("Mine", owner.ID)
	suite.createTestTask("Hidden", project.ID, nil)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, outsider.ID)
	suite.setIDParam(c, "1")
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
