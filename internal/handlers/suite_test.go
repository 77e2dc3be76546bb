package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/abacus-tasks/internal/config"
	"github.com/yukikurage/abacus-tasks/internal/database"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"github.com/yukikurage/abacus-tasks/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// apiSuite serves the full router over an in-memory database
type apiSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *apiSuite) SetupTest() {
	var err error

	suite.db, err = database.Connect(&config.Config{DBDriver: config.DriverSQLite, DBPath: "file::memory:"}, zap.NewNop())
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db, zap.NewNop()))

	ids, err := services.NewTaskIDPolicy(config.IDPolicyUUID)
	suite.Require().NoError(err)

	store := repository.NewStore(suite.db)
	log := zap.NewNop()

	// Without an AI service, /api/tasks/generate reports 503
	taskService := services.NewTaskService(store, ids, nil, log)
	userService := services.NewUserService(store, log)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	RegisterRoutes(suite.router,
		NewHealthHandler(suite.db),
		NewTaskHandler(taskService, log),
		NewUserHandler(userService, log),
	)
}

// TearDownTest runs after each test
func (suite *apiSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// do sends a request through the router; body is JSON-encoded unless it is
// already a string
func (suite *apiSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *apiSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

// Helper function to create test data
func (suite *apiSuite) createTestUser(id, username string, role models.Role) *models.User {
	now := time.Now().UTC()
	user := &models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		Role:         role,
		PasswordHash: "hashedpassword",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *apiSuite) createTestTask(id, title string, assigneeID *string) *models.Task {
	now := time.Now().UTC()
	task := &models.Task{
		ID:         id,
		Title:      title,
		Priority:   models.PriorityLow,
		Status:     models.TaskStatusNotStarted,
		AssigneeID: assigneeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *apiSuite) reloadTask(id string) models.Task {
	var task models.Task
	suite.Require().NoError(suite.db.Where("id = ?", id).First(&task).Error)
	return task
}

func (suite *apiSuite) assertError(w *httptest.ResponseRecorder, status int, code string) {
	suite.Equal(status, w.Code, w.Body.String())
	var body map[string]interface{}
	suite.decode(w, &body)
	suite.Equal(code, body["code"])
}

func strPtr(s string) *string {
	return &s
}
