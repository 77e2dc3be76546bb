package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/abacus-tasks/internal/config"
	"github.com/yukikurage/abacus-tasks/internal/database"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testCtx = context.Background()

// fakeClock advances one minute on every reading
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

// serviceSuite wires both services to a fresh in-memory database
type serviceSuite struct {
	suite.Suite
	db    *gorm.DB
	store repository.Store
	tasks *TaskService
	users *UserService
	clock *fakeClock
}

func (s *serviceSuite) SetupTest() {
	cfg := &config.Config{DBDriver: config.DriverSQLite, DBPath: "file::memory:"}

	var err error
	s.db, err = database.Connect(cfg, zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(s.db, zap.NewNop()))

	ids, err := NewTaskIDPolicy(config.IDPolicyUUID)
	s.Require().NoError(err)

	s.clock = newFakeClock()
	s.store = repository.NewStore(s.db)
	s.tasks = NewTaskService(s.store, ids, nil, zap.NewNop())
	s.tasks.now = s.clock.Now
	s.users = NewUserService(s.store, zap.NewNop())
	s.users.now = s.clock.Now
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

// createUser inserts a user directly, skipping password hashing
func (s *serviceSuite) createUser(id, username string, role models.Role) *models.User {
	now := s.clock.Now()
	user := &models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		Role:         role,
		PasswordHash: "hashedpassword",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *serviceSuite) createTask(id string, assigneeID *string) *models.Task {
	task, err := s.tasks.CreateTask(testCtx, CreateTaskInput{
		ID:         id,
		Title:      "Task " + id,
		AssigneeID: assigneeID,
	})
	s.Require().NoError(err)
	return task
}

func (s *serviceSuite) reloadTask(id string) *models.Task {
	var task models.Task
	s.Require().NoError(s.db.Where("id = ?", id).First(&task).Error)
	return &task
}

// assertAssignmentsValid checks that every assigned task points at an
// existing employee or manager
func (s *serviceSuite) assertAssignmentsValid() {
	var tasks []models.Task
	s.Require().NoError(s.db.Find(&tasks).Error)

	for _, task := range tasks {
		if !task.IsAssigned() {
			continue
		}
		var user models.User
		err := s.db.Where("id = ?", *task.AssigneeID).First(&user).Error
		s.Require().NoError(err, "task %s points at missing user %s", task.ID, *task.AssigneeID)
		s.True(user.Role.CanHoldAssignments(), "task %s assigned to %s user", task.ID, user.Role)
	}
}

// failingUsersStore fails every user lookup with err and counts task reads
type failingUsersStore struct {
	repository.Store
	err       error
	taskReads *int
}

func (s failingUsersStore) Users() repository.UserRepository {
	return failingUsers{UserRepository: s.Store.Users(), err: s.err}
}

func (s failingUsersStore) Tasks() repository.TaskRepository {
	return countingTasks{TaskRepository: s.Store.Tasks(), reads: s.taskReads}
}

func (s failingUsersStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(failingUsersStore{Store: tx, err: s.err, taskReads: s.taskReads})
	})
}

type failingUsers struct {
	repository.UserRepository
	err error
}

func (u failingUsers) FindByID(context.Context, string, repository.LockMode) (*models.User, error) {
	return nil, u.err
}

type countingTasks struct {
	repository.TaskRepository
	reads *int
}

func (t countingTasks) FindByID(ctx context.Context, id string, lock repository.LockMode) (*models.Task, error) {
	*t.reads++
	return t.TaskRepository.FindByID(ctx, id, lock)
}
