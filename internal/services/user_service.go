package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/abacus-tasks/internal/constants"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"github.com/yukikurage/abacus-tasks/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var passwordRules = fmt.Sprintf("required,min=%d,max=%d", constants.MinPasswordLength, constants.MaxPasswordLength)

// UserService handles employee records and keeps task assignments
// consistent when a user changes or disappears.
type UserService struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, log *zap.Logger) *UserService {
	return &UserService{
		store: store,
		log:   log,
		now:   utcNow,
	}
}

// CreateUserInput represents the required information to create a new user.
type CreateUserInput struct {
	Username string
	Email    string
	FullName *string
	Role     models.Role
	Password string
}

// CreateUser validates and stores a new user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	id, err := utils.GenerateUUID()
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:           id,
		Username:     normalizeUsername(input.Username),
		Email:        normalizeEmail(input.Email),
		FullName:     input.FullName,
		Role:         input.Role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Role == "" {
		user.Role = models.RoleEmployee
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureUnique(ctx, tx.Users(), user); err != nil {
			return err
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserConflict
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findUser(ctx, s.store.Users(), id, repository.NoLock)
}

// ListUsers returns the users matching filter.
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.User, error) {
	users, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial update. Turning a user who holds assignments
// into an admin is refused, since admins may not be assignees.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*models.User, error) {
	if input.IsEmpty() {
		return s.GetUser(ctx, id)
	}

	var hash string
	if input.Password != nil {
		if err := checkPassword(*input.Password); err != nil {
			return nil, err
		}
		var err error
		if hash, err = hashPassword(*input.Password); err != nil {
			return nil, err
		}
	}

	var updated models.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := findUser(ctx, tx.Users(), id, repository.LockUpdate)
		if err != nil {
			return err
		}

		next := ApplyUserUpdate(*user, input, hash, s.now())
		if err := next.Validate(); err != nil {
			return err
		}

		if next.Username != user.Username || next.Email != user.Email {
			if err := ensureUnique(ctx, tx.Users(), &next); err != nil {
				return err
			}
		}

		if user.Role.CanHoldAssignments() && !next.Role.CanHoldAssignments() {
			count, err := tx.Tasks().CountByAssignee(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to count assignments: %w", err)
			}
			if count > 0 {
				return ErrRoleHasAssignments
			}
		}

		if err := tx.Users().Update(ctx, &next); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserConflict
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteUser removes a user and unassigns every task that pointed at them.
// The tasks themselves are kept.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	var cleared int64
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := findUser(ctx, tx.Users(), id, repository.LockUpdate); err != nil {
			return err
		}

		var err error
		if cleared, err = tx.Tasks().ClearAssignee(ctx, id, s.now()); err != nil {
			return fmt.Errorf("failed to unassign tasks: %w", err)
		}

		if err := tx.Users().Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Deleted user", zap.String("user_id", id), zap.Int64("unassigned_tasks", cleared))
	return nil
}

// ensureUnique rejects a username or email already used by another user
func ensureUnique(ctx context.Context, users repository.UserRepository, user *models.User) error {
	if other, err := users.FindByUsername(ctx, user.Username); err == nil {
		if other.ID != user.ID {
			return ErrUsernameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if other, err := users.FindByEmail(ctx, user.Email); err == nil {
		if other.ID != user.ID {
			return ErrEmailTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return nil
}

func findUser(ctx context.Context, users repository.UserRepository, id string, lock repository.LockMode) (*models.User, error) {
	user, err := users.FindByID(ctx, id, lock)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// checkPassword applies the length rules. The upper bound is counted in
// bytes as well as characters because bcrypt rejects longer input.
func checkPassword(password string) error {
	if err := models.ValidateVar("password", password, passwordRules); err != nil {
		return err
	}
	if len(password) > constants.MaxPasswordLength {
		return apierrors.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", constants.MaxPasswordLength))
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apierrors.NewValidationError("password", err.Error())
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
