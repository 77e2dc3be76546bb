package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/abacus-tasks/internal/dto"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/middleware"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"github.com/yukikurage/abacus-tasks/internal/services"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

type createUserRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	FullName *string     `json:"full_name"`
	Role     models.Role `json:"role"`
	Password string      `json:"password"`
}

// CreateUser registers a new employee
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("User created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListUsers returns all users, optionally filtered by role
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter repository.UserFilter
	if role := c.Query("role"); role != "" {
		if err := models.ValidateVar("role", role, "oneof=admin manager employee"); err != nil {
			apierrors.Respond(c, err)
			return
		}
		r := models.Role(role)
		filter.Role = &r
	}

	users, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users))
}

// GetUser returns one user
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), middleware.GetEntityID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies the fields present in the body. full_name may be null.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	body, err := bindPatch(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := userPatch(body)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), middleware.GetEntityID(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func userPatch(body patchBody) (services.UpdateUserInput, error) {
	var input services.UpdateUserInput
	var err error

	if input.Username, err = field[string](body, "username"); err != nil {
		return input, err
	}
	if input.Email, err = field[string](body, "email"); err != nil {
		return input, err
	}
	if input.FullName, input.ClearFullName, err = nullableField[string](body, "full_name"); err != nil {
		return input, err
	}
	if input.Role, err = field[models.Role](body, "role"); err != nil {
		return input, err
	}
	if input.Password, err = field[string](body, "password"); err != nil {
		return input, err
	}

	return input, nil
}

// DeleteUser deletes a user. Tasks assigned to them stay, unassigned.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.GetEntityID(c)); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	logUnexpected(h.log, c, err)
	apierrors.Respond(c, err)
}
