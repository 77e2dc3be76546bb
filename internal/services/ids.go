package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/abacus-tasks/internal/config"
	"github.com/yukikurage/abacus-tasks/internal/constants"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"github.com/yukikurage/abacus-tasks/internal/utils"
)

// TaskIDPolicy decides the ID of a new task. A caller-supplied ID is always
// honored if free; otherwise the policy generates one or demands it.
type TaskIDPolicy struct {
	requireClientID bool
	generate        func() (string, error)
}

// NewTaskIDPolicy builds the policy named by one of the config.IDPolicy values
func NewTaskIDPolicy(name string) (*TaskIDPolicy, error) {
	switch name {
	case config.IDPolicyClient:
		return &TaskIDPolicy{requireClientID: true}, nil
	case config.IDPolicyUUID:
		return &TaskIDPolicy{generate: utils.GenerateUUID}, nil
	case config.IDPolicyShort:
		return &TaskIDPolicy{generate: func() (string, error) {
			return utils.GenerateShortID(constants.ShortIDLength)
		}}, nil
	default:
		return nil, fmt.Errorf("unknown task id policy %q", name)
	}
}

// resolve returns the ID to create the task under, checked against tasks
func (p *TaskIDPolicy) resolve(ctx context.Context, requested string, tasks repository.TaskRepository) (string, error) {
	if requested != "" {
		if !models.ValidEntityID(requested) {
			return "", models.ValidateVar("id", requested, "entityid")
		}
		exists, err := tasks.Exists(ctx, requested)
		if err != nil {
			return "", fmt.Errorf("failed to check task id: %w", err)
		}
		if exists {
			return "", ErrTaskIDTaken
		}
		return requested, nil
	}

	if p.requireClientID {
		return "", ErrTaskIDRequired
	}

	for i := 0; i < constants.MaxIDAttempts; i++ {
		id, err := p.generate()
		if err != nil {
			return "", err
		}
		exists, err := tasks.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check task id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", ErrTaskIDUnavailable
}
