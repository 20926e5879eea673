package interfaces

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]*entities.User, error)
}
