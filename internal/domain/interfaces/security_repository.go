package interfaces

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

type SecurityRepository interface {
	GetSecurityHierarchy(ctx context.Context) (*entities.SecurityHierarchy, error)
}
