package interfaces

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]*entities.Project, error)
}
