package interfaces

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

type AgentRepository interface {
	ListAgents(ctx context.Context) ([]*entities.Agent, error)
}
