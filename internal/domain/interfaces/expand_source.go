package interfaces

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

// ExpandDataSource supplies the child bundle for one agent. Results are
// cached by the expansion layer; implementations should not cache.
type ExpandDataSource interface {
	FetchAgentExpandData(ctx context.Context, agentID string) (*entities.AgentExpandData, error)
}
