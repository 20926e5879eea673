package interfaces

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

type ChannelRepository interface {
	ListChannelInstances(ctx context.Context) (entities.ChannelSet, error)
}
