package repositories_json

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"
)

type JsonChannelRepository struct {
	filePath string
	data     entities.ChannelSet
}

func NewJSONChannelRepository(dataDir string) (interfaces.ChannelRepository, error) {
	repo := &JsonChannelRepository{
		filePath: filepath.Join(dataDir, "channels.json"),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JsonChannelRepository) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.InternalErrorf("failed to read channels.json: %v", err)
	}

	var set entities.ChannelSet
	if err := json.Unmarshal(data, &set); err != nil {
		return errs.InternalErrorf("failed to unmarshal channels.json: %v", err)
	}

	r.data = set
	return nil
}

func (r *JsonChannelRepository) ListChannelInstances(ctx context.Context) (entities.ChannelSet, error) {
	return r.data, nil
}
