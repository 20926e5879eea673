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

// JsonExpandSource serves expand-data bundles from a single seed file
// mapping agent id to bundle.
type JsonExpandSource struct {
	filePath string
	data     map[string]*entities.AgentExpandData
}

func NewJSONExpandSource(dataDir string) (interfaces.ExpandDataSource, error) {
	repo := &JsonExpandSource{
		filePath: filepath.Join(dataDir, "expand_data.json"),
		data:     map[string]*entities.AgentExpandData{},
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JsonExpandSource) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.InternalErrorf("failed to read expand_data.json: %v", err)
	}

	var bundles map[string]*entities.AgentExpandData
	if err := json.Unmarshal(data, &bundles); err != nil {
		return errs.InternalErrorf("failed to unmarshal expand_data.json: %v", err)
	}

	r.data = bundles
	return nil
}

func (r *JsonExpandSource) FetchAgentExpandData(ctx context.Context, agentID string) (*entities.AgentExpandData, error) {
	bundle, ok := r.data[agentID]
	if !ok {
		return &entities.AgentExpandData{}, nil
	}
	return bundle, nil
}
