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

type JsonAgentRepository struct {
	filePath string
	data     []*entities.Agent
}

func NewJSONAgentRepository(dataDir string) (interfaces.AgentRepository, error) {
	repo := &JsonAgentRepository{
		filePath: filepath.Join(dataDir, "agents.json"),
		data:     []*entities.Agent{},
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JsonAgentRepository) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet, start with empty data
	}
	if err != nil {
		return errs.InternalErrorf("failed to read agents.json: %v", err)
	}

	var agents []*entities.Agent
	if err := json.Unmarshal(data, &agents); err != nil {
		return errs.InternalErrorf("failed to unmarshal agents.json: %v", err)
	}

	seenIDs := make(map[string]struct{})
	for _, agent := range agents {
		if agent.ID == "" {
			return errs.InternalErrorf("agent %s is missing an ID", agent.Name)
		}
		if _, exists := seenIDs[agent.ID]; exists {
			return errs.InternalErrorf("duplicate agent ID found: %s", agent.ID)
		}
		seenIDs[agent.ID] = struct{}{}
	}

	r.data = agents
	return nil
}

func (r *JsonAgentRepository) ListAgents(ctx context.Context) ([]*entities.Agent, error) {
	return r.data, nil
}
