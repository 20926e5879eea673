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

type JsonProjectRepository struct {
	filePath string
	data     []*entities.Project
}

func NewJSONProjectRepository(dataDir string) (interfaces.ProjectRepository, error) {
	repo := &JsonProjectRepository{
		filePath: filepath.Join(dataDir, "projects.json"),
		data:     []*entities.Project{},
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JsonProjectRepository) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.InternalErrorf("failed to read projects.json: %v", err)
	}

	var projects []*entities.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return errs.InternalErrorf("failed to unmarshal projects.json: %v", err)
	}

	r.data = projects
	return nil
}

func (r *JsonProjectRepository) ListProjects(ctx context.Context) ([]*entities.Project, error) {
	return r.data, nil
}
