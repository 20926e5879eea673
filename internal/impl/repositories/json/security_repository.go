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

type JsonSecurityRepository struct {
	filePath string
	data     *entities.SecurityHierarchy
}

func NewJSONSecurityRepository(dataDir string) (interfaces.SecurityRepository, error) {
	repo := &JsonSecurityRepository{
		filePath: filepath.Join(dataDir, "security.json"),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JsonSecurityRepository) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.InternalErrorf("failed to read security.json: %v", err)
	}

	var hierarchy entities.SecurityHierarchy
	if err := json.Unmarshal(data, &hierarchy); err != nil {
		return errs.InternalErrorf("failed to unmarshal security.json: %v", err)
	}

	r.data = &hierarchy
	return nil
}

func (r *JsonSecurityRepository) GetSecurityHierarchy(ctx context.Context) (*entities.SecurityHierarchy, error) {
	if r.data == nil {
		return nil, errs.NotFoundErrorf("security hierarchy not found")
	}
	return r.data, nil
}
