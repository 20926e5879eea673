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

type JsonUserRepository struct {
	filePath string
	data     []*entities.User
}

func NewJSONUserRepository(dataDir string) (interfaces.UserRepository, error) {
	repo := &JsonUserRepository{
		filePath: filepath.Join(dataDir, "users.json"),
		data:     []*entities.User{},
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *JsonUserRepository) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.InternalErrorf("failed to read users.json: %v", err)
	}

	var users []*entities.User
	if err := json.Unmarshal(data, &users); err != nil {
		return errs.InternalErrorf("failed to unmarshal users.json: %v", err)
	}

	r.data = users
	return nil
}

func (r *JsonUserRepository) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return r.data, nil
}
