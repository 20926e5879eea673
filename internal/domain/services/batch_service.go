package services

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.uber.org/zap"
)

// BatchService assembles the batch preview payload for one view from the
// platform repositories.
type BatchService interface {
	BuildBatch(ctx context.Context, view entities.ViewKind) (*entities.GraphBatch, error)
}

type batchService struct {
	agentRepo    interfaces.AgentRepository
	channelRepo  interfaces.ChannelRepository
	projectRepo  interfaces.ProjectRepository
	userRepo     interfaces.UserRepository
	securityRepo interfaces.SecurityRepository
	logger       *zap.Logger
}

func NewBatchService(
	agentRepo interfaces.AgentRepository,
	channelRepo interfaces.ChannelRepository,
	projectRepo interfaces.ProjectRepository,
	userRepo interfaces.UserRepository,
	securityRepo interfaces.SecurityRepository,
	logger *zap.Logger,
) *batchService {
	return &batchService{
		agentRepo:    agentRepo,
		channelRepo:  channelRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		securityRepo: securityRepo,
		logger:       logger,
	}
}

func (s *batchService) BuildBatch(ctx context.Context, view entities.ViewKind) (*entities.GraphBatch, error) {
	if !view.Valid() {
		return nil, errs.ValidationErrorf("unknown view kind: %s", view)
	}

	batch := &entities.GraphBatch{}

	if view == entities.ViewSecurity {
		hierarchy, err := s.securityRepo.GetSecurityHierarchy(ctx)
		if err != nil {
			return nil, err
		}
		batch.Security = hierarchy
		return batch, nil
	}

	agents, err := s.agentRepo.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	batch.Agents = agents

	switch view {
	case entities.ViewAgents:
		channels, err := s.channelRepo.ListChannelInstances(ctx)
		if err != nil {
			return nil, err
		}
		batch.Channels = channels
	case entities.ViewProjects:
		projects, err := s.projectRepo.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		batch.Projects = projects
	case entities.ViewUsers:
		users, err := s.userRepo.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		batch.Users = users
	}

	return batch, nil
}

// verify interface implementation
var _ BatchService = &batchService{}
