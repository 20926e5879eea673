package services

import (
	"context"
	"testing"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockAgentRepository struct {
	mock.Mock
}

func (m *mockAgentRepository) ListAgents(ctx context.Context) ([]*entities.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]*entities.Agent), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChannelRepository struct {
	mock.Mock
}

func (m *mockChannelRepository) ListChannelInstances(ctx context.Context) (entities.ChannelSet, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.ChannelSet), args.Error(1)
}

type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) ListProjects(ctx context.Context) ([]*entities.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]*entities.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) ListUsers(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSecurityRepository struct {
	mock.Mock
}

func (m *mockSecurityRepository) GetSecurityHierarchy(ctx context.Context) (*entities.SecurityHierarchy, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.SecurityHierarchy), args.Error(1)
	}
	return nil, args.Error(1)
}

type batchMocks struct {
	agents   *mockAgentRepository
	channels *mockChannelRepository
	projects *mockProjectRepository
	users    *mockUserRepository
	security *mockSecurityRepository
}

func newBatchService(t *testing.T) (BatchService, *batchMocks) {
	t.Helper()
	m := &batchMocks{
		agents:   new(mockAgentRepository),
		channels: new(mockChannelRepository),
		projects: new(mockProjectRepository),
		users:    new(mockUserRepository),
		security: new(mockSecurityRepository),
	}
	svc := NewBatchService(m.agents, m.channels, m.projects, m.users, m.security, zap.NewNop())
	return svc, m
}

func TestBatchService_AgentsView(t *testing.T) {
	svc, m := newBatchService(t)
	agents := []*entities.Agent{{ID: "1", Name: "Support", IsActive: true}}
	channels := entities.ChannelSet{
		WhatsApp: []*entities.ChannelInstance{{ID: "c1", Transport: "whatsapp", IsEnabled: true, AgentIDs: []string{"1"}}},
	}
	m.agents.On("ListAgents", mock.Anything).Return(agents, nil)
	m.channels.On("ListChannelInstances", mock.Anything).Return(channels, nil)

	batch, err := svc.BuildBatch(context.Background(), entities.ViewAgents)

	require.NoError(t, err)
	assert.Equal(t, agents, batch.Agents)
	assert.Len(t, batch.Channels.All(), 1)
	assert.Empty(t, batch.Projects)
	assert.Nil(t, batch.Security)
	m.projects.AssertNotCalled(t, "ListProjects", mock.Anything)
	m.users.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestBatchService_ProjectsView(t *testing.T) {
	svc, m := newBatchService(t)
	m.agents.On("ListAgents", mock.Anything).Return([]*entities.Agent{{ID: "1"}}, nil)
	m.projects.On("ListProjects", mock.Anything).Return([]*entities.Project{{ID: "p1", Name: "Onboarding"}}, nil)

	batch, err := svc.BuildBatch(context.Background(), entities.ViewProjects)

	require.NoError(t, err)
	assert.Len(t, batch.Projects, 1)
	m.channels.AssertNotCalled(t, "ListChannelInstances", mock.Anything)
}

func TestBatchService_UsersView(t *testing.T) {
	svc, m := newBatchService(t)
	m.agents.On("ListAgents", mock.Anything).Return([]*entities.Agent{{ID: "1"}}, nil)
	m.users.On("ListUsers", mock.Anything).Return([]*entities.User{{ID: "u1", Name: "Dana", AgentID: "1"}}, nil)

	batch, err := svc.BuildBatch(context.Background(), entities.ViewUsers)

	require.NoError(t, err)
	assert.Len(t, batch.Users, 1)
}

func TestBatchService_SecurityViewSkipsAgentFetch(t *testing.T) {
	svc, m := newBatchService(t)
	hierarchy := &entities.SecurityHierarchy{
		TenantProfile: &entities.SecurityProfile{ID: "sp1", Name: "Strict", Level: "strict"},
	}
	m.security.On("GetSecurityHierarchy", mock.Anything).Return(hierarchy, nil)

	batch, err := svc.BuildBatch(context.Background(), entities.ViewSecurity)

	require.NoError(t, err)
	assert.Same(t, hierarchy, batch.Security)
	assert.Empty(t, batch.Agents)
	m.agents.AssertNotCalled(t, "ListAgents", mock.Anything)
}

func TestBatchService_InvalidView(t *testing.T) {
	svc, _ := newBatchService(t)
	_, err := svc.BuildBatch(context.Background(), "bogus")
	require.Error(t, err)
	assert.IsType(t, &errs.ValidationError{}, err)
}

func TestBatchService_RepositoryErrorPropagates(t *testing.T) {
	svc, m := newBatchService(t)
	m.agents.On("ListAgents", mock.Anything).Return(nil, errs.InternalErrorf("connection refused"))

	_, err := svc.BuildBatch(context.Background(), entities.ViewAgents)
	require.Error(t, err)
	assert.IsType(t, &errs.InternalError{}, err)
}
