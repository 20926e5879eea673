package services

import (
	"testing"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeByID(g *entities.Graph, id string) *entities.Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func edgeByID(g *entities.Graph, id string) *entities.Edge {
	for _, e := range g.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func TestBuildGraph_UnknownView(t *testing.T) {
	_, err := BuildGraph("bogus", &entities.GraphBatch{}, entities.ViewFilters{})
	assert.Error(t, err)
	assert.IsType(t, &errs.ValidationError{}, err)
}

func TestBuildGraph_NilBatch(t *testing.T) {
	_, err := BuildGraph(entities.ViewAgents, nil, entities.ViewFilters{})
	assert.Error(t, err)
}

func TestAgentsView_PlaygroundEdges(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{
			{ID: "1", Name: "Support", IsActive: true, PlaygroundEnabled: true},
			{ID: "2", Name: "Sales", IsActive: true},
			{ID: "3", Name: "Old", IsActive: false},
		},
	}

	g, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{})
	require.NoError(t, err)

	// Inactive agents are filtered before synthesis.
	assert.Nil(t, nodeByID(g, "agent-3"))
	require.NotNil(t, nodeByID(g, entities.PlaygroundChannelNodeID))

	enabled := edgeByID(g, entities.EdgeID(entities.PlaygroundChannelNodeID, "agent-1"))
	require.NotNil(t, enabled)
	assert.True(t, enabled.Animated)
	assert.False(t, enabled.Dashed)

	standing := edgeByID(g, entities.EdgeID(entities.PlaygroundChannelNodeID, "agent-2"))
	require.NotNil(t, standing)
	assert.False(t, standing.Animated)
	assert.True(t, standing.Dashed)
}

func TestAgentsView_NoPlaygroundWithoutActiveAgents(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{{ID: "1", IsActive: false}},
	}

	g, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{ShowInactive: true})
	require.NoError(t, err)
	assert.NotNil(t, nodeByID(g, "agent-1"))
	assert.Nil(t, nodeByID(g, entities.PlaygroundChannelNodeID))
}

func TestAgentsView_ShowInactiveFilter(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{{ID: "1", IsActive: false}},
	}

	hidden, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{})
	require.NoError(t, err)
	assert.Len(t, hidden.Nodes, 0)

	shown, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{ShowInactive: true})
	require.NoError(t, err)
	assert.Len(t, shown.Nodes, 1)
}

func TestAgentsView_ChannelDeduplication(t *testing.T) {
	shared := &entities.ChannelInstance{ID: "c1", Transport: "whatsapp", Name: "Main", IsEnabled: true, AgentIDs: []string{"1", "2"}}
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{
			{ID: "1", IsActive: true},
			{ID: "2", IsActive: true},
		},
		Channels: entities.ChannelSet{
			WhatsApp: []*entities.ChannelInstance{shared},
			Telegram: []*entities.ChannelInstance{{ID: "c1", Transport: "whatsapp", AgentIDs: []string{"1"}}},
		},
	}

	g, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{})
	require.NoError(t, err)

	count := 0
	for _, n := range g.Nodes {
		if n.ID == "channel-c1" {
			count++
		}
	}
	assert.Equal(t, 1, count, "an instance appears once regardless of how many agents reference it")

	assert.NotNil(t, edgeByID(g, entities.EdgeID("channel-c1", "agent-1")))
	assert.NotNil(t, edgeByID(g, entities.EdgeID("channel-c1", "agent-2")))
}

func TestAgentsView_ChannelWithoutBoundAgentsOmitted(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{{ID: "1", IsActive: true}},
		Channels: entities.ChannelSet{
			Telegram: []*entities.ChannelInstance{{ID: "c9", Transport: "telegram", AgentIDs: []string{"missing"}}},
		},
	}

	g, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{})
	require.NoError(t, err)
	assert.Nil(t, nodeByID(g, "channel-c9"))
}

func TestProjectsView(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{
			{ID: "1", IsActive: true},
			{ID: "2", IsActive: true},
		},
		Projects: []*entities.Project{
			{ID: "p1", Name: "CRM Rollout", AgentIDs: []string{"1", "2"}},
			{ID: "p2", Name: "Legacy", IsArchived: true},
		},
	}

	g, err := BuildGraph(entities.ViewProjects, batch, entities.ViewFilters{})
	require.NoError(t, err)

	assert.Nil(t, nodeByID(g, "project-p2"), "archived projects hidden by default")
	p1 := nodeByID(g, "project-p1")
	require.NotNil(t, p1)
	assert.Equal(t, 2, p1.Data.(entities.ProjectNodeData).AgentCount)

	shown, err := BuildGraph(entities.ViewProjects, batch, entities.ViewFilters{ShowArchived: true})
	require.NoError(t, err)
	assert.NotNil(t, nodeByID(shown, "project-p2"))
}

func TestUsersView_DefaultAgentOnlyWhenTargeted(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{{ID: "1", IsActive: true}},
		Users: []*entities.User{
			{ID: "u1", Name: "Ana", AgentID: "1", IsActive: true},
		},
	}

	g, err := BuildGraph(entities.ViewUsers, batch, entities.ViewFilters{})
	require.NoError(t, err)
	assert.Nil(t, nodeByID(g, entities.DefaultAgentNodeID), "no orphan default agent node")

	batch.Users = append(batch.Users, &entities.User{ID: "u2", Name: "Bo", IsActive: true})
	g, err = BuildGraph(entities.ViewUsers, batch, entities.ViewFilters{})
	require.NoError(t, err)
	assert.NotNil(t, nodeByID(g, entities.DefaultAgentNodeID))
	assert.NotNil(t, edgeByID(g, entities.EdgeID("user-u2", entities.DefaultAgentNodeID)))
	assert.NotNil(t, edgeByID(g, entities.EdgeID("user-u1", "agent-1")))
}

func TestSecurityView_InheritanceEncoding(t *testing.T) {
	batch := &entities.GraphBatch{
		Security: &entities.SecurityHierarchy{
			TenantProfile: &entities.SecurityProfile{ID: "strict", Name: "Strict", Level: "strict"},
			Agents: []entities.AgentSecurityEntry{
				{
					AgentID:   "1",
					AgentName: "Support",
					// No profile: inherits the tenant's.
					Skills: []entities.SkillSecurityEntry{
						{SkillID: "s1", SkillName: "Search"},
						{SkillID: "s2", SkillName: "Mail", ProfileID: "relaxed", ProfileName: "Relaxed"},
					},
				},
				{
					AgentID:   "2",
					AgentName: "Sales",
					ProfileID: "standard", ProfileName: "Standard",
				},
			},
		},
	}

	g, err := BuildGraph(entities.ViewSecurity, batch, entities.ViewFilters{})
	require.NoError(t, err)

	inherited := edgeByID(g, entities.EdgeID(entities.TenantSecurityNodeID, entities.AgentSecurityNodeID("1")))
	require.NotNil(t, inherited)
	assert.True(t, inherited.Dashed)

	explicit := edgeByID(g, entities.EdgeID(entities.TenantSecurityNodeID, entities.AgentSecurityNodeID("2")))
	require.NotNil(t, explicit)
	assert.False(t, explicit.Dashed)

	agent1 := nodeByID(g, entities.AgentSecurityNodeID("1")).Data.(entities.AgentSecurityNodeData)
	assert.True(t, agent1.Inherited)
	assert.Equal(t, "strict", agent1.ProfileID, "inherited profile resolves to the tenant's")

	// Skill s1 inherits through the agent down from the tenant; s2 is
	// explicit.
	s1 := nodeByID(g, entities.SkillSecurityNodeID("1", "s1")).Data.(entities.SkillSecurityNodeData)
	assert.True(t, s1.Inherited)
	assert.Equal(t, "strict", s1.ProfileID)

	s2Edge := edgeByID(g, entities.EdgeID(entities.AgentSecurityNodeID("1"), entities.SkillSecurityNodeID("1", "s2")))
	require.NotNil(t, s2Edge)
	assert.False(t, s2Edge.Dashed)
}

func TestSecurityView_EmptyHierarchy(t *testing.T) {
	g, err := BuildGraph(entities.ViewSecurity, &entities.GraphBatch{}, entities.ViewFilters{})
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 0)
}

func TestBuildGraph_Deterministic(t *testing.T) {
	batch := &entities.GraphBatch{
		Agents: []*entities.Agent{
			{ID: "1", IsActive: true, PlaygroundEnabled: true},
			{ID: "2", IsActive: true},
		},
		Channels: entities.ChannelSet{
			WhatsApp: []*entities.ChannelInstance{{ID: "c1", Transport: "whatsapp", IsEnabled: true, AgentIDs: []string{"1"}}},
		},
	}

	a, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{})
	require.NoError(t, err)
	b, err := BuildGraph(entities.ViewAgents, batch, entities.ViewFilters{})
	require.NoError(t, err)

	require.Equal(t, len(a.Nodes), len(b.Nodes))
	for i := range a.Nodes {
		assert.Equal(t, a.Nodes[i].ID, b.Nodes[i].ID)
	}
	require.Equal(t, len(a.Edges), len(b.Edges))
	for i := range a.Edges {
		assert.Equal(t, a.Edges[i].ID, b.Edges[i].ID)
	}
}
