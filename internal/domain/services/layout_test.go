package services

import (
	"testing"

	"github.com/agentfleet/watcher/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hierarchyFixture() ([]*entities.Node, []*entities.Edge) {
	nodes := []*entities.Node{
		{ID: "channel-playground", Kind: entities.NodeKindChannel, Data: entities.ChannelNodeData{ChannelID: "playground"}},
		{ID: "agent-1", Kind: entities.NodeKindAgent, Data: entities.AgentNodeData{AgentID: "1"}},
		{ID: "agent-2", Kind: entities.NodeKindAgent, Data: entities.AgentNodeData{AgentID: "2"}},
		{ID: "skill-category-1-search", Kind: entities.NodeKindSkillCategory, Data: entities.SkillCategoryNodeData{AgentID: "1", Category: "search"}},
		{ID: "knowledge-1", Kind: entities.NodeKindKnowledgeSummary, Data: entities.KnowledgeSummaryNodeData{AgentID: "1"}},
		{ID: "skill-1-7", Kind: entities.NodeKindSkill, Data: entities.SkillNodeData{AgentID: "1", SkillID: "7"}},
		{ID: "skill-provider-1-7-gmail", Kind: entities.NodeKindSkillProvider, Data: entities.SkillProviderNodeData{AgentID: "1", SkillID: "7"}},
	}
	edges := []*entities.Edge{
		entities.NewEdge("channel-playground", "agent-1"),
		entities.NewEdge("channel-playground", "agent-2"),
		entities.NewEdge("agent-1", "skill-category-1-search"),
		entities.NewEdge("agent-1", "knowledge-1"),
		entities.NewEdge("skill-category-1-search", "skill-1-7"),
		entities.NewEdge("skill-1-7", "skill-provider-1-7-gmail"),
	}
	return nodes, edges
}

func TestApplyLayout_RankNeverInverts(t *testing.T) {
	nodes, edges := hierarchyFixture()
	placed := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionLR})

	byID := make(map[string]*entities.Node)
	for _, n := range placed {
		byID[n.ID] = n
	}
	for _, e := range edges {
		src, tgt := byID[e.Source], byID[e.Target]
		assert.GreaterOrEqual(t, tgt.Kind.Rank(), src.Kind.Rank(),
			"edge %s violates the rank invariant", e.ID)
		assert.Greater(t, tgt.Position.X, src.Position.X,
			"edge %s: target should sit right of source", e.ID)
	}
}

func TestApplyLayout_InputNodesUntouched(t *testing.T) {
	nodes, edges := hierarchyFixture()
	placed := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionLR})

	for i, n := range nodes {
		assert.Equal(t, entities.Position{}, n.Position, "input node %s was written", n.ID)
		assert.NotSame(t, n, placed[i], "node %s must be a replacement struct", n.ID)
		assert.Equal(t, n.ID, placed[i].ID, "output preserves input order")
	}
}

func TestApplyLayout_ForcesLeftToRightForHierarchy(t *testing.T) {
	nodes, edges := hierarchyFixture()
	// User preference says top-to-bottom, but channel/skill nodes are
	// present, so the layout must read left to right anyway.
	placed := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionTB})

	byID := make(map[string]*entities.Node)
	for _, n := range placed {
		byID[n.ID] = n
	}
	assert.Greater(t, byID["agent-1"].Position.X, byID["channel-playground"].Position.X)
	assert.Greater(t, byID["skill-1-7"].Position.X, byID["skill-category-1-search"].Position.X)
}

func TestApplyLayout_TopToBottomWithoutHierarchyNodes(t *testing.T) {
	nodes := []*entities.Node{
		{ID: "user-u1", Kind: entities.NodeKindUser, Data: entities.UserNodeData{UserID: "u1"}},
		{ID: "agent-1", Kind: entities.NodeKindAgent, Data: entities.AgentNodeData{AgentID: "1"}},
	}
	edges := []*entities.Edge{entities.NewEdge("user-u1", "agent-1")}
	placed := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionTB})

	assert.Greater(t, placed[1].Position.Y, placed[0].Position.Y,
		"TB layout should stack the target below the source")
}

func TestApplyLayout_ZeroNodesIsNoOp(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Nil(t, ApplyLayout(nil, nil, LayoutOptions{}))
	})
}

func TestApplyLayout_Deterministic(t *testing.T) {
	nodesA, edgesA := hierarchyFixture()
	nodesB, edgesB := hierarchyFixture()
	placedA := ApplyLayout(nodesA, edgesA, LayoutOptions{Direction: DirectionLR})
	placedB := ApplyLayout(nodesB, edgesB, LayoutOptions{Direction: DirectionLR})

	for i := range placedA {
		assert.Equal(t, placedA[i].Position, placedB[i].Position, "node %s", placedA[i].ID)
	}
}

func TestApplyLayout_RepeatedCallsStable(t *testing.T) {
	nodes, edges := hierarchyFixture()
	first := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionLR})
	second := ApplyLayout(first, edges, LayoutOptions{Direction: DirectionLR})

	for i := range first {
		assert.Equal(t, first[i].Position, second[i].Position, "node %s moved on a repeat pass", first[i].ID)
	}
}

func TestApplyLayout_UsesMeasuredSizes(t *testing.T) {
	nodes, edges := hierarchyFixture()
	wide := map[string]entities.Size{
		"channel-playground": {Width: 600, Height: 80},
	}
	placed := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionLR, Sizes: wide})

	byID := make(map[string]*entities.Node)
	for _, n := range placed {
		byID[n.ID] = n
	}
	// A wider first layer pushes the second layer further right than the
	// default width would.
	assert.Greater(t, byID["agent-1"].Position.X, 600.0-defaultNodeWidth)
}

func TestApplyLayout_NoDanglingEdgeReferences(t *testing.T) {
	nodes := []*entities.Node{
		{ID: "agent-1", Kind: entities.NodeKindAgent, Data: entities.AgentNodeData{AgentID: "1"}},
	}
	edges := []*entities.Edge{entities.NewEdge("agent-1", "ghost")}
	assert.NotPanics(t, func() {
		ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionLR})
	})
}

func TestFitViewport(t *testing.T) {
	nodes, edges := hierarchyFixture()
	placed := ApplyLayout(nodes, edges, LayoutOptions{Direction: DirectionLR})

	vp := FitViewport(placed, nil, 1200, 800)
	require.Greater(t, vp.Zoom, 0.0)
	assert.LessOrEqual(t, vp.Zoom, 2.0)
	assert.GreaterOrEqual(t, vp.Zoom, 0.2)
}

func TestFitViewport_EmptyGraph(t *testing.T) {
	vp := FitViewport(nil, nil, 1200, 800)
	assert.Equal(t, entities.Viewport{Zoom: 1}, vp)
}
