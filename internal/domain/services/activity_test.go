package services

import (
	"testing"

	"github.com/agentfleet/watcher/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityFixture() []*entities.Node {
	return []*entities.Node{
		{ID: "agent-1", Kind: entities.NodeKindAgent, Data: entities.AgentNodeData{AgentID: "1", SkillsCount: 2, HasKnowledgeBase: true}},
		{ID: "agent-2", Kind: entities.NodeKindAgent, Data: entities.AgentNodeData{AgentID: "2"}},
		{ID: "channel-c1", Kind: entities.NodeKindChannel, Data: entities.ChannelNodeData{ChannelID: "c1"}},
		{ID: "skill-category-1-audio", Kind: entities.NodeKindSkillCategory, Data: entities.SkillCategoryNodeData{AgentID: "1", Category: "audio"}},
		{ID: "skill-1-s5", Kind: entities.NodeKindSkill, Data: entities.SkillNodeData{AgentID: "1", SkillID: "s5", SkillType: "voice_call", SkillName: "Voice Call", Category: "audio"}},
		{ID: "skill-provider-1-s5-twilio", Kind: entities.NodeKindSkillProvider, Data: entities.SkillProviderNodeData{AgentID: "1", SkillID: "s5"}},
		{ID: "knowledge-1", Kind: entities.NodeKindKnowledgeSummary, Data: entities.KnowledgeSummaryNodeData{AgentID: "1"}},
	}
}

func TestMergeActivity_AgentFlags(t *testing.T) {
	nodes := activityFixture()
	snap := &entities.ActivitySnapshot{
		ProcessingAgents: []string{"1"},
		RecentSkillUse:   map[string][]string{"1": {"voice_call"}},
		RecentKBUse:      []string{"1"},
	}

	next, changed := MergeActivity(nodes, snap)
	require.Greater(t, changed, 0)

	agent := next[0].Data.(entities.AgentNodeData)
	assert.True(t, agent.Processing)
	assert.True(t, agent.HasActiveSkill)
	assert.True(t, agent.HasActiveKB)
	assert.False(t, agent.Fading)

	other := next[1].Data.(entities.AgentNodeData)
	assert.False(t, other.Processing)
}

func TestMergeActivity_Idempotent(t *testing.T) {
	nodes := activityFixture()
	snap := &entities.ActivitySnapshot{
		ProcessingAgents: []string{"1"},
		ActiveChannels:   []string{"c1"},
		RecentSkillUse:   map[string][]string{"1": {"voice_call"}},
	}

	next, changed := MergeActivity(nodes, snap)
	require.Greater(t, changed, 0)

	again, changed2 := MergeActivity(next, snap)
	assert.Equal(t, 0, changed2, "applying the same snapshot twice yields no further change")
	for i := range next {
		assert.Same(t, next[i], again[i])
	}
}

func TestMergeActivity_OnlyChangedNodesReplaced(t *testing.T) {
	nodes := activityFixture()
	snap := &entities.ActivitySnapshot{ActiveChannels: []string{"c1"}}

	next, changed := MergeActivity(nodes, snap)
	require.Equal(t, 1, changed)

	for i, n := range nodes {
		if n.ID == "channel-c1" {
			assert.NotSame(t, n, next[i])
			assert.True(t, next[i].Data.(entities.ChannelNodeData).Glowing)
			continue
		}
		assert.Same(t, n, next[i], "untouched nodes keep their pointer")
	}
}

func TestMergeActivity_VoiceCallAliasHitsAudioCategory(t *testing.T) {
	nodes := activityFixture()
	snap := &entities.ActivitySnapshot{
		RecentSkillUse: map[string][]string{"1": {"voice_call"}},
	}

	next, _ := MergeActivity(nodes, snap)

	var category entities.SkillCategoryNodeData
	var skill entities.SkillNodeData
	var provider entities.SkillProviderNodeData
	for _, n := range next {
		switch n.ID {
		case "skill-category-1-audio":
			category = n.Data.(entities.SkillCategoryNodeData)
		case "skill-1-s5":
			skill = n.Data.(entities.SkillNodeData)
		case "skill-provider-1-s5-twilio":
			provider = n.Data.(entities.SkillProviderNodeData)
		}
	}

	assert.True(t, category.Active, "voice_call use must light the audio category")
	assert.True(t, skill.Active)
	assert.True(t, provider.Active, "provider mirrors its parent skill")
}

func TestMergeActivity_FadingAgentFadesSkillUse(t *testing.T) {
	nodes := activityFixture()
	snap := &entities.ActivitySnapshot{
		FadingAgents:   []string{"1"},
		RecentSkillUse: map[string][]string{"1": {"voice_call"}},
		RecentKBUse:    []string{"1"},
	}

	next, _ := MergeActivity(nodes, snap)
	for _, n := range next {
		switch n.ID {
		case "skill-1-s5":
			data := n.Data.(entities.SkillNodeData)
			assert.False(t, data.Active)
			assert.True(t, data.Fading)
		case "knowledge-1":
			data := n.Data.(entities.KnowledgeSummaryNodeData)
			assert.False(t, data.Active)
			assert.True(t, data.Fading)
		}
	}
}

func TestMergeActivity_UnknownIdsIgnored(t *testing.T) {
	nodes := activityFixture()
	snap := &entities.ActivitySnapshot{
		ProcessingAgents: []string{"ghost"},
		ActiveChannels:   []string{"ghost"},
		RecentSkillUse:   map[string][]string{"ghost": {"web_search"}},
	}

	next, changed := MergeActivity(nodes, snap)
	assert.Equal(t, 0, changed)
	for i := range nodes {
		assert.Same(t, nodes[i], next[i])
	}
}

func TestMergeActivity_ClearsFlagsOnEmptySnapshot(t *testing.T) {
	nodes := activityFixture()
	active := &entities.ActivitySnapshot{ProcessingAgents: []string{"1"}}
	next, changed := MergeActivity(nodes, active)
	require.Equal(t, 1, changed)

	cleared, changed := MergeActivity(next, &entities.ActivitySnapshot{})
	require.Equal(t, 1, changed)
	assert.False(t, cleared[0].Data.(entities.AgentNodeData).Processing)
}

func TestMergeActivity_DoesNotTouchPositions(t *testing.T) {
	nodes := activityFixture()
	nodes[0].Position = entities.Position{X: 120, Y: 40}
	snap := &entities.ActivitySnapshot{ProcessingAgents: []string{"1"}}

	next, _ := MergeActivity(nodes, snap)
	assert.Equal(t, entities.Position{X: 120, Y: 40}, next[0].Position)
	assert.Equal(t, len(nodes), len(next), "merge never adds or removes nodes")
}

func TestMergeActivity_NilSnapshot(t *testing.T) {
	nodes := activityFixture()
	next, changed := MergeActivity(nodes, nil)
	assert.Equal(t, 0, changed)
	assert.Equal(t, len(nodes), len(next))
}
