package entities

import (
	"testing"
)

func TestNodeIDs(t *testing.T) {
	if got := AgentNodeID("42"); got != "agent-42" {
		t.Errorf("Expected agent-42, got %s", got)
	}
	if got := SkillNodeID("42", "7"); got != "skill-42-7" {
		t.Errorf("Expected skill-42-7, got %s", got)
	}
	if got := SkillProviderNodeID("42", "7", "gmail"); got != "skill-provider-42-7-gmail" {
		t.Errorf("Expected skill-provider-42-7-gmail, got %s", got)
	}
	if got := SkillCategoryNodeID("42", "search"); got != "skill-category-42-search" {
		t.Errorf("Expected skill-category-42-search, got %s", got)
	}
	if got := EdgeID("agent-42", "skill-42-7"); got != "e-agent-42-skill-42-7" {
		t.Errorf("Expected e-agent-42-skill-42-7, got %s", got)
	}
}

func TestRankOrdering(t *testing.T) {
	// Tiers never invert along the expansion hierarchy.
	order := []NodeKind{NodeKindChannel, NodeKindAgent, NodeKindSkillCategory, NodeKindSkill, NodeKindSkillProvider}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("Expected rank(%s) > rank(%s), got %d <= %d",
				order[i], order[i-1], order[i].Rank(), order[i-1].Rank())
		}
	}
	if NodeKindKnowledgeSummary.Rank() != NodeKindSkillCategory.Rank() {
		t.Errorf("Expected knowledge summary and skill category on the same tier")
	}
}

func TestIsAgentDescendant(t *testing.T) {
	cases := []struct {
		nodeID  string
		agentID string
		want    bool
	}{
		{"skill-42-7", "42", true},
		{"skill-category-42-search", "42", true},
		{"skill-provider-42-7-gmail", "42", true},
		{"knowledge-42", "42", true},
		{"agent-42", "42", false},
		{"skill-421-7", "42", false},
		{"knowledge-421", "42", false},
		{"skill-42-7", "421", false},
	}
	for _, c := range cases {
		if got := IsAgentDescendant(c.nodeID, c.agentID); got != c.want {
			t.Errorf("IsAgentDescendant(%s, %s) = %v, want %v", c.nodeID, c.agentID, got, c.want)
		}
	}
}

func TestIsSkillDescendant(t *testing.T) {
	if !IsSkillDescendant("skill-provider-42-7-gmail", "42", "7") {
		t.Errorf("Expected provider to be a descendant of its skill")
	}
	if IsSkillDescendant("skill-provider-42-71-gmail", "42", "7") {
		t.Errorf("Expected provider of skill 71 not to match skill 7")
	}
	if IsSkillDescendant("skill-42-7", "42", "7") {
		t.Errorf("Expected the skill itself not to match")
	}
}

func TestSkillHasConfiguredProvider(t *testing.T) {
	skill := &Skill{ID: "7", ProviderType: "oauth", ProviderName: "gmail"}
	if !skill.HasConfiguredProvider() {
		t.Errorf("Expected configured provider")
	}
	skill.ProviderName = ""
	if skill.HasConfiguredProvider() {
		t.Errorf("Expected provider without a name to be unconfigured")
	}
}

func TestKnowledgeSummarySizeLabel(t *testing.T) {
	ks := &KnowledgeSummary{TotalSizeBytes: 0}
	if ks.SizeLabel() != "empty" {
		t.Errorf("Expected empty, got %s", ks.SizeLabel())
	}
	ks.TotalSizeBytes = 2048
	if ks.SizeLabel() == "" || ks.SizeLabel() == "empty" {
		t.Errorf("Expected a humanized size, got %s", ks.SizeLabel())
	}
}

func TestChannelSetAll(t *testing.T) {
	set := ChannelSet{
		WhatsApp: []*ChannelInstance{{ID: "w1"}},
		Telegram: []*ChannelInstance{{ID: "t1"}, {ID: "t2"}},
	}
	all := set.All()
	if len(all) != 3 {
		t.Errorf("Expected 3 instances, got %d", len(all))
	}
	if all[0].ID != "w1" || all[2].ID != "t2" {
		t.Errorf("Expected payload order to be preserved")
	}
}

func TestAgentNodeDataExpandable(t *testing.T) {
	if (AgentNodeData{}).Expandable() {
		t.Errorf("Expected agent with no skills and no knowledge to not be expandable")
	}
	if !(AgentNodeData{SkillsCount: 1}).Expandable() {
		t.Errorf("Expected agent with skills to be expandable")
	}
	if !(AgentNodeData{HasKnowledgeBase: true}).Expandable() {
		t.Errorf("Expected agent with a knowledge base to be expandable")
	}
}
