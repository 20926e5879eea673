package entities

import (
	"fmt"
	"strings"
)

// NodeKind is the closed set of node variants a graph can contain.
type NodeKind string

const (
	NodeKindAgent            NodeKind = "agent"
	NodeKindChannel          NodeKind = "channel"
	NodeKindProject          NodeKind = "project"
	NodeKindUser             NodeKind = "user"
	NodeKindSkill            NodeKind = "skill"
	NodeKindSkillCategory    NodeKind = "skill-category"
	NodeKindSkillProvider    NodeKind = "skill-provider"
	NodeKindKnowledgeSummary NodeKind = "knowledge-summary"
	NodeKindTenantSecurity   NodeKind = "tenant-security"
	NodeKindAgentSecurity    NodeKind = "agent-security"
	NodeKindSkillSecurity    NodeKind = "skill-security"
)

// Rank returns the hierarchy tier for the kind. Layout keeps
// rank(target) >= rank(source) for every edge.
func (k NodeKind) Rank() int {
	switch k {
	case NodeKindChannel, NodeKindTenantSecurity:
		return 0
	case NodeKindAgent, NodeKindUser, NodeKindProject, NodeKindAgentSecurity:
		return 1
	case NodeKindSkillCategory, NodeKindKnowledgeSummary, NodeKindSkillSecurity:
		return 2
	case NodeKindSkill:
		return 3
	case NodeKindSkillProvider:
		return 4
	}
	return 0
}

// Hierarchical reports whether the kind belongs to the channel/skill
// hierarchy that forces left-to-right layout.
func (k NodeKind) Hierarchical() bool {
	switch k {
	case NodeKindChannel, NodeKindSkill, NodeKindSkillCategory, NodeKindSkillProvider, NodeKindKnowledgeSummary:
		return true
	}
	return false
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is one element of the canonical graph. ID is immutable and
// deterministic; Position is owned by the layout pass. Data holds the
// per-kind payload and visual flags.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NodeData is the per-kind payload. The set of implementations is closed;
// consumers switch on Node.Kind and assert the matching type.
type NodeData interface {
	NodeKind() NodeKind
}

type AgentNodeData struct {
	AgentID           string `json:"agent_id"`
	Name              string `json:"name"`
	Model             string `json:"model"`
	IsActive          bool   `json:"is_active"`
	IsArchived        bool   `json:"is_archived"`
	SkillsCount       int    `json:"skills_count"`
	HasKnowledgeBase  bool   `json:"has_knowledge_base"`
	PlaygroundEnabled bool   `json:"playground_enabled"`
	IsExpanded        bool   `json:"is_expanded"`
	Processing        bool   `json:"processing"`
	Fading            bool   `json:"fading"`
	HasActiveSkill    bool   `json:"has_active_skill"`
	HasActiveKB       bool   `json:"has_active_kb"`
}

func (AgentNodeData) NodeKind() NodeKind { return NodeKindAgent }

// Expandable reports whether the agent has anything to expand into.
func (d AgentNodeData) Expandable() bool {
	return d.SkillsCount > 0 || d.HasKnowledgeBase
}

type ChannelNodeData struct {
	ChannelID string `json:"channel_id"`
	Transport string `json:"transport"`
	Name      string `json:"name"`
	IsEnabled bool   `json:"is_enabled"`
	Glowing   bool   `json:"glowing"`
	Fading    bool   `json:"fading"`
}

func (ChannelNodeData) NodeKind() NodeKind { return NodeKindChannel }

type ProjectNodeData struct {
	ProjectID  string `json:"project_id"`
	Name       string `json:"name"`
	AgentCount int    `json:"agent_count"`
	IsArchived bool   `json:"is_archived"`
}

func (ProjectNodeData) NodeKind() NodeKind { return NodeKindProject }

type UserNodeData struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (UserNodeData) NodeKind() NodeKind { return NodeKindUser }

type SkillNodeData struct {
	AgentID      string `json:"agent_id"`
	SkillID      string `json:"skill_id"`
	SkillType    string `json:"skill_type"`
	SkillName    string `json:"skill_name"`
	Category     string `json:"category"`
	ProviderType string `json:"provider_type,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	IsEnabled    bool   `json:"is_enabled"`
	IsExpanded   bool   `json:"is_expanded"`
	Active       bool   `json:"active"`
	Fading       bool   `json:"fading"`
}

func (SkillNodeData) NodeKind() NodeKind { return NodeKindSkill }

// Expandable requires a fully configured provider: both type and name.
func (d SkillNodeData) Expandable() bool {
	return d.ProviderType != "" && d.ProviderName != ""
}

type SkillCategoryNodeData struct {
	AgentID    string `json:"agent_id"`
	Category   string `json:"category"`
	SkillCount int    `json:"skill_count"`
	IsExpanded bool   `json:"is_expanded"`
	Active     bool   `json:"active"`
	Fading     bool   `json:"fading"`
}

func (SkillCategoryNodeData) NodeKind() NodeKind { return NodeKindSkillCategory }

type SkillProviderNodeData struct {
	AgentID       string `json:"agent_id"`
	SkillID       string `json:"skill_id"`
	ProviderType  string `json:"provider_type"`
	ProviderName  string `json:"provider_name"`
	IntegrationID string `json:"integration_id,omitempty"`
	Active        bool   `json:"active"`
	Fading        bool   `json:"fading"`
}

func (SkillProviderNodeData) NodeKind() NodeKind { return NodeKindSkillProvider }

type KnowledgeSummaryNodeData struct {
	AgentID        string         `json:"agent_id"`
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	SizeLabel      string         `json:"size_label"`
	DocumentTypes  map[string]int `json:"document_types,omitempty"`
	AllCompleted   bool           `json:"all_completed"`
	Active         bool           `json:"active"`
	Fading         bool           `json:"fading"`
}

func (KnowledgeSummaryNodeData) NodeKind() NodeKind { return NodeKindKnowledgeSummary }

type TenantSecurityNodeData struct {
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Level       string `json:"level"`
}

func (TenantSecurityNodeData) NodeKind() NodeKind { return NodeKindTenantSecurity }

type AgentSecurityNodeData struct {
	AgentID     string `json:"agent_id"`
	Name        string `json:"name"`
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Inherited   bool   `json:"inherited"`
}

func (AgentSecurityNodeData) NodeKind() NodeKind { return NodeKindAgentSecurity }

type SkillSecurityNodeData struct {
	AgentID     string `json:"agent_id"`
	SkillID     string `json:"skill_id"`
	Name        string `json:"name"`
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Inherited   bool   `json:"inherited"`
}

func (SkillSecurityNodeData) NodeKind() NodeKind { return NodeKindSkillSecurity }

// PlaygroundChannelNodeID is the synthesized channel every active agent
// connects to.
const PlaygroundChannelNodeID = "channel-playground"

// DefaultAgentNodeID is the shared agent node users fall back to when no
// agent is assigned to them.
const DefaultAgentNodeID = "agent-default"

func AgentNodeID(agentID string) string   { return "agent-" + agentID }
func ChannelNodeID(id string) string      { return "channel-" + id }
func ProjectNodeID(id string) string      { return "project-" + id }
func UserNodeID(id string) string         { return "user-" + id }
func KnowledgeNodeID(agentID string) string { return "knowledge-" + agentID }

func SkillNodeID(agentID, skillID string) string {
	return fmt.Sprintf("skill-%s-%s", agentID, skillID)
}

func SkillCategoryNodeID(agentID, category string) string {
	return fmt.Sprintf("skill-category-%s-%s", agentID, category)
}

func SkillProviderNodeID(agentID, skillID, providerName string) string {
	return fmt.Sprintf("skill-provider-%s-%s-%s", agentID, skillID, providerName)
}

const TenantSecurityNodeID = "tenant-security"

func AgentSecurityNodeID(agentID string) string { return "agent-security-" + agentID }

func SkillSecurityNodeID(agentID, skillID string) string {
	return fmt.Sprintf("skill-security-%s-%s", agentID, skillID)
}

// IsAgentDescendant reports whether nodeID names a node synthesized under
// the given agent by expansion. Matching is by id prefix so collapse never
// needs to walk a live tree.
func IsAgentDescendant(nodeID, agentID string) bool {
	if nodeID == KnowledgeNodeID(agentID) {
		return true
	}
	return strings.HasPrefix(nodeID, "skill-"+agentID+"-") ||
		strings.HasPrefix(nodeID, "skill-category-"+agentID+"-") ||
		strings.HasPrefix(nodeID, "skill-provider-"+agentID+"-")
}

// IsSkillDescendant reports whether nodeID names a node synthesized under
// the given skill (currently only its provider).
func IsSkillDescendant(nodeID, agentID, skillID string) bool {
	return strings.HasPrefix(nodeID, fmt.Sprintf("skill-provider-%s-%s-", agentID, skillID))
}
