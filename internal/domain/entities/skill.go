package entities

import "github.com/dustin/go-humanize"

// Skill is one configured capability of an agent, as returned by the
// expand-data endpoint.
type Skill struct {
	ID            string            `json:"id" bson:"_id"`
	AgentID       string            `json:"agent_id" bson:"agent_id"`
	SkillType     string            `json:"skill_type" bson:"skill_type"`
	SkillName     string            `json:"skill_name" bson:"skill_name"`
	Category      string            `json:"category" bson:"category"`
	ProviderType  string            `json:"provider_type,omitempty" bson:"provider_type,omitempty"`
	ProviderName  string            `json:"provider_name,omitempty" bson:"provider_name,omitempty"`
	IntegrationID string            `json:"integration_id,omitempty" bson:"integration_id,omitempty"`
	IsEnabled     bool              `json:"is_enabled" bson:"is_enabled"`
	Config        map[string]string `json:"config,omitempty" bson:"config,omitempty"`
}

// HasConfiguredProvider reports whether the skill can be expanded into a
// provider node. Both type and name must be present.
func (s *Skill) HasConfiguredProvider() bool {
	return s.ProviderType != "" && s.ProviderName != ""
}

// KnowledgeSummary aggregates an agent's knowledge base.
type KnowledgeSummary struct {
	TotalDocuments int            `json:"total_documents" bson:"total_documents"`
	TotalChunks    int            `json:"total_chunks" bson:"total_chunks"`
	TotalSizeBytes int64          `json:"total_size_bytes" bson:"total_size_bytes"`
	DocumentTypes  map[string]int `json:"document_types,omitempty" bson:"document_types,omitempty"`
	AllCompleted   bool           `json:"all_completed" bson:"all_completed"`
}

// SizeLabel renders the total size for display, e.g. "1.2 MB".
func (k *KnowledgeSummary) SizeLabel() string {
	if k.TotalSizeBytes <= 0 {
		return "empty"
	}
	return humanize.Bytes(uint64(k.TotalSizeBytes))
}

// AgentExpandData is the child bundle fetched when an agent is expanded.
type AgentExpandData struct {
	Skills           []*Skill          `json:"skills"`
	KnowledgeSummary *KnowledgeSummary `json:"knowledge_summary,omitempty"`
}

// SkillsByCategory partitions the bundle's skills by category, preserving
// payload order within each category.
func (d *AgentExpandData) SkillsByCategory() map[string][]*Skill {
	out := make(map[string][]*Skill)
	for _, s := range d.Skills {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

// SkillByID returns the skill with the given id, or nil.
func (d *AgentExpandData) SkillByID(skillID string) *Skill {
	for _, s := range d.Skills {
		if s.ID == skillID {
			return s
		}
	}
	return nil
}
