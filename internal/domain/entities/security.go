package entities

// SecurityProfile is a named policy bundle assignable at tenant, agent or
// skill level.
type SecurityProfile struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Level string `json:"level" bson:"level"` // strict, standard, relaxed
}

// SecurityHierarchy is the tenant -> agent -> skill assignment tree as
// reported by the platform. An empty ProfileID at any level means the
// assignment is inherited from the level above; inheritance must be
// recomputed on every transform because the server can reassign profiles
// between fetches.
type SecurityHierarchy struct {
	TenantProfile *SecurityProfile     `json:"tenant_profile"`
	Agents        []AgentSecurityEntry `json:"agents"`
}

type AgentSecurityEntry struct {
	AgentID     string               `json:"agent_id" bson:"agent_id"`
	AgentName   string               `json:"agent_name" bson:"agent_name"`
	ProfileID   string               `json:"profile_id,omitempty" bson:"profile_id,omitempty"`
	ProfileName string               `json:"profile_name,omitempty" bson:"profile_name,omitempty"`
	Skills      []SkillSecurityEntry `json:"skills" bson:"skills"`
}

type SkillSecurityEntry struct {
	SkillID     string `json:"skill_id" bson:"skill_id"`
	SkillName   string `json:"skill_name" bson:"skill_name"`
	ProfileID   string `json:"profile_id,omitempty" bson:"profile_id,omitempty"`
	ProfileName string `json:"profile_name,omitempty" bson:"profile_name,omitempty"`
}
