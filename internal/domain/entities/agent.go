package entities

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a platform agent as stored by the platform, trimmed to the
// fields the console needs.
type Agent struct {
	ID                string    `json:"id" bson:"_id"`
	Name              string    `json:"name" bson:"name"`
	Model             string    `json:"model" bson:"model"`
	ProjectID         string    `json:"project_id,omitempty" bson:"project_id,omitempty"`
	IsActive          bool      `json:"is_active" bson:"is_active"`
	IsArchived        bool      `json:"is_archived" bson:"is_archived"`
	PlaygroundEnabled bool      `json:"playground_enabled" bson:"playground_enabled"`
	SkillsCount       int       `json:"skills_count" bson:"skills_count"`
	HasKnowledgeBase  bool      `json:"has_knowledge_base" bson:"has_knowledge_base"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

func NewAgent(name, model string) *Agent {
	return &Agent{
		ID:        uuid.New().String(),
		Name:      name,
		Model:     model,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
