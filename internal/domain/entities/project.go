package entities

import "time"

type Project struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	IsArchived bool      `json:"is_archived" bson:"is_archived"`
	AgentIDs   []string  `json:"agent_ids" bson:"agent_ids"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
