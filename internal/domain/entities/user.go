package entities

type User struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	AgentID  string `json:"agent_id,omitempty" bson:"agent_id,omitempty"` // empty means the shared default agent
	IsActive bool   `json:"is_active" bson:"is_active"`
}
