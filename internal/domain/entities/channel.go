package entities

// ChannelInstance is one configured messaging channel. The same instance
// may be referenced by several agents; the graph shows it once.
type ChannelInstance struct {
	ID        string   `json:"id" bson:"_id"`
	Transport string   `json:"transport" bson:"transport"` // whatsapp, telegram
	Name      string   `json:"name" bson:"name"`
	IsEnabled bool     `json:"is_enabled" bson:"is_enabled"`
	AgentIDs  []string `json:"agent_ids" bson:"agent_ids"`
}

// ChannelSet groups channel instances by transport, matching the batch
// preview payload shape.
type ChannelSet struct {
	WhatsApp []*ChannelInstance `json:"whatsapp"`
	Telegram []*ChannelInstance `json:"telegram"`
}

// All returns every instance across transports in payload order.
func (c ChannelSet) All() []*ChannelInstance {
	out := make([]*ChannelInstance, 0, len(c.WhatsApp)+len(c.Telegram))
	out = append(out, c.WhatsApp...)
	out = append(out, c.Telegram...)
	return out
}
