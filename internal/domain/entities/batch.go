package entities

// GraphBatch is the batch preview payload for one view. Only the fields
// relevant to the requested view are populated.
type GraphBatch struct {
	Agents   []*Agent           `json:"agents,omitempty"`
	Channels ChannelSet         `json:"channels,omitempty"`
	Projects []*Project         `json:"projects,omitempty"`
	Users    []*User            `json:"users,omitempty"`
	Security *SecurityHierarchy `json:"security,omitempty"`
}
