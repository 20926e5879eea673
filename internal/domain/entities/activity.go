package entities

// ActivitySnapshot is a point-in-time view of platform activity, replaced
// wholesale on every push from the transport. All lookups are by platform
// entity id (agent id, channel instance id), not node id.
type ActivitySnapshot struct {
	ProcessingAgents []string            `json:"processing_agents"`
	ActiveChannels   []string            `json:"active_channels"`
	RecentSkillUse   map[string][]string `json:"recent_skill_use"` // agent id -> skill type names
	RecentKBUse      []string            `json:"recent_kb_use"`    // agent ids
	FadingAgents     []string            `json:"fading_agents"`
	FadingChannels   []string            `json:"fading_channels"`
}

func (s *ActivitySnapshot) HasProcessingAgent(agentID string) bool {
	return containsString(s.ProcessingAgents, agentID)
}

func (s *ActivitySnapshot) HasFadingAgent(agentID string) bool {
	return containsString(s.FadingAgents, agentID)
}

func (s *ActivitySnapshot) HasActiveChannel(channelID string) bool {
	return containsString(s.ActiveChannels, channelID)
}

func (s *ActivitySnapshot) HasFadingChannel(channelID string) bool {
	return containsString(s.FadingChannels, channelID)
}

func (s *ActivitySnapshot) HasRecentKBUse(agentID string) bool {
	return containsString(s.RecentKBUse, agentID)
}

func (s *ActivitySnapshot) SkillUseFor(agentID string) []string {
	if s.RecentSkillUse == nil {
		return nil
	}
	return s.RecentSkillUse[agentID]
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
