package services

import "github.com/agentfleet/watcher/internal/domain/entities"

// skillUseAliases maps activity-stream skill names to the category name
// the console displays. The stream reports voice skills as "voice_call"
// while the UI groups them under "audio"; the divergence is historical and
// must be preserved, not fixed.
var skillUseAliases = map[string]string{
	"voice_call": "audio",
}

func aliasSkillUse(use string) string {
	if aliased, ok := skillUseAliases[use]; ok {
		return aliased
	}
	return use
}

type skillFlags struct {
	active bool
	fading bool
}

// MergeActivity patches visual flags onto nodes from the snapshot. Only
// nodes whose derived flags actually changed are replaced; everything else
// keeps its pointer, so applying the same snapshot twice replaces nothing
// and a flag-only merge never disturbs topology or positions. Snapshot
// entries naming ids with no matching node are ignored.
//
// The returned slice is the input slice when nothing changed.
func MergeActivity(nodes []*entities.Node, snap *entities.ActivitySnapshot) ([]*entities.Node, int) {
	if snap == nil || len(nodes) == 0 {
		return nodes, 0
	}

	// Skill flags are computed first so provider nodes can mirror their
	// parent skill in the same pass.
	perSkill := make(map[string]skillFlags)
	for _, n := range nodes {
		if n.Kind != entities.NodeKindSkill {
			continue
		}
		data := n.Data.(entities.SkillNodeData)
		hit := false
		for _, use := range snap.SkillUseFor(data.AgentID) {
			if use == data.SkillType || use == data.SkillName || aliasSkillUse(use) == data.Category {
				hit = true
				break
			}
		}
		fading := snap.HasFadingAgent(data.AgentID)
		perSkill[n.ID] = skillFlags{active: hit && !fading, fading: hit && fading}
	}

	changed := 0
	next := nodes
	replace := func(i int, n *entities.Node) {
		if changed == 0 {
			next = make([]*entities.Node, len(nodes))
			copy(next, nodes)
		}
		next[i] = n
		changed++
	}

	for i, n := range nodes {
		switch n.Kind {
		case entities.NodeKindAgent:
			data := n.Data.(entities.AgentNodeData)
			patched := data
			patched.Processing = snap.HasProcessingAgent(data.AgentID)
			patched.Fading = snap.HasFadingAgent(data.AgentID)
			patched.HasActiveSkill = len(snap.SkillUseFor(data.AgentID)) > 0
			patched.HasActiveKB = snap.HasRecentKBUse(data.AgentID)
			if patched != data {
				replace(i, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: patched})
			}

		case entities.NodeKindChannel:
			data := n.Data.(entities.ChannelNodeData)
			patched := data
			patched.Glowing = snap.HasActiveChannel(data.ChannelID)
			patched.Fading = snap.HasFadingChannel(data.ChannelID)
			if patched != data {
				replace(i, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: patched})
			}

		case entities.NodeKindSkill:
			data := n.Data.(entities.SkillNodeData)
			flags := perSkill[n.ID]
			patched := data
			patched.Active = flags.active
			patched.Fading = flags.fading
			if patched != data {
				replace(i, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: patched})
			}

		case entities.NodeKindSkillCategory:
			data := n.Data.(entities.SkillCategoryNodeData)
			hit := false
			for _, use := range snap.SkillUseFor(data.AgentID) {
				if aliasSkillUse(use) == data.Category {
					hit = true
					break
				}
			}
			fading := snap.HasFadingAgent(data.AgentID)
			patched := data
			patched.Active = hit && !fading
			patched.Fading = hit && fading
			if patched != data {
				replace(i, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: patched})
			}

		case entities.NodeKindSkillProvider:
			data := n.Data.(entities.SkillProviderNodeData)
			flags := perSkill[entities.SkillNodeID(data.AgentID, data.SkillID)]
			patched := data
			patched.Active = flags.active
			patched.Fading = flags.fading
			if patched != data {
				replace(i, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: patched})
			}

		case entities.NodeKindKnowledgeSummary:
			data := n.Data.(entities.KnowledgeSummaryNodeData)
			hit := snap.HasRecentKBUse(data.AgentID)
			fading := snap.HasFadingAgent(data.AgentID)
			patched := data
			patched.Active = hit && !fading
			patched.Fading = hit && fading
			if !knowledgeFlagsEqual(patched, data) {
				replace(i, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: patched})
			}

		case entities.NodeKindProject, entities.NodeKindUser,
			entities.NodeKindTenantSecurity, entities.NodeKindAgentSecurity, entities.NodeKindSkillSecurity:
			// No activity flags on these kinds.
		}
	}

	return next, changed
}

// knowledgeFlagsEqual compares only the mutable flags; the data struct
// holds a map and cannot be compared with ==.
func knowledgeFlagsEqual(a, b entities.KnowledgeSummaryNodeData) bool {
	return a.Active == b.Active && a.Fading == b.Fading
}
