package services

import (
	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
)

// BuildGraph converts a batch preview payload into the unexpanded node/edge
// set for one view. It is pure and deterministic: the same batch and
// filters always produce the same ids in the same order. Filtering happens
// before node synthesis, never by pruning edges afterwards.
func BuildGraph(view entities.ViewKind, batch *entities.GraphBatch, filters entities.ViewFilters) (*entities.Graph, error) {
	if batch == nil {
		return nil, errs.ValidationErrorf("batch payload is required")
	}

	switch view {
	case entities.ViewAgents:
		return buildAgentsGraph(batch, filters), nil
	case entities.ViewProjects:
		return buildProjectsGraph(batch, filters), nil
	case entities.ViewUsers:
		return buildUsersGraph(batch, filters), nil
	case entities.ViewSecurity:
		return buildSecurityGraph(batch), nil
	}
	return nil, errs.ValidationErrorf("unknown view kind: %s", view)
}

func includeAgent(a *entities.Agent, filters entities.ViewFilters) bool {
	if a.IsArchived && !filters.ShowArchived {
		return false
	}
	if !a.IsActive && !filters.ShowInactive {
		return false
	}
	return true
}

func agentNode(a *entities.Agent) *entities.Node {
	return &entities.Node{
		ID:   entities.AgentNodeID(a.ID),
		Kind: entities.NodeKindAgent,
		Data: entities.AgentNodeData{
			AgentID:           a.ID,
			Name:              a.Name,
			Model:             a.Model,
			IsActive:          a.IsActive,
			IsArchived:        a.IsArchived,
			SkillsCount:       a.SkillsCount,
			HasKnowledgeBase:  a.HasKnowledgeBase,
			PlaygroundEnabled: a.PlaygroundEnabled,
		},
	}
}

func buildAgentsGraph(batch *entities.GraphBatch, filters entities.ViewFilters) *entities.Graph {
	var nodes []*entities.Node
	var edges []*entities.Edge
	present := make(map[string]bool)

	for _, a := range batch.Agents {
		if !includeAgent(a, filters) {
			continue
		}
		n := agentNode(a)
		nodes = append(nodes, n)
		present[n.ID] = true
	}

	// Every active agent keeps a standing edge to the playground channel.
	// Solid and animated when the agent has the playground explicitly
	// enabled, dashed otherwise: potential vs active connectivity.
	playgroundUsed := false
	var playgroundEdges []*entities.Edge
	for _, a := range batch.Agents {
		if !includeAgent(a, filters) || !a.IsActive {
			continue
		}
		e := entities.NewEdge(entities.PlaygroundChannelNodeID, entities.AgentNodeID(a.ID))
		if a.PlaygroundEnabled {
			e.Animated = true
		} else {
			e.Dashed = true
		}
		playgroundEdges = append(playgroundEdges, e)
		playgroundUsed = true
	}
	if playgroundUsed {
		nodes = append(nodes, &entities.Node{
			ID:   entities.PlaygroundChannelNodeID,
			Kind: entities.NodeKindChannel,
			Data: entities.ChannelNodeData{
				ChannelID: "playground",
				Transport: "playground",
				Name:      "Playground",
				IsEnabled: true,
			},
		})
		edges = append(edges, playgroundEdges...)
	}

	// Channel instances are deduplicated by instance id across transports
	// and agents: one node however many agents reference it.
	seenChannels := make(map[string]bool)
	for _, ch := range batch.Channels.All() {
		if seenChannels[ch.ID] {
			continue
		}
		seenChannels[ch.ID] = true

		var bound []*entities.Edge
		for _, agentID := range ch.AgentIDs {
			targetID := entities.AgentNodeID(agentID)
			if !present[targetID] {
				continue
			}
			e := entities.NewEdge(entities.ChannelNodeID(ch.ID), targetID)
			e.Animated = ch.IsEnabled
			e.Dashed = !ch.IsEnabled
			bound = append(bound, e)
		}
		if len(bound) == 0 {
			continue
		}
		nodes = append(nodes, &entities.Node{
			ID:   entities.ChannelNodeID(ch.ID),
			Kind: entities.NodeKindChannel,
			Data: entities.ChannelNodeData{
				ChannelID: ch.ID,
				Transport: ch.Transport,
				Name:      ch.Name,
				IsEnabled: ch.IsEnabled,
			},
		})
		edges = append(edges, bound...)
	}

	return &entities.Graph{Nodes: nodes, Edges: edges, Stats: entities.BuildStats(nodes, edges)}
}

func buildProjectsGraph(batch *entities.GraphBatch, filters entities.ViewFilters) *entities.Graph {
	var nodes []*entities.Node
	var edges []*entities.Edge
	present := make(map[string]bool)

	for _, a := range batch.Agents {
		if !includeAgent(a, filters) {
			continue
		}
		n := agentNode(a)
		nodes = append(nodes, n)
		present[n.ID] = true
	}

	for _, p := range batch.Projects {
		if p.IsArchived && !filters.ShowArchived {
			continue
		}
		count := 0
		var bound []*entities.Edge
		for _, agentID := range p.AgentIDs {
			targetID := entities.AgentNodeID(agentID)
			if !present[targetID] {
				continue
			}
			bound = append(bound, entities.NewEdge(entities.ProjectNodeID(p.ID), targetID))
			count++
		}
		nodes = append(nodes, &entities.Node{
			ID:   entities.ProjectNodeID(p.ID),
			Kind: entities.NodeKindProject,
			Data: entities.ProjectNodeData{
				ProjectID:  p.ID,
				Name:       p.Name,
				AgentCount: count,
				IsArchived: p.IsArchived,
			},
		})
		edges = append(edges, bound...)
	}

	return &entities.Graph{Nodes: nodes, Edges: edges, Stats: entities.BuildStats(nodes, edges)}
}

func buildUsersGraph(batch *entities.GraphBatch, filters entities.ViewFilters) *entities.Graph {
	var nodes []*entities.Node
	var edges []*entities.Edge
	present := make(map[string]bool)

	for _, a := range batch.Agents {
		if !includeAgent(a, filters) {
			continue
		}
		n := agentNode(a)
		nodes = append(nodes, n)
		present[n.ID] = true
	}

	defaultAgentUsed := false
	for _, u := range batch.Users {
		if !u.IsActive && !filters.ShowInactive {
			continue
		}
		userID := entities.UserNodeID(u.ID)
		nodes = append(nodes, &entities.Node{
			ID:   userID,
			Kind: entities.NodeKindUser,
			Data: entities.UserNodeData{
				UserID:   u.ID,
				Name:     u.Name,
				Email:    u.Email,
				IsActive: u.IsActive,
			},
		})

		targetID := entities.AgentNodeID(u.AgentID)
		if u.AgentID == "" || !present[targetID] {
			targetID = entities.DefaultAgentNodeID
			defaultAgentUsed = true
		}
		edges = append(edges, entities.NewEdge(userID, targetID))
	}

	// The shared default agent node exists only when at least one edge
	// targets it. No orphan nodes.
	if defaultAgentUsed {
		nodes = append(nodes, &entities.Node{
			ID:   entities.DefaultAgentNodeID,
			Kind: entities.NodeKindAgent,
			Data: entities.AgentNodeData{
				AgentID:  "default",
				Name:     "Default Agent",
				IsActive: true,
			},
		})
	}

	return &entities.Graph{Nodes: nodes, Edges: edges, Stats: entities.BuildStats(nodes, edges)}
}

func buildSecurityGraph(batch *entities.GraphBatch) *entities.Graph {
	var nodes []*entities.Node
	var edges []*entities.Edge

	h := batch.Security
	if h == nil || h.TenantProfile == nil {
		return &entities.Graph{Stats: entities.BuildStats(nil, nil)}
	}

	nodes = append(nodes, &entities.Node{
		ID:   entities.TenantSecurityNodeID,
		Kind: entities.NodeKindTenantSecurity,
		Data: entities.TenantSecurityNodeData{
			ProfileID:   h.TenantProfile.ID,
			ProfileName: h.TenantProfile.Name,
			Level:       h.TenantProfile.Level,
		},
	})

	for _, a := range h.Agents {
		// Inheritance is recomputed here on every transform: the
		// effective profile at each tier can change server-side between
		// fetches, so it must never be carried over from a prior graph.
		agentInherited := a.ProfileID == ""
		agentProfileID := a.ProfileID
		agentProfileName := a.ProfileName
		if agentInherited {
			agentProfileID = h.TenantProfile.ID
			agentProfileName = h.TenantProfile.Name
		}

		agentNodeID := entities.AgentSecurityNodeID(a.AgentID)
		nodes = append(nodes, &entities.Node{
			ID:   agentNodeID,
			Kind: entities.NodeKindAgentSecurity,
			Data: entities.AgentSecurityNodeData{
				AgentID:     a.AgentID,
				Name:        a.AgentName,
				ProfileID:   agentProfileID,
				ProfileName: agentProfileName,
				Inherited:   agentInherited,
			},
		})
		e := entities.NewEdge(entities.TenantSecurityNodeID, agentNodeID)
		e.Dashed = agentInherited
		edges = append(edges, e)

		for _, s := range a.Skills {
			skillInherited := s.ProfileID == ""
			skillProfileID := s.ProfileID
			skillProfileName := s.ProfileName
			if skillInherited {
				skillProfileID = agentProfileID
				skillProfileName = agentProfileName
			}

			skillNodeID := entities.SkillSecurityNodeID(a.AgentID, s.SkillID)
			nodes = append(nodes, &entities.Node{
				ID:   skillNodeID,
				Kind: entities.NodeKindSkillSecurity,
				Data: entities.SkillSecurityNodeData{
					AgentID:     a.AgentID,
					SkillID:     s.SkillID,
					Name:        s.SkillName,
					ProfileID:   skillProfileID,
					ProfileName: skillProfileName,
					Inherited:   skillInherited,
				},
			})
			se := entities.NewEdge(agentNodeID, skillNodeID)
			se.Dashed = skillInherited
			edges = append(edges, se)
		}
	}

	return &entities.Graph{Nodes: nodes, Edges: edges, Stats: entities.BuildStats(nodes, edges)}
}
