package services

import (
	"context"
	"sync"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"
)

// standaloneCategories bypass category grouping: their skills attach
// directly under the agent.
var standaloneCategories = map[string]bool{
	"email":    true,
	"calendar": true,
	"crm":      true,
}

// excludedSkillTypes never appear in the graph.
var excludedSkillTypes = map[string]bool{
	"internal": true,
	"system":   true,
}

// prefetchAgentLimit is how many expandable agents get their cache warmed
// in the background on session creation.
const prefetchAgentLimit = 3

// expandCache holds fetched child bundles keyed by agent id, with at most
// one in-flight fetch per agent. It lives as long as the session and is
// cleared only on full view resynchronization, so collapsing and
// re-expanding the same agent is a cache hit.
type expandCache struct {
	mu       sync.Mutex
	source   interfaces.ExpandDataSource
	entries  map[string]*entities.AgentExpandData
	inflight map[string]chan struct{}
}

func newExpandCache(source interfaces.ExpandDataSource) *expandCache {
	return &expandCache{
		source:   source,
		entries:  make(map[string]*entities.AgentExpandData),
		inflight: make(map[string]chan struct{}),
	}
}

// bundle returns the cached bundle for the agent, fetching it on a miss.
// Concurrent callers for the same agent share one fetch; a failed fetch is
// not cached, so the next caller retries.
func (c *expandCache) bundle(ctx context.Context, agentID string) (*entities.AgentExpandData, error) {
	for {
		c.mu.Lock()
		if data, ok := c.entries[agentID]; ok {
			c.mu.Unlock()
			return data, nil
		}
		if ch, ok := c.inflight[agentID]; ok {
			c.mu.Unlock()
			select {
			case <-ch:
			case <-ctx.Done():
				return nil, errs.InternalErrorf("expand data fetch canceled: %v", ctx.Err())
			}
			continue
		}

		ch := make(chan struct{})
		c.inflight[agentID] = ch
		c.mu.Unlock()

		data, err := c.source.FetchAgentExpandData(ctx, agentID)

		c.mu.Lock()
		delete(c.inflight, agentID)
		if err == nil && data != nil {
			c.entries[agentID] = data
		}
		c.mu.Unlock()
		close(ch)

		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, errs.InternalErrorf("empty expand data for agent %s", agentID)
		}
		return data, nil
	}
}

// peek returns the cached bundle without fetching, or nil.
func (c *expandCache) peek(agentID string) *entities.AgentExpandData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[agentID]
}

// clear drops every cached bundle. Called on full view resynchronization.
func (c *expandCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entities.AgentExpandData)
}

// visibleSkills filters out globally excluded skill types.
func visibleSkills(skills []*entities.Skill) []*entities.Skill {
	out := make([]*entities.Skill, 0, len(skills))
	for _, s := range skills {
		if excludedSkillTypes[s.SkillType] {
			continue
		}
		out = append(out, s)
	}
	return out
}

func skillNode(agentID string, s *entities.Skill) *entities.Node {
	return &entities.Node{
		ID:   entities.SkillNodeID(agentID, s.ID),
		Kind: entities.NodeKindSkill,
		Data: entities.SkillNodeData{
			AgentID:      agentID,
			SkillID:      s.ID,
			SkillType:    s.SkillType,
			SkillName:    s.SkillName,
			Category:     s.Category,
			ProviderType: s.ProviderType,
			ProviderName: s.ProviderName,
			IsEnabled:    s.IsEnabled,
		},
	}
}

// agentChildren synthesizes the nodes and edges one expand of an agent
// adds: standalone-category skills directly under the agent, one grouping
// node per remaining category, and a knowledge summary when the agent has
// any documents. Edges run agent -> child.
func agentChildren(agentID string, bundle *entities.AgentExpandData) ([]*entities.Node, []*entities.Edge) {
	var nodes []*entities.Node
	var edges []*entities.Edge
	parentID := entities.AgentNodeID(agentID)

	skills := visibleSkills(bundle.Skills)
	seenCategory := make(map[string]bool)
	for _, s := range skills {
		if standaloneCategories[s.Category] {
			n := skillNode(agentID, s)
			nodes = append(nodes, n)
			edges = append(edges, entities.NewEdge(parentID, n.ID))
			continue
		}
		if seenCategory[s.Category] {
			continue
		}
		seenCategory[s.Category] = true

		count := 0
		for _, other := range skills {
			if other.Category == s.Category {
				count++
			}
		}
		n := &entities.Node{
			ID:   entities.SkillCategoryNodeID(agentID, s.Category),
			Kind: entities.NodeKindSkillCategory,
			Data: entities.SkillCategoryNodeData{
				AgentID:    agentID,
				Category:   s.Category,
				SkillCount: count,
			},
		}
		nodes = append(nodes, n)
		edges = append(edges, entities.NewEdge(parentID, n.ID))
	}

	if ks := bundle.KnowledgeSummary; ks != nil && ks.TotalDocuments > 0 {
		n := &entities.Node{
			ID:   entities.KnowledgeNodeID(agentID),
			Kind: entities.NodeKindKnowledgeSummary,
			Data: entities.KnowledgeSummaryNodeData{
				AgentID:        agentID,
				TotalDocuments: ks.TotalDocuments,
				TotalChunks:    ks.TotalChunks,
				TotalSizeBytes: ks.TotalSizeBytes,
				SizeLabel:      ks.SizeLabel(),
				DocumentTypes:  ks.DocumentTypes,
				AllCompleted:   ks.AllCompleted,
			},
		}
		nodes = append(nodes, n)
		edges = append(edges, entities.NewEdge(parentID, n.ID))
	}

	return nodes, edges
}

// categoryChildren synthesizes the individual skill nodes for one grouped
// category, wired category -> skill.
func categoryChildren(agentID, category string, bundle *entities.AgentExpandData) ([]*entities.Node, []*entities.Edge) {
	var nodes []*entities.Node
	var edges []*entities.Edge
	parentID := entities.SkillCategoryNodeID(agentID, category)

	for _, s := range visibleSkills(bundle.Skills) {
		if s.Category != category {
			continue
		}
		n := skillNode(agentID, s)
		nodes = append(nodes, n)
		edges = append(edges, entities.NewEdge(parentID, n.ID))
	}
	return nodes, edges
}

// skillProviderChild synthesizes the single provider node for a skill, or
// an error when the skill has no fully configured provider.
func skillProviderChild(agentID string, skill *entities.Skill) (*entities.Node, *entities.Edge, error) {
	if !skill.HasConfiguredProvider() {
		return nil, nil, errs.ValidationErrorf("skill %s has no configured provider", skill.ID)
	}
	n := &entities.Node{
		ID:   entities.SkillProviderNodeID(agentID, skill.ID, skill.ProviderName),
		Kind: entities.NodeKindSkillProvider,
		Data: entities.SkillProviderNodeData{
			AgentID:       agentID,
			SkillID:       skill.ID,
			ProviderType:  skill.ProviderType,
			ProviderName:  skill.ProviderName,
			IntegrationID: skill.IntegrationID,
		},
	}
	e := entities.NewEdge(entities.SkillNodeID(agentID, skill.ID), n.ID)
	return n, e, nil
}
