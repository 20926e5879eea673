package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// layoutDelay is how long a structural mutation waits before relayout, so
// the rendering surface can report measured sizes for new nodes first.
const layoutDelay = 150 * time.Millisecond

// GraphSession owns the canonical node/edge collection for one connected
// client. All mutations are applied as a single atomic replace under the
// session mutex: read the current collection, compute the next one, swap.
// In-flight fetches never hold the mutex.
type GraphSession struct {
	ID string

	mu         sync.Mutex
	view       entities.ViewKind
	filters    entities.ViewFilters
	direction  LayoutDirection
	nodes      []*entities.Node
	edges      []*entities.Edge
	sizes      map[string]entities.Size
	syncKey    string
	generation uint64
	closed     bool

	cache       *expandCache
	batch       BatchService
	logger      *zap.Logger
	layoutBusy  atomic.Bool
	layoutTimer *time.Timer
	unsubscribe func()

	// lifetime ends when the session closes; background work hangs off it.
	lifetime context.Context
	cancel   context.CancelFunc
}

func newGraphSession(batch BatchService, cache *expandCache, view entities.ViewKind, filters entities.ViewFilters, direction LayoutDirection, logger *zap.Logger) *GraphSession {
	lifetime, cancel := context.WithCancel(context.Background())
	return &GraphSession{
		ID:        uuid.New().String(),
		view:      view,
		filters:   filters,
		direction: direction,
		sizes:     make(map[string]entities.Size),
		cache:     cache,
		batch:     batch,
		logger:    logger,
		lifetime:  lifetime,
		cancel:    cancel,
	}
}

// start performs the initial load: build the batch, transform, lay out
// synchronously so the first response already has positions, then subscribe
// to activity pushes and warm the expand cache in the background. A fetch
// failure here is retryable: no partial graph is kept.
func (s *GraphSession) start(ctx context.Context) error {
	batch, err := s.batch.BuildBatch(ctx, s.view)
	if err != nil {
		return err
	}
	graph, err := BuildGraph(s.view, batch, s.filters)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.nodes = ApplyLayout(graph.Nodes, graph.Edges, LayoutOptions{Direction: s.direction, Sizes: s.sizes})
	s.edges = graph.Edges
	s.syncKey = resyncKey(s.nodes)
	s.mu.Unlock()

	s.unsubscribe = events.SubscribeToActivitySnapshots(func(data events.ActivitySnapshotEventData) {
		s.applyActivity(data.Snapshot)
	})

	go s.prefetch(s.lifetime)
	return nil
}

// Graph returns a copy of the canonical collection with stats.
func (s *GraphSession) Graph() *entities.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graphLocked()
}

func (s *GraphSession) graphLocked() *entities.Graph {
	nodes := make([]*entities.Node, len(s.nodes))
	copy(nodes, s.nodes)
	edges := make([]*entities.Edge, len(s.edges))
	copy(edges, s.edges)
	return &entities.Graph{Nodes: nodes, Edges: edges, Stats: entities.BuildStats(nodes, edges)}
}

func (s *GraphSession) findLocked(nodeID string) *entities.Node {
	for _, n := range s.nodes {
		if n.ID == nodeID {
			return n
		}
	}
	return nil
}

// ExpandNode expands an agent, skill-category or skill node. Expanding an
// already expanded node is a no-op. A fetch failure leaves the node
// collapsed with no partial children.
func (s *GraphSession) ExpandNode(ctx context.Context, nodeID string) error {
	s.mu.Lock()
	node := s.findLocked(nodeID)
	if node == nil {
		s.mu.Unlock()
		return errs.NotFoundErrorf("node not found: %s", nodeID)
	}

	switch node.Kind {
	case entities.NodeKindAgent:
		data := node.Data.(entities.AgentNodeData)
		if data.IsExpanded {
			s.mu.Unlock()
			return nil
		}
		if !data.Expandable() {
			s.mu.Unlock()
			return errs.ValidationErrorf("agent %s has nothing to expand", data.AgentID)
		}
		gen := s.generation
		s.mu.Unlock()

		bundle, err := s.cache.bundle(ctx, data.AgentID)
		if err != nil {
			s.logger.Warn("expand data fetch failed",
				zap.String("agent_id", data.AgentID), zap.Error(err))
			return err
		}
		return s.applyAgentExpand(nodeID, data.AgentID, gen, bundle)

	case entities.NodeKindSkillCategory:
		defer s.mu.Unlock()
		data := node.Data.(entities.SkillCategoryNodeData)
		if data.IsExpanded {
			return nil
		}
		bundle := s.cache.peek(data.AgentID)
		if bundle == nil {
			return errs.InternalErrorf("no cached expand data for agent %s", data.AgentID)
		}
		children, childEdges := categoryChildren(data.AgentID, data.Category, bundle)
		data.IsExpanded = true
		s.addChildrenLocked(node, data, children, childEdges)
		return nil

	case entities.NodeKindSkill:
		defer s.mu.Unlock()
		data := node.Data.(entities.SkillNodeData)
		if data.IsExpanded {
			return nil
		}
		bundle := s.cache.peek(data.AgentID)
		if bundle == nil {
			return errs.InternalErrorf("no cached expand data for agent %s", data.AgentID)
		}
		skill := bundle.SkillByID(data.SkillID)
		if skill == nil {
			return errs.NotFoundErrorf("skill not found: %s", data.SkillID)
		}
		child, edge, err := skillProviderChild(data.AgentID, skill)
		if err != nil {
			return err
		}
		data.IsExpanded = true
		s.addChildrenLocked(node, data, []*entities.Node{child}, []*entities.Edge{edge})
		return nil
	}

	s.mu.Unlock()
	return errs.ValidationErrorf("node %s is not expandable", nodeID)
}

// applyAgentExpand applies a fetched bundle to the graph. The fetch ran
// without the lock, so the agent may have been collapsed, removed or
// resynced away in the meantime; a stale result is discarded rather than
// resurrecting children.
func (s *GraphSession) applyAgentExpand(nodeID, agentID string, gen uint64, bundle *entities.AgentExpandData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return nil
	}
	node := s.findLocked(nodeID)
	if node == nil {
		return nil
	}
	data := node.Data.(entities.AgentNodeData)
	if data.IsExpanded {
		return nil
	}

	children, childEdges := agentChildren(agentID, bundle)
	data.IsExpanded = true
	s.addChildrenLocked(node, data, children, childEdges)
	return nil
}

// addChildrenLocked is the single atomic-replace path for expansion: it
// swaps in a new node slice with the parent's data replaced and the new
// children appended, skipping any child id already present.
func (s *GraphSession) addChildrenLocked(parent *entities.Node, parentData entities.NodeData, children []*entities.Node, childEdges []*entities.Edge) {
	existing := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		existing[n.ID] = true
	}
	existingEdges := make(map[string]bool, len(s.edges))
	for _, e := range s.edges {
		existingEdges[e.ID] = true
	}

	nextNodes := make([]*entities.Node, 0, len(s.nodes)+len(children))
	for _, n := range s.nodes {
		if n == parent {
			nextNodes = append(nextNodes, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: parentData})
			continue
		}
		nextNodes = append(nextNodes, n)
	}
	for _, c := range children {
		if existing[c.ID] {
			continue
		}
		nextNodes = append(nextNodes, c)
	}

	nextEdges := make([]*entities.Edge, len(s.edges), len(s.edges)+len(childEdges))
	copy(nextEdges, s.edges)
	for _, e := range childEdges {
		if existingEdges[e.ID] {
			continue
		}
		nextEdges = append(nextEdges, e)
	}

	s.nodes = nextNodes
	s.edges = nextEdges
	s.scheduleLayoutLocked()
	events.PublishGraphChanged(s.ID, "expand", s.graphLocked())
}

// CollapseNode is the structural inverse of expand: every descendant node
// and edge goes, matched by id prefix, and the ancestor's expansion flag
// resets. Descendant expansion bookkeeping lives on the removed nodes, so
// nothing deeper can survive.
func (s *GraphSession) CollapseNode(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.findLocked(nodeID)
	if node == nil {
		return errs.NotFoundErrorf("node not found: %s", nodeID)
	}

	var isDescendant func(id string) bool
	var resetData entities.NodeData

	switch node.Kind {
	case entities.NodeKindAgent:
		data := node.Data.(entities.AgentNodeData)
		if !data.IsExpanded {
			return nil
		}
		agentID := data.AgentID
		isDescendant = func(id string) bool { return entities.IsAgentDescendant(id, agentID) }
		data.IsExpanded = false
		resetData = data

	case entities.NodeKindSkillCategory:
		data := node.Data.(entities.SkillCategoryNodeData)
		if !data.IsExpanded {
			return nil
		}
		bundle := s.cache.peek(data.AgentID)
		members := make(map[string]bool)
		if bundle != nil {
			for _, sk := range visibleSkills(bundle.Skills) {
				if sk.Category == data.Category {
					members[entities.SkillNodeID(data.AgentID, sk.ID)] = true
				}
			}
		}
		agentID := data.AgentID
		isDescendant = func(id string) bool {
			if members[id] {
				return true
			}
			for member := range members {
				skillID := strings.TrimPrefix(member, "skill-"+agentID+"-")
				if entities.IsSkillDescendant(id, agentID, skillID) {
					return true
				}
			}
			return false
		}
		data.IsExpanded = false
		resetData = data

	case entities.NodeKindSkill:
		data := node.Data.(entities.SkillNodeData)
		if !data.IsExpanded {
			return nil
		}
		agentID, skillID := data.AgentID, data.SkillID
		isDescendant = func(id string) bool { return entities.IsSkillDescendant(id, agentID, skillID) }
		data.IsExpanded = false
		resetData = data

	default:
		return errs.ValidationErrorf("node %s is not collapsible", nodeID)
	}

	s.removeDescendantsLocked(map[string]entities.NodeData{nodeID: resetData}, isDescendant)
	s.scheduleLayoutLocked()
	events.PublishGraphChanged(s.ID, "collapse", s.graphLocked())
	return nil
}

// removeDescendantsLocked swaps in a new collection without the matched
// nodes and without any edge naming a removed node. Resets holds
// replacement data for ancestors whose expansion flag clears.
func (s *GraphSession) removeDescendantsLocked(resets map[string]entities.NodeData, isDescendant func(id string) bool) {
	removed := make(map[string]bool)
	nextNodes := make([]*entities.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		if isDescendant(n.ID) {
			removed[n.ID] = true
			continue
		}
		if data, ok := resets[n.ID]; ok {
			nextNodes = append(nextNodes, &entities.Node{ID: n.ID, Kind: n.Kind, Position: n.Position, Data: data})
			continue
		}
		nextNodes = append(nextNodes, n)
	}

	nextEdges := make([]*entities.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if removed[e.Source] || removed[e.Target] {
			continue
		}
		nextEdges = append(nextEdges, e)
	}

	for id := range removed {
		delete(s.sizes, id)
	}

	s.nodes = nextNodes
	s.edges = nextEdges
}

// ExpandAll expands every expandable agent strictly sequentially: each
// fetch completes and applies before the next starts, so concurrent
// mutation of the shared collection cannot interleave. Per-agent failures
// are logged and skipped.
func (s *GraphSession) ExpandAll(ctx context.Context) error {
	s.mu.Lock()
	var pending []string
	for _, n := range s.nodes {
		if n.Kind != entities.NodeKindAgent {
			continue
		}
		data := n.Data.(entities.AgentNodeData)
		if data.Expandable() && !data.IsExpanded {
			pending = append(pending, n.ID)
		}
	}
	s.mu.Unlock()

	for _, nodeID := range pending {
		if err := ctx.Err(); err != nil {
			return errs.InternalErrorf("expand all canceled: %v", err)
		}
		if err := s.ExpandNode(ctx, nodeID); err != nil {
			s.logger.Warn("expand all: node failed", zap.String("node_id", nodeID), zap.Error(err))
		}
	}
	return nil
}

// CollapseAll collapses every expanded agent in one synchronous batch; no
// I/O is involved.
func (s *GraphSession) CollapseAll() {
	s.mu.Lock()
	resets := make(map[string]entities.NodeData)
	var agentIDs []string
	for _, n := range s.nodes {
		if n.Kind != entities.NodeKindAgent {
			continue
		}
		data := n.Data.(entities.AgentNodeData)
		if !data.IsExpanded {
			continue
		}
		data.IsExpanded = false
		resets[n.ID] = data
		agentIDs = append(agentIDs, data.AgentID)
	}
	if len(agentIDs) == 0 {
		s.mu.Unlock()
		return
	}

	s.removeDescendantsLocked(resets, func(id string) bool {
		for _, agentID := range agentIDs {
			if entities.IsAgentDescendant(id, agentID) {
				return true
			}
		}
		return false
	})
	s.scheduleLayoutLocked()
	graph := s.graphLocked()
	s.mu.Unlock()

	events.PublishGraphChanged(s.ID, "collapse", graph)
}

// HasExpandableNodes reports whether anything in the graph can still be
// expanded.
func (s *GraphSession) HasExpandableNodes() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		switch n.Kind {
		case entities.NodeKindAgent:
			data := n.Data.(entities.AgentNodeData)
			if data.Expandable() && !data.IsExpanded {
				return true
			}
		case entities.NodeKindSkillCategory:
			if !n.Data.(entities.SkillCategoryNodeData).IsExpanded {
				return true
			}
		case entities.NodeKindSkill:
			data := n.Data.(entities.SkillNodeData)
			if data.Expandable() && !data.IsExpanded {
				return true
			}
		}
	}
	return false
}

// HasExpandedNodes reports whether any node is currently expanded.
func (s *GraphSession) HasExpandedNodes() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		switch n.Kind {
		case entities.NodeKindAgent:
			if n.Data.(entities.AgentNodeData).IsExpanded {
				return true
			}
		case entities.NodeKindSkillCategory:
			if n.Data.(entities.SkillCategoryNodeData).IsExpanded {
				return true
			}
		case entities.NodeKindSkill:
			if n.Data.(entities.SkillNodeData).IsExpanded {
				return true
			}
		}
	}
	return false
}

// RunLayout runs one layout pass over the canonical collection. Passes are
// mutually exclusive: a call arriving while one is in flight is a no-op,
// not queued.
func (s *GraphSession) RunLayout() {
	if !s.layoutBusy.CompareAndSwap(false, true) {
		return
	}
	defer s.layoutBusy.Store(false)

	s.mu.Lock()
	if s.closed || len(s.nodes) == 0 {
		s.mu.Unlock()
		return
	}
	// Swap in repositioned replacement nodes; snapshots already handed out
	// keep the pointers they were built from.
	s.nodes = ApplyLayout(s.nodes, s.edges, LayoutOptions{Direction: s.direction, Sizes: s.sizes})
	graph := s.graphLocked()
	s.mu.Unlock()

	events.PublishGraphChanged(s.ID, "layout", graph)
}

// scheduleLayoutLocked coalesces relayout requests: one timer at a time,
// fired layoutDelay after the first structural mutation.
func (s *GraphSession) scheduleLayoutLocked() {
	if s.layoutTimer != nil || s.closed {
		return
	}
	s.layoutTimer = time.AfterFunc(layoutDelay, func() {
		s.mu.Lock()
		s.layoutTimer = nil
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			s.RunLayout()
		}
	})
}

// FitView returns the viewport fitting the whole graph into the canvas.
func (s *GraphSession) FitView(width, height float64) entities.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FitViewport(s.nodes, s.sizes, width, height)
}

// SetMeasurements records node dimensions reported by the rendering
// surface; the next layout pass uses them.
func (s *GraphSession) SetMeasurements(sizes map[string]entities.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, size := range sizes {
		s.sizes[id] = size
	}
}

// Resync rebuilds the whole graph for a (possibly new) view and filters.
// The rebuilt collection only replaces the current one when its content
// key actually changed, guarding against redundant resets from polling
// payloads that are referentially new but content-identical. A real resync
// discards all expansion state and clears the expand cache.
func (s *GraphSession) Resync(ctx context.Context, view entities.ViewKind, filters entities.ViewFilters) error {
	batch, err := s.batch.BuildBatch(ctx, view)
	if err != nil {
		return err
	}
	graph, err := BuildGraph(view, batch, filters)
	if err != nil {
		return err
	}
	key := resyncKey(graph.Nodes)

	s.mu.Lock()
	if view == s.view && key == s.syncKey {
		s.filters = filters
		s.mu.Unlock()
		return nil
	}

	s.view = view
	s.filters = filters
	s.edges = graph.Edges
	s.syncKey = key
	s.generation++
	s.cache.clear()

	present := make(map[string]bool, len(graph.Nodes))
	for _, n := range graph.Nodes {
		present[n.ID] = true
	}
	for id := range s.sizes {
		if !present[id] {
			delete(s.sizes, id)
		}
	}

	s.nodes = ApplyLayout(graph.Nodes, graph.Edges, LayoutOptions{Direction: s.direction, Sizes: s.sizes})
	out := s.graphLocked()
	s.mu.Unlock()

	events.PublishGraphChanged(s.ID, "resync", out)
	return nil
}

// applyActivity merges an activity snapshot into the canonical collection.
// Flag-only: topology and positions are untouched and no relayout runs.
// Merging is idempotent; an unchanged merge publishes nothing.
func (s *GraphSession) applyActivity(snapshot *entities.ActivitySnapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	next, changed := MergeActivity(s.nodes, snapshot)
	if changed == 0 {
		s.mu.Unlock()
		return
	}
	s.nodes = next
	graph := s.graphLocked()
	s.mu.Unlock()

	events.PublishGraphChanged(s.ID, "activity", graph)
}

// prefetch opportunistically warms the expand cache for the first few
// expandable agents. Failures are ignored; on-demand fetch is the
// fallback.
func (s *GraphSession) prefetch(ctx context.Context) {
	s.mu.Lock()
	var agentIDs []string
	for _, n := range s.nodes {
		if len(agentIDs) == prefetchAgentLimit {
			break
		}
		if n.Kind != entities.NodeKindAgent {
			continue
		}
		data := n.Data.(entities.AgentNodeData)
		if data.Expandable() {
			agentIDs = append(agentIDs, data.AgentID)
		}
	}
	s.mu.Unlock()

	for _, agentID := range agentIDs {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.cache.bundle(ctx, agentID); err != nil {
			s.logger.Debug("prefetch failed", zap.String("agent_id", agentID), zap.Error(err))
		}
	}
}

// Close detaches the session from the activity stream and stops pending
// layout work and background fetches.
func (s *GraphSession) Close() {
	s.mu.Lock()
	s.closed = true
	if s.layoutTimer != nil {
		s.layoutTimer.Stop()
		s.layoutTimer = nil
	}
	s.mu.Unlock()

	s.cancel()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// resyncKey derives a stable content key from a node set: the sorted node
// ids plus the content-revision bits that can change without the id set
// changing. An id-only key would mask filter toggles that alter node
// content while leaving ids identical.
func resyncKey(nodes []*entities.Node) string {
	keys := make([]string, 0, len(nodes))
	for _, n := range nodes {
		keys = append(keys, n.ID+":"+contentRevision(n))
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

func contentRevision(n *entities.Node) string {
	switch data := n.Data.(type) {
	case entities.AgentNodeData:
		return boolBits(data.IsActive, data.IsArchived)
	case entities.ChannelNodeData:
		return boolBits(data.IsEnabled, false)
	case entities.ProjectNodeData:
		return boolBits(data.IsArchived, false) + strconv.Itoa(data.AgentCount)
	case entities.UserNodeData:
		return boolBits(data.IsActive, false)
	case entities.AgentSecurityNodeData:
		return data.ProfileID + boolBits(data.Inherited, false)
	case entities.SkillSecurityNodeData:
		return data.ProfileID + boolBits(data.Inherited, false)
	}
	return ""
}

func boolBits(a, b bool) string {
	bits := make([]byte, 2)
	for i, v := range []bool{a, b} {
		if v {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}
