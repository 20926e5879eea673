package services

import (
	"sort"

	"github.com/agentfleet/watcher/internal/domain/entities"
)

// LayoutDirection is one of the four compass directions the UI can pick.
type LayoutDirection string

const (
	DirectionLR LayoutDirection = "LR"
	DirectionRL LayoutDirection = "RL"
	DirectionTB LayoutDirection = "TB"
	DirectionBT LayoutDirection = "BT"
)

const (
	defaultNodeWidth  = 220.0
	defaultNodeHeight = 72.0
	nodeSpacing       = 40.0
	rankSpacing       = 120.0
	barycenterSweeps  = 4
)

// LayoutOptions configures one layout pass. Sizes maps node id to its
// measured dimensions; unmeasured nodes fall back to the defaults.
type LayoutOptions struct {
	Direction LayoutDirection
	Sizes     map[string]entities.Size
}

// ApplyLayout assigns a position to every node using a layered hierarchical
// layout and returns the positioned nodes as a replacement slice, preserving
// input order. The input nodes are never written: published snapshots may
// still hold those pointers while this runs. Identity and data carry over
// unchanged; a zero-node graph returns the input as is.
//
// Each node's static rank is a hard floor for its layer; targets are
// additionally pushed past their sources so tiers never invert. Layers are
// ordered by barycenter sweeps and coordinates come out center-anchored,
// then converted to the top-left anchoring the rendering surface expects.
func ApplyLayout(nodes []*entities.Node, edges []*entities.Edge, opts LayoutOptions) []*entities.Node {
	if len(nodes) == 0 {
		return nodes
	}

	dir := opts.Direction
	if dir == "" {
		dir = DirectionLR
	}
	// The channel/skill hierarchy always reads left to right, whatever the
	// user picked.
	for _, n := range nodes {
		if n.Kind.Hierarchical() {
			dir = DirectionLR
			break
		}
	}

	layers := assignLayers(nodes, edges)
	ordered := orderLayers(nodes, edges, layers)
	positions := positionLayers(ordered, dir, opts.Sizes)

	out := make([]*entities.Node, len(nodes))
	for i, n := range nodes {
		out[i] = &entities.Node{ID: n.ID, Kind: n.Kind, Position: positions[n.ID], Data: n.Data}
	}
	return out
}

// assignLayers computes each node's layer with Kahn's algorithm, seeding
// every node at its static rank and pushing each edge target at least one
// layer past its source. If the graph has a cycle the unprocessed remainder
// keeps its static rank.
func assignLayers(nodes []*entities.Node, edges []*entities.Edge) map[string]int {
	layer := make(map[string]int, len(nodes))
	inDegree := make(map[string]int, len(nodes))
	outgoing := make(map[string][]string, len(nodes))

	for _, n := range nodes {
		layer[n.ID] = n.Kind.Rank()
		inDegree[n.ID] = 0
	}
	for _, e := range edges {
		if _, ok := layer[e.Source]; !ok {
			continue
		}
		if _, ok := layer[e.Target]; !ok {
			continue
		}
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
		inDegree[e.Target]++
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		var next []string
		for _, id := range queue {
			for _, target := range outgoing[id] {
				if layer[id]+1 > layer[target] {
					layer[target] = layer[id] + 1
				}
				inDegree[target]--
				if inDegree[target] == 0 {
					next = append(next, target)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	// Normalize so the first layer is zero.
	min := 0
	first := true
	for _, l := range layer {
		if first || l < min {
			min = l
			first = false
		}
	}
	if min != 0 {
		for id := range layer {
			layer[id] -= min
		}
	}
	return layer
}

// orderLayers groups node ids by layer and reduces crossings with a few
// barycenter sweeps. Ordering is deterministic: initial order and all ties
// resolve by id.
func orderLayers(nodes []*entities.Node, edges []*entities.Edge, layer map[string]int) [][]string {
	maxLayer := 0
	for _, l := range layer {
		if l > maxLayer {
			maxLayer = l
		}
	}
	ordered := make([][]string, maxLayer+1)
	for _, n := range nodes {
		l := layer[n.ID]
		ordered[l] = append(ordered[l], n.ID)
	}
	for _, ids := range ordered {
		sort.Strings(ids)
	}

	preds := make(map[string][]string)
	succs := make(map[string][]string)
	for _, e := range edges {
		preds[e.Target] = append(preds[e.Target], e.Source)
		succs[e.Source] = append(succs[e.Source], e.Target)
	}

	index := make(map[string]int)
	reindex := func(ids []string) {
		for i, id := range ids {
			index[id] = i
		}
	}
	for _, ids := range ordered {
		reindex(ids)
	}

	barycenter := func(id string, neighbors []string) float64 {
		if len(neighbors) == 0 {
			return float64(index[id])
		}
		sum := 0.0
		for _, n := range neighbors {
			sum += float64(index[n])
		}
		return sum / float64(len(neighbors))
	}

	sortLayer := func(ids []string, neighborOf map[string][]string) {
		weights := make(map[string]float64, len(ids))
		for _, id := range ids {
			weights[id] = barycenter(id, neighborOf[id])
		}
		sort.SliceStable(ids, func(i, j int) bool {
			if weights[ids[i]] != weights[ids[j]] {
				return weights[ids[i]] < weights[ids[j]]
			}
			return ids[i] < ids[j]
		})
		reindex(ids)
	}

	for sweep := 0; sweep < barycenterSweeps; sweep++ {
		for l := 1; l <= maxLayer; l++ {
			sortLayer(ordered[l], preds)
		}
		for l := maxLayer - 1; l >= 0; l-- {
			sortLayer(ordered[l], succs)
		}
	}
	return ordered
}

// positionLayers computes final coordinates per node id. Layers advance
// along the main axis by the widest node in each layer plus rank spacing;
// nodes stack on the cross axis centered around zero.
func positionLayers(ordered [][]string, dir LayoutDirection, sizes map[string]entities.Size) map[string]entities.Position {
	positions := make(map[string]entities.Position)
	sizeOf := func(id string) entities.Size {
		if s, ok := sizes[id]; ok && s.Width > 0 && s.Height > 0 {
			return s
		}
		return entities.Size{Width: defaultNodeWidth, Height: defaultNodeHeight}
	}
	horizontal := dir == DirectionLR || dir == DirectionRL

	mainOffset := 0.0
	for _, ids := range ordered {
		if len(ids) == 0 {
			continue
		}

		extent := 0.0 // widest node in this layer along the main axis
		crossTotal := -nodeSpacing
		for _, id := range ids {
			s := sizeOf(id)
			if horizontal {
				if s.Width > extent {
					extent = s.Width
				}
				crossTotal += s.Height + nodeSpacing
			} else {
				if s.Height > extent {
					extent = s.Height
				}
				crossTotal += s.Width + nodeSpacing
			}
		}

		mainCenter := mainOffset + extent/2
		cross := -crossTotal / 2
		for _, id := range ids {
			s := sizeOf(id)
			var cx, cy float64
			if horizontal {
				cx = mainCenter
				cy = cross + s.Height/2
				cross += s.Height + nodeSpacing
				if dir == DirectionRL {
					cx = -cx
				}
			} else {
				cx = cross + s.Width/2
				cy = mainCenter
				cross += s.Width + nodeSpacing
				if dir == DirectionBT {
					cy = -cy
				}
			}
			// Center-anchored to top-left-anchored.
			positions[id] = entities.Position{X: cx - s.Width/2, Y: cy - s.Height/2}
		}
		mainOffset += extent + rankSpacing
	}
	return positions
}

// FitViewport computes the pan/zoom transform that fits all nodes into a
// canvas of the given size with a small margin. Zoom is clamped to [0.2, 2].
func FitViewport(nodes []*entities.Node, sizes map[string]entities.Size, width, height float64) entities.Viewport {
	if len(nodes) == 0 || width <= 0 || height <= 0 {
		return entities.Viewport{Zoom: 1}
	}

	sizeOf := func(id string) entities.Size {
		if s, ok := sizes[id]; ok && s.Width > 0 && s.Height > 0 {
			return s
		}
		return entities.Size{Width: defaultNodeWidth, Height: defaultNodeHeight}
	}

	minX, minY := nodes[0].Position.X, nodes[0].Position.Y
	maxX, maxY := minX, minY
	for _, n := range nodes {
		s := sizeOf(n.ID)
		if n.Position.X < minX {
			minX = n.Position.X
		}
		if n.Position.Y < minY {
			minY = n.Position.Y
		}
		if n.Position.X+s.Width > maxX {
			maxX = n.Position.X + s.Width
		}
		if n.Position.Y+s.Height > maxY {
			maxY = n.Position.Y + s.Height
		}
	}

	const margin = 40.0
	spanX := maxX - minX + 2*margin
	spanY := maxY - minY + 2*margin
	zoom := width / spanX
	if z := height / spanY; z < zoom {
		zoom = z
	}
	if zoom > 2 {
		zoom = 2
	}
	if zoom < 0.2 {
		zoom = 0.2
	}

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	return entities.Viewport{
		X:    width/2 - centerX*zoom,
		Y:    height/2 - centerY*zoom,
		Zoom: zoom,
	}
}
