package entities

// ViewKind selects which slice of the platform the graph shows.
type ViewKind string

const (
	ViewAgents   ViewKind = "agents"
	ViewProjects ViewKind = "projects"
	ViewUsers    ViewKind = "users"
	ViewSecurity ViewKind = "security"
)

func (v ViewKind) Valid() bool {
	switch v {
	case ViewAgents, ViewProjects, ViewUsers, ViewSecurity:
		return true
	}
	return false
}

// ViewFilters are the top-level toggles applied before node synthesis.
type ViewFilters struct {
	ShowInactive bool `json:"show_inactive"`
	ShowArchived bool `json:"show_archived"`
}

// Graph is a node/edge snapshot handed to the UI.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
	Stats *Stats  `json:"stats,omitempty"`
}

type Stats struct {
	TotalNodes  int              `json:"total_nodes"`
	TotalEdges  int              `json:"total_edges"`
	NodesByKind map[NodeKind]int `json:"nodes_by_kind,omitempty"`
}

func BuildStats(nodes []*Node, edges []*Edge) *Stats {
	byKind := make(map[NodeKind]int)
	for _, n := range nodes {
		byKind[n.Kind]++
	}
	return &Stats{
		TotalNodes:  len(nodes),
		TotalEdges:  len(edges),
		NodesByKind: byKind,
	}
}

// Viewport is the pan/zoom transform fitting the whole graph into a canvas.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}
