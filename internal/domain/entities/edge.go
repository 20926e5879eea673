package entities

import "fmt"

// Edge connects two nodes by id. Source and Target must always name nodes
// present in the same graph; removal of a node removes its edges in the
// same mutation.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated"`
	Dashed   bool   `json:"dashed"`
}

func EdgeID(source, target string) string {
	return fmt.Sprintf("e-%s-%s", source, target)
}

func NewEdge(source, target string) *Edge {
	return &Edge{ID: EdgeID(source, target), Source: source, Target: target}
}
