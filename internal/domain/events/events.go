package events

import (
	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/kelindar/event"
)

// Event types
const (
	ActivitySnapshotEventType uint32 = 1
	GraphChangedEventType     uint32 = 2
)

// ActivitySnapshotEventData carries a wholesale activity snapshot pushed
// by the platform.
type ActivitySnapshotEventData struct {
	Snapshot *entities.ActivitySnapshot
}

// GraphChangedEventData carries a session's graph after a structural or
// flag mutation. Reason is one of "resync", "layout", "expand", "collapse",
// "activity".
type GraphChangedEventData struct {
	SessionID string
	Reason    string
	Graph     *entities.Graph
}

// Type implements the Event interface
func (a ActivitySnapshotEventData) Type() uint32 {
	return ActivitySnapshotEventType
}

// Type implements the Event interface
func (g GraphChangedEventData) Type() uint32 {
	return GraphChangedEventType
}

// PublishActivitySnapshot publishes a new platform activity snapshot.
func PublishActivitySnapshot(snapshot *entities.ActivitySnapshot) {
	event.Emit(ActivitySnapshotEventData{Snapshot: snapshot})
}

// SubscribeToActivitySnapshots subscribes to activity snapshot pushes.
func SubscribeToActivitySnapshots(handler func(data ActivitySnapshotEventData)) func() {
	return event.On(handler)
}

// PublishGraphChanged publishes a session graph change.
func PublishGraphChanged(sessionID, reason string, graph *entities.Graph) {
	event.Emit(GraphChangedEventData{SessionID: sessionID, Reason: reason, Graph: graph})
}

// SubscribeToGraphChanges subscribes to session graph changes.
func SubscribeToGraphChanges(handler func(data GraphChangedEventData)) func() {
	return event.On(handler)
}
