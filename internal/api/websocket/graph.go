package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agentfleet/watcher/internal/domain/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GraphHub fans session graph updates out to connected UI clients. Each
// connection registers under a session id; every graph-changed event for
// that session is pushed as one JSON frame.
type GraphHub struct {
	connections map[string][]*websocket.Conn
	register    chan registration
	unregister  chan unregistration
	broadcast   chan broadcastMessage
	logger      *zap.Logger
}

type registration struct {
	SessionID string
	conn      *websocket.Conn
}

type unregistration struct {
	SessionID string
	conn      *websocket.Conn
}

type broadcastMessage struct {
	SessionID string
	payload   graphFrame
}

type graphFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
	Graph     any    `json:"graph"`
}

func NewGraphHub(logger *zap.Logger) *GraphHub {
	return &GraphHub{
		connections: make(map[string][]*websocket.Conn),
		register:    make(chan registration),
		unregister:  make(chan unregistration),
		broadcast:   make(chan broadcastMessage),
		logger:      logger,
	}
}

// Run processes hub events; call it on its own goroutine. It also
// subscribes the hub to graph-changed events on the bus.
func (h *GraphHub) Run() {
	unsubscribe := events.SubscribeToGraphChanges(func(data events.GraphChangedEventData) {
		h.broadcast <- broadcastMessage{
			SessionID: data.SessionID,
			payload: graphFrame{
				Type:      "graph",
				SessionID: data.SessionID,
				Reason:    data.Reason,
				Graph:     data.Graph,
			},
		}
	})
	defer unsubscribe()

	for {
		select {
		case reg := <-h.register:
			h.connections[reg.SessionID] = append(h.connections[reg.SessionID], reg.conn)
		case unreg := <-h.unregister:
			if conns, ok := h.connections[unreg.SessionID]; ok {
				for i, conn := range conns {
					if conn == unreg.conn {
						h.connections[unreg.SessionID] = append(conns[:i], conns[i+1:]...)
						break
					}
				}
				if len(h.connections[unreg.SessionID]) == 0 {
					delete(h.connections, unreg.SessionID)
				}
			}
		case msg := <-h.broadcast:
			for _, conn := range h.connections[msg.SessionID] {
				if err := conn.WriteJSON(msg.payload); err != nil {
					h.logger.Warn("websocket write failed", zap.Error(err))
					go func(c *websocket.Conn) {
						h.unregister <- unregistration{msg.SessionID, c}
					}(conn)
				}
			}
		}
	}
}

// Handler upgrades the request and keeps the connection registered until
// the client goes away. The read loop only exists to detect closure.
func Handler(hub *GraphHub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			http.Error(w, "Missing session_id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		hub.register <- registration{sessionID, conn}
		defer func() {
			hub.unregister <- unregistration{sessionID, conn}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
