package apicontrollers

import (
	"net/http"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/events"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActivityController ingests activity snapshots pushed by the platform and
// fans them out to sessions over the event bus. Ingest is best-effort: a
// snapshot is accepted as long as it parses.
type ActivityController struct {
	logger *zap.Logger
}

func NewActivityController(logger *zap.Logger) *ActivityController {
	return &ActivityController{logger: logger}
}

// RegisterRoutes registers the activity ingest route with Echo
func (c *ActivityController) RegisterRoutes(e *echo.Group) {
	e.POST("/activity", c.PushSnapshot)
}

// PushSnapshot handles the POST request delivering a new activity snapshot
func (c *ActivityController) PushSnapshot(ctx echo.Context) error {
	var snapshot entities.ActivitySnapshot
	if err := ctx.Bind(&snapshot); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid snapshot body"})
	}

	events.PublishActivitySnapshot(&snapshot)
	c.logger.Debug("activity snapshot published",
		zap.Int("processing_agents", len(snapshot.ProcessingAgents)),
		zap.Int("active_channels", len(snapshot.ActiveChannels)))
	return ctx.NoContent(http.StatusAccepted)
}
