package apicontrollers

import (
	"fmt"
	"net/http"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type GraphController struct {
	logger         *zap.Logger
	sessionService services.SessionService
}

func NewGraphController(logger *zap.Logger, sessionService services.SessionService) *GraphController {
	return &GraphController{
		logger:         logger,
		sessionService: sessionService,
	}
}

// RegisterRoutes registers all graph-session routes with Echo
func (c *GraphController) RegisterRoutes(e *echo.Group) {
	e.POST("/sessions", c.CreateSession)
	e.GET("/sessions/:id", c.GetGraph)
	e.PUT("/sessions/:id/view", c.UpdateView)
	e.DELETE("/sessions/:id", c.DeleteSession)
	e.POST("/sessions/:id/nodes/:nodeId/expand", c.ExpandNode)
	e.POST("/sessions/:id/nodes/:nodeId/collapse", c.CollapseNode)
	e.POST("/sessions/:id/expand-all", c.ExpandAll)
	e.POST("/sessions/:id/collapse-all", c.CollapseAll)
	e.POST("/sessions/:id/layout", c.RunLayout)
	e.POST("/sessions/:id/fit-view", c.FitView)
	e.POST("/sessions/:id/measurements", c.SetMeasurements)
}

type createSessionRequest struct {
	View      entities.ViewKind        `json:"view"`
	Direction services.LayoutDirection `json:"direction"`
	Filters   entities.ViewFilters     `json:"filters"`
}

type sessionResponse struct {
	SessionID     string            `json:"session_id"`
	View          entities.ViewKind `json:"view"`
	Graph         *entities.Graph   `json:"graph"`
	HasExpandable bool              `json:"has_expandable_nodes"`
	HasExpanded   bool              `json:"has_expanded_nodes"`
}

// CreateSession handles the POST request to open a new graph session
func (c *GraphController) CreateSession(ctx echo.Context) error {
	var req createSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, "Invalid request body", http.StatusBadRequest)
	}

	session, err := c.sessionService.CreateSession(ctx.Request().Context(), req.View, req.Filters, req.Direction)
	if err != nil {
		switch err.(type) {
		case *errs.ValidationError:
			return c.handleError(ctx, err, http.StatusBadRequest)
		default:
			return c.handleError(ctx, err, http.StatusInternalServerError)
		}
	}

	return ctx.JSON(http.StatusCreated, sessionResponse{
		SessionID:     session.ID,
		View:          req.View,
		Graph:         session.Graph(),
		HasExpandable: session.HasExpandableNodes(),
		HasExpanded:   session.HasExpandedNodes(),
	})
}

// GetGraph handles the GET request for a session's current graph
func (c *GraphController) GetGraph(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sessionResponse{
		SessionID:     session.ID,
		Graph:         session.Graph(),
		HasExpandable: session.HasExpandableNodes(),
		HasExpanded:   session.HasExpandedNodes(),
	})
}

type updateViewRequest struct {
	View    entities.ViewKind    `json:"view"`
	Filters entities.ViewFilters `json:"filters"`
}

// UpdateView handles the PUT request to switch view or filters,
// resynchronizing the graph when its content actually changed
func (c *GraphController) UpdateView(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	var req updateViewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, "Invalid request body", http.StatusBadRequest)
	}

	if err := session.Resync(ctx.Request().Context(), req.View, req.Filters); err != nil {
		switch err.(type) {
		case *errs.ValidationError:
			return c.handleError(ctx, err, http.StatusBadRequest)
		default:
			return c.handleError(ctx, err, http.StatusBadGateway)
		}
	}
	return ctx.JSON(http.StatusOK, sessionResponse{SessionID: session.ID, Graph: session.Graph()})
}

// DeleteSession handles the DELETE request to close a session
func (c *GraphController) DeleteSession(ctx echo.Context) error {
	if err := c.sessionService.DeleteSession(ctx.Param("id")); err != nil {
		switch err.(type) {
		case *errs.NotFoundError:
			return c.handleError(ctx, "Session not found", http.StatusNotFound)
		default:
			return c.handleError(ctx, err, http.StatusInternalServerError)
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ExpandNode handles the POST request to expand one node
func (c *GraphController) ExpandNode(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	if err := session.ExpandNode(ctx.Request().Context(), ctx.Param("nodeId")); err != nil {
		switch err.(type) {
		case *errs.NotFoundError:
			return c.handleError(ctx, "Node not found", http.StatusNotFound)
		case *errs.ValidationError:
			return c.handleError(ctx, err, http.StatusBadRequest)
		default:
			return c.handleError(ctx, err, http.StatusBadGateway)
		}
	}
	return ctx.JSON(http.StatusOK, sessionResponse{SessionID: session.ID, Graph: session.Graph()})
}

// CollapseNode handles the POST request to collapse one node
func (c *GraphController) CollapseNode(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	if err := session.CollapseNode(ctx.Param("nodeId")); err != nil {
		switch err.(type) {
		case *errs.NotFoundError:
			return c.handleError(ctx, "Node not found", http.StatusNotFound)
		case *errs.ValidationError:
			return c.handleError(ctx, err, http.StatusBadRequest)
		default:
			return c.handleError(ctx, err, http.StatusInternalServerError)
		}
	}
	return ctx.JSON(http.StatusOK, sessionResponse{SessionID: session.ID, Graph: session.Graph()})
}

// ExpandAll handles the POST request to expand every expandable agent
func (c *GraphController) ExpandAll(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	if err := session.ExpandAll(ctx.Request().Context()); err != nil {
		return c.handleError(ctx, err, http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, sessionResponse{SessionID: session.ID, Graph: session.Graph()})
}

// CollapseAll handles the POST request to collapse every expanded agent
func (c *GraphController) CollapseAll(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	session.CollapseAll()
	return ctx.JSON(http.StatusOK, sessionResponse{SessionID: session.ID, Graph: session.Graph()})
}

// RunLayout handles the POST request to force a layout pass
func (c *GraphController) RunLayout(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	session.RunLayout()
	return ctx.JSON(http.StatusOK, sessionResponse{SessionID: session.ID, Graph: session.Graph()})
}

type fitViewRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitView handles the POST request for the viewport fitting the graph
func (c *GraphController) FitView(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	var req fitViewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, "Invalid request body", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, session.FitView(req.Width, req.Height))
}

type measurementsRequest struct {
	Sizes map[string]entities.Size `json:"sizes"`
}

// SetMeasurements handles the POST request reporting rendered node sizes
func (c *GraphController) SetMeasurements(ctx echo.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	var req measurementsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, "Invalid request body", http.StatusBadRequest)
	}
	session.SetMeasurements(req.Sizes)
	return ctx.NoContent(http.StatusNoContent)
}

func (c *GraphController) session(ctx echo.Context) (*services.GraphSession, error) {
	id := ctx.Param("id")
	if id == "" {
		return nil, c.handleError(ctx, "Missing session ID", http.StatusBadRequest)
	}
	session, err := c.sessionService.GetSession(id)
	if err != nil {
		switch err.(type) {
		case *errs.NotFoundError:
			return nil, c.handleError(ctx, "Session not found", http.StatusNotFound)
		default:
			return nil, c.handleError(ctx, err, http.StatusInternalServerError)
		}
	}
	return session, nil
}

func (c *GraphController) handleError(ctx echo.Context, message any, status int) error {
	msg := fmt.Sprintf("%v", message)
	c.logger.Error("graph controller error", zap.String("message", msg), zap.Int("status", status))
	return ctx.JSON(status, map[string]string{"error": msg})
}
