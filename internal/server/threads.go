package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kapilnchauhan77/marketing-consultant-agent/graph"
	"github.com/kapilnchauhan77/marketing-consultant-agent/internal/store"
	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

// Runner is the graph surface the thread handlers depend on.
type Runner interface {
	StartThread() (string, error)
	Run(ctx context.Context, threadID string, input models.Message) ([]models.Message, error)
	History(threadID string) ([]models.Message, error)
}

type ThreadsHandler struct {
	Graph   Runner
	Plans   *store.Store
	Timeout time.Duration
}

func (h *ThreadsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.POST("/:id/messages", h.postMessage)
	g.GET("/:id/messages", h.transcript)
	g.GET("/:id/plan", h.plan)
}

func (h *ThreadsHandler) create(c echo.Context) error {
	id, err := h.Graph.StartThread()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, CreateThreadResponse{ThreadID: id})
}

func (h *ThreadsHandler) postMessage(c echo.Context) error {
	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	threadID := c.Param("id")
	produced, err := h.Graph.Run(ctx, threadID, models.Human(req.Message))
	if err != nil {
		if errors.Is(err, graph.ErrThreadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "thread not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	if len(produced) == 0 {
		return echo.NewHTTPError(http.StatusInternalServerError, "turn produced no messages")
	}

	last := produced[len(produced)-1]
	resp := TurnResponse{Message: last.Content}
	if last.IsFinalPlan() {
		resp.IsFinal = true
		resp.FinalPlan = json.RawMessage(last.Content)
		if h.Plans != nil {
			if err := h.Plans.SavePlan(ctx, threadID, []byte(last.Content)); err != nil {
				// archiving failure must not lose the plan already in the response
				c.Logger().Errorf("archive plan for thread %s: %v", threadID, err)
			}
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ThreadsHandler) transcript(c echo.Context) error {
	history, err := h.Graph.History(c.Param("id"))
	if err != nil {
		if errors.Is(err, graph.ErrThreadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "thread not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]TranscriptMessage, 0, len(history))
	for _, m := range history {
		out = append(out, TranscriptMessage{
			Role:    string(m.Role),
			Content: m.Content,
			Name:    m.Name,
		})
	}
	return c.JSON(http.StatusOK, TranscriptResponse{ThreadID: c.Param("id"), Messages: out})
}

func (h *ThreadsHandler) plan(c echo.Context) error {
	if h.Plans == nil {
		return echo.NewHTTPError(http.StatusNotFound, "plan archive not configured")
	}
	document, updatedAt, err := h.Plans.GetPlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "no plan for thread")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, PlanResponse{
		ThreadID:  c.Param("id"),
		Plan:      json.RawMessage(document),
		UpdatedAt: updatedAt,
	})
}
