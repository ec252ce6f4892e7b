package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edfefegeger/polymind/internal/arena"
)

type EventHandler struct {
	Lifecycle *arena.Lifecycle
	Logger    *zap.Logger
}

func (h *EventHandler) Register(r *gin.Engine) {
	group := r.Group("/events")
	group.GET("", h.list)
	group.POST("", h.create)
	group.GET("/current", h.current)
	group.GET("/:id/bets", h.bets)
	group.POST("/:id/start", h.start)
	group.POST("/:id/resolve", h.resolve)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}

type createEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

type resolveEventRequest struct {
	WinningSide string `json:"winning_side"`
}

func eventID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid event id", nil)
		return 0, false
	}
	return id, true
}

func (h *EventHandler) list(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	views, err := h.Lifecycle.List(c.Request.Context(), limit)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, views, nil)
}

func (h *EventHandler) create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	event, err := h.Lifecycle.Create(c.Request.Context(),
		strings.TrimSpace(req.Title), req.Description, req.DurationMinutes)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, event, nil)
}

func (h *EventHandler) current(c *gin.Context) {
	view, err := h.Lifecycle.Current(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, view, nil)
}

func (h *EventHandler) bets(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	bets, err := h.Lifecycle.EventBets(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, bets, nil)
}

func (h *EventHandler) start(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	event, err := h.Lifecycle.Start(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, event, map[string]any{
		"yes_pool": event.YesPool,
		"no_pool":  event.NoPool,
	})
}

func (h *EventHandler) resolve(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req resolveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	side := strings.ToUpper(strings.TrimSpace(req.WinningSide))
	event, err := h.Lifecycle.Resolve(c.Request.Context(), id, side)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, event, nil)
}

func (h *EventHandler) update(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var patch arena.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Lifecycle.Update(c.Request.Context(), id, patch); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, nil, nil)
}

func (h *EventHandler) delete(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.Lifecycle.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, nil, nil)
}
