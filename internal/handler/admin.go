package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edfefegeger/polymind/internal/arena"
)

type AdminHandler struct {
	Lifecycle *arena.Lifecycle
}

func (h *AdminHandler) Register(r *gin.Engine) {
	group := r.Group("/admin")
	group.POST("/points", h.addPoint)
	group.GET("/points", h.listPoints)
	group.DELETE("/points/:id", h.deletePoint)
	group.POST("/recompute", h.recompute)
	r.POST("/reset", h.reset)
}

func (h *AdminHandler) addPoint(c *gin.Context) {
	var point arena.AdminPoint
	if err := c.ShouldBindJSON(&point); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Lifecycle.AddHistoryPoint(c.Request.Context(), point); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, nil, nil)
}

func (h *AdminHandler) listPoints(c *gin.Context) {
	points, err := h.Lifecycle.HistoryList(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, points, nil)
}

func (h *AdminHandler) deletePoint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid point id", nil)
		return
	}
	if err := h.Lifecycle.RemoveHistoryPoint(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *AdminHandler) recompute(c *gin.Context) {
	if err := h.Lifecycle.RecomputeAgents(c.Request.Context()); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, nil, nil)
}

func (h *AdminHandler) reset(c *gin.Context) {
	if err := h.Lifecycle.Reset(c.Request.Context()); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, nil, nil)
}
