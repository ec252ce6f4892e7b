package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edfefegeger/polymind/internal/arena"
	"github.com/edfefegeger/polymind/internal/models"
)

type AgentHandler struct {
	Registry  *arena.Registry
	Lifecycle *arena.Lifecycle
}

func (h *AgentHandler) Register(r *gin.Engine) {
	r.GET("/agents", h.list)
	r.GET("/agents/:id", h.get)
	r.GET("/leaderboard", h.leaderboard)
	r.GET("/history", h.history)
}

type agentView struct {
	models.Agent
	WinRate float64 `json:"winrate"`
}

func (h *AgentHandler) list(c *gin.Context) {
	agents, err := h.Registry.Agents(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	views := make([]agentView, 0, len(agents))
	for _, a := range agents {
		views = append(views, agentView{Agent: a, WinRate: arena.WinRate(a)})
	}
	Ok(c, views, nil)
}

func (h *AgentHandler) get(c *gin.Context) {
	agent, err := h.Registry.Agent(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, agentView{Agent: *agent, WinRate: arena.WinRate(*agent)}, nil)
}

func (h *AgentHandler) leaderboard(c *gin.Context) {
	rows, err := h.Registry.Leaderboard(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, rows, nil)
}

func (h *AgentHandler) history(c *gin.Context) {
	snapshot, err := h.Lifecycle.HistorySnapshot(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, snapshot, nil)
}
