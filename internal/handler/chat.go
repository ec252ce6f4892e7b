package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edfefegeger/polymind/internal/arena"
	"github.com/edfefegeger/polymind/internal/models"
	"github.com/edfefegeger/polymind/internal/repository"
)

type ChatHandler struct {
	Repo     repository.Repository
	Narrator arena.Narrator
}

func (h *ChatHandler) Register(r *gin.Engine) {
	r.GET("/chat/messages", h.messages)
	r.POST("/model-chat", h.modelChat)
}

type chatMessageView struct {
	models.ChatMessage
	AgentName string `json:"agent_name,omitempty"`
}

func (h *ChatHandler) messages(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	messages, err := h.Repo.ListChatMessages(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	agents, err := h.Repo.ListAgents(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	nameByID := make(map[string]string, len(agents))
	for _, a := range agents {
		nameByID[a.ID] = a.Name
	}
	views := make([]chatMessageView, 0, len(messages))
	for _, m := range messages {
		view := chatMessageView{ChatMessage: m}
		if m.AgentID != nil {
			view.AgentName = nameByID[*m.AgentID]
		}
		views = append(views, view)
	}
	Ok(c, views, nil)
}

type modelChatRequest struct {
	AgentID  string `json:"agent_id"`
	Question string `json:"question"`
}

func (h *ChatHandler) modelChat(c *gin.Context) {
	var req modelChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		Error(c, http.StatusBadRequest, "question is required", nil)
		return
	}
	if h.Narrator == nil {
		Error(c, http.StatusServiceUnavailable, "narrator unavailable", nil)
		return
	}
	answer := h.Narrator.Explain(c.Request.Context(), req.AgentID, req.Question)
	Ok(c, gin.H{"answer": answer}, nil)
}
