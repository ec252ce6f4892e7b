package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/edfefegeger/polymind/internal/arena"
	"github.com/edfefegeger/polymind/internal/feed"
)

const wsWriteTimeout = 5 * time.Second

// WSHandler serves the push channel: a subscriber gets the full history
// snapshot on connect, then every feed message in emission order until it
// disconnects or falls too far behind.
type WSHandler struct {
	Feed      *feed.Hub
	Lifecycle *arena.Lifecycle
	Logger    *zap.Logger
}

func (h *WSHandler) Register(r *gin.Engine) {
	r.GET("/ws", h.serve)
}

func (h *WSHandler) serve(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := c.Request.Context()

	// Subscribe before building the snapshot so a delta broadcast in between
	// queues on the channel instead of being missed.
	id, ch := h.Feed.Subscribe()
	defer h.Feed.Unsubscribe(id)

	snapshot, err := h.Lifecycle.HistorySnapshot(ctx)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("initial history snapshot failed", zap.Error(err))
		}
		return
	}
	if err := h.write(ctx, conn, feed.Message{Type: feed.TypeHistory, Data: snapshot}); err != nil {
		return
	}

	// Reads are only used to notice the peer going away.
	readClosed := make(chan struct{})
	go func() {
		defer close(readClosed)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readClosed:
			return
		case msg, ok := <-ch:
			if !ok {
				// Dropped by the hub for falling behind.
				return
			}
			if err := h.write(ctx, conn, msg); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, msg feed.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, payload)
}
