package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edfefegeger/polymind/internal/arena"
)

func newEventRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &EventHandler{Lifecycle: &arena.Lifecycle{}}
	h.Register(engine)
	return engine
}

func TestEventIDValidation(t *testing.T) {
	engine := newEventRouter()
	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/events/abc/bets"},
		{http.MethodPost, "/events/abc/start"},
		{http.MethodPost, "/events/abc/resolve"},
		{http.MethodPut, "/events/abc"},
		{http.MethodDelete, "/events/abc"},
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s %s = %d, want %d", route.method, route.path, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestEventCreateRejectsBadBody(t *testing.T) {
	engine := newEventRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader("{not json"))
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
