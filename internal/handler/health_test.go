package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"blockchainspace/internal/db"
)

type readyFlag bool

func (f readyFlag) Ready() bool { return bool(f) }

func newHealthEngine(h *HealthHandler) *gin.Engine {
	r := gin.New()
	h.Register(r)
	return r
}

func TestHealthAlwaysOK(t *testing.T) {
	w := doJSON(t, newHealthEngine(&HealthHandler{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyWithoutStore(t *testing.T) {
	w := doJSON(t, newHealthEngine(&HealthHandler{}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"db_missing"}`, w.Body.String())
}

func TestReadyUnopenedStore(t *testing.T) {
	w := doJSON(t, newHealthEngine(&HealthHandler{DB: &db.DB{}}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"db_unreachable"}`, w.Body.String())
}

func TestReadyReportsNATSDisconnect(t *testing.T) {
	h := &HealthHandler{DB: &db.DB{}, NATS: readyFlag(false)}
	w := doJSON(t, newHealthEngine(h), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"nats_disconnected"}`, w.Body.String())

	h.NATS = readyFlag(true)
	w = doJSON(t, newHealthEngine(h), http.MethodGet, "/readyz", "")
	assert.JSONEq(t, `{"status":"db_unreachable"}`, w.Body.String())
}
