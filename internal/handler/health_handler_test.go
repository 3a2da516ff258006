package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"docschema/internal/handler"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(context.Context) error { return f.err }

type fakeStorage struct{ err error }

func (f fakeStorage) Ping(context.Context) error { return f.err }

func runReadiness(h *handler.HealthHandler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	return w
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", nil)

	handler.NewHealthHandler(fakeDB{}, nil).Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	w := runReadiness(handler.NewHealthHandler(fakeDB{}, fakeStorage{}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = runReadiness(handler.NewHealthHandler(fakeDB{}, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_DBDown(t *testing.T) {
	w := runReadiness(handler.NewHealthHandler(fakeDB{err: errors.New("refused")}, fakeStorage{}))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not reachable")
}

func TestHealthHandler_Readiness_StorageDown(t *testing.T) {
	w := runReadiness(handler.NewHealthHandler(fakeDB{}, fakeStorage{err: errors.New("403")}))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "document storage not reachable")
}
