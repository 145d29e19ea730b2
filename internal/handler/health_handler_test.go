package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/handler"
	"tikagate/internal/readiness"
	"tikagate/mocks"
)

func monitorInState(t *testing.T, state domain.ServiceState) *readiness.Monitor {
	t.Helper()
	engine := new(mocks.MockDocumentEngine)
	cfg := &config.TikaConfig{ProbeInterval: time.Millisecond, ProbeAttempts: 1}
	monitor := readiness.NewMonitor(engine, cfg, logrus.NewEntry(testLogger()))

	switch state {
	case domain.StateReady:
		engine.On("Probe", mock.Anything).Return(true)
		monitor.Start(context.Background())
	case domain.StateFailed:
		engine.On("Probe", mock.Anything).Return(false)
		monitor.Start(context.Background())
	case domain.StateStarting:
	}
	require.Equal(t, state, monitor.State())
	return monitor
}

func healthRouter(monitor *readiness.Monitor, startTime time.Time) *gin.Engine {
	h := handler.NewHealthHandler(monitor, startTime)
	router := gin.New()
	router.GET("/health", h.Health)
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthReportsHealthyWhenEngineReady(t *testing.T) {
	monitor := monitorInState(t, domain.StateReady)
	startTime := time.Now().Add(-2 * time.Second)
	router := healthRouter(monitor, startTime)

	w := getPath(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["tika_ready"])
	assert.Greater(t, body["uptime"].(float64), 1.0)
	assert.Greater(t, body["timestamp"].(float64), 0.0)
}

func TestHealthReportsStartingBeforeEngineIsUp(t *testing.T) {
	monitor := monitorInState(t, domain.StateStarting)
	router := healthRouter(monitor, time.Now())

	w := getPath(router, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "starting", body["status"])
	assert.Equal(t, false, body["tika_ready"])
}

func TestHealthReportsUnhealthyAfterStartupFailure(t *testing.T) {
	monitor := monitorInState(t, domain.StateFailed)
	router := healthRouter(monitor, time.Now())

	w := getPath(router, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, false, body["tika_ready"])
}
