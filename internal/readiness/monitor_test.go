package readiness_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/readiness"
	"tikagate/mocks"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func testConfig(attempts int) *config.TikaConfig {
	return &config.TikaConfig{
		ProbeInterval: time.Millisecond,
		ProbeAttempts: attempts,
	}
}

func TestMonitorStartsInStartingState(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	monitor := readiness.NewMonitor(engine, testConfig(3), testLogger())

	assert.Equal(t, domain.StateStarting, monitor.State())
	assert.False(t, monitor.Ready())
	engine.AssertNotCalled(t, "Probe", mock.Anything)
}

func TestMonitorBecomesReadyOnFirstProbe(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	engine.On("Probe", mock.Anything).Return(true).Once()

	monitor := readiness.NewMonitor(engine, testConfig(3), testLogger())
	monitor.Start(context.Background())

	assert.Equal(t, domain.StateReady, monitor.State())
	assert.True(t, monitor.Ready())
	engine.AssertExpectations(t)
}

func TestMonitorRetriesUntilReady(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	engine.On("Probe", mock.Anything).Return(false).Times(2)
	engine.On("Probe", mock.Anything).Return(true).Once()

	monitor := readiness.NewMonitor(engine, testConfig(5), testLogger())
	monitor.Start(context.Background())

	assert.Equal(t, domain.StateReady, monitor.State())
	engine.AssertNumberOfCalls(t, "Probe", 3)
}

func TestMonitorFailsAfterExhaustingAttempts(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	engine.On("Probe", mock.Anything).Return(false)

	monitor := readiness.NewMonitor(engine, testConfig(3), testLogger())
	monitor.Start(context.Background())

	assert.Equal(t, domain.StateFailed, monitor.State())
	assert.False(t, monitor.Ready())
	engine.AssertNumberOfCalls(t, "Probe", 3)
}

func TestMonitorStopsOnContextCancel(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	engine.On("Probe", mock.Anything).Return(false)

	ctx, cancel := context.WithCancel(context.Background())
	monitor := readiness.NewMonitor(engine, &config.TikaConfig{
		ProbeInterval: time.Hour,
		ProbeAttempts: 10,
	}, testLogger())

	done := make(chan struct{})
	go func() {
		monitor.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after context cancellation")
	}

	// Shutdown before readiness leaves the state untouched.
	assert.Equal(t, domain.StateStarting, monitor.State())
}

func TestMonitorNotifiesObserversOnce(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	engine.On("Probe", mock.Anything).Return(true).Once()

	var observed []domain.ServiceState
	monitor := readiness.NewMonitor(engine, testConfig(3), testLogger(), func(s domain.ServiceState) {
		observed = append(observed, s)
	})
	monitor.Start(context.Background())

	assert.Equal(t, []domain.ServiceState{domain.StateReady}, observed)
}

func TestMonitorStateLabels(t *testing.T) {
	engine := new(mocks.MockDocumentEngine)
	engine.On("Probe", mock.Anything).Return(false)

	monitor := readiness.NewMonitor(engine, testConfig(1), testLogger())
	assert.Equal(t, "starting", monitor.State().String())

	monitor.Start(context.Background())
	assert.Equal(t, "failed", monitor.State().String())
	assert.Equal(t, "unhealthy", monitor.State().HealthLabel())
}
