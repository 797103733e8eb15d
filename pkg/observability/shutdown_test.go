package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownManager_RunsHooks(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sm := NewShutdownManager(logger, nil, time.Second)

	var calls atomic.Int32
	for _, name := range []string{"tracer", "meter", "watcher"} {
		sm.Register(name, func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	assert.NoError(t, sm.Shutdown())
	assert.Equal(t, int32(3), calls.Load())

	assert.NoError(t, sm.Shutdown())
	assert.Equal(t, int32(3), calls.Load(), "hooks run once")
}

func TestShutdownManager_JoinsErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sm := NewShutdownManager(logger, nil, time.Second)

	boom := errors.New("boom")
	sm.Register("exporter", func(ctx context.Context) error { return boom })
	sm.Register("noop", func(ctx context.Context) error { return nil })

	err := sm.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "exporter: boom")

	var failed *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			failed = e
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "exporter", failed.Data["hook"])
}

func TestShutdownManager_Timeout(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sm := NewShutdownManager(logger, nil, 50*time.Millisecond)

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	sm.Register("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	assert.ErrorIs(t, sm.Shutdown(), ErrShutdownTimeout)
}

func TestShutdownManager_StopsServer(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ts := httptest.NewUnstartedServer(http.NotFoundHandler())
	ts.Start()
	defer ts.Close()

	sm := NewShutdownManager(logger, ts.Config, time.Second)
	require.NoError(t, sm.Shutdown())

	_, err := http.Get(ts.URL)
	assert.Error(t, err, "server no longer accepts connections")
}

func TestShutdownManager_WaitForShutdown(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sm := NewShutdownManager(logger, nil, 0)
	assert.Equal(t, DefaultShutdownTimeout, sm.timeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, sm.WaitForShutdown(ctx))
}
