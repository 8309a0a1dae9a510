package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAndShutdown(t *testing.T) {
	bgTasks := New(slog.Default(), 3, 10)
	bgTasks.Run()
	var done atomic.Int32
	for i := 0; i < 5; i++ {
		bgTasks.Add(func() {
			done.Add(1)
		})
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.Equal(t, int32(5), done.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestWorkerPanicDoesNotBlockShutdown(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 10)
	bgTasks.Run()
	bgTasks.Add(func() {
		panic("boom")
	})
	assert.NoError(t, bgTasks.Shutdown(context.Background()))
}
