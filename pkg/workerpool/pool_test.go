package workerpool_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccproc/pkg/workerpool"
)

func TestRunTaskExecutesEverySubmittedClosure(t *testing.T) {
	p := workerpool.New(4)
	defer p.Stop()

	const tasks = 50
	var count int64
	done := make(chan struct{}, tasks)
	for i := 0; i < tasks; i++ {
		p.RunTask(func() {
			atomic.AddInt64(&count, 1)
			done <- struct{}{}
		})
	}
	for i := 0; i < tasks; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for task to run")
		}
	}
	assert.Equal(t, int64(tasks), atomic.LoadInt64(&count))
}

func TestNewWithNonPositiveWorkersFallsBackToDefault(t *testing.T) {
	p := workerpool.New(0)
	defer p.Stop()
	require.True(t, p.Active())
}

func TestStopMarksPoolInactive(t *testing.T) {
	p := workerpool.New(2)
	assert.True(t, p.Active())
	p.Stop()
	assert.False(t, p.Active())
}
