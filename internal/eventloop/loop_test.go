package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(16)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l
}

func TestCallRunsTasksInOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, l.Post(func() { got = append(got, i) }))
	}
	var snapshot []int
	require.NoError(t, l.Call(context.Background(), func() { snapshot = append(snapshot, got...) }))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, snapshot)
}

func TestCallSerializesConcurrentCallers(t *testing.T) {
	l := startLoop(t)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Call(context.Background(), func() { counter++ })
		}()
	}
	wg.Wait()

	var final int
	require.NoError(t, l.Call(context.Background(), func() { final = counter }))
	assert.Equal(t, 50, final)
}

func TestCallReportsPanic(t *testing.T) {
	l := startLoop(t)

	err := l.Call(context.Background(), func() { panic("boom") })
	assert.ErrorContains(t, err, "boom")

	// 循环在 panic 之后继续工作
	assert.NoError(t, l.Call(context.Background(), func() {}))
}

func TestCallHonoursContext(t *testing.T) {
	l := startLoop(t)
	block := make(chan struct{})
	require.NoError(t, l.Post(func() { <-block }))
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Call(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClosedLoopRejectsTasks(t *testing.T) {
	l := New(1)
	l.Close()
	assert.ErrorIs(t, l.Post(func() {}), ErrClosed)
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrClosed)
}
