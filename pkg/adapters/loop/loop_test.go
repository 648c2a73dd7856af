package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/motion/pkg/adapters/loop"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *loop.Loop {
	t.Helper()
	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = l.Run(ctx) }()
	return l
}

func TestDo_RunsInOrder(t *testing.T) {
	l := startLoop(t)
	ctx := context.Background()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		l.Dispatch(func() { order = append(order, i) })
	}
	err := l.Do(ctx, func() error {
		order = append(order, 5)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)
}

func TestDo_ReturnsErrors(t *testing.T) {
	l := startLoop(t)
	sentinel := errors.New("boom")
	assert.ErrorIs(t, l.Do(context.Background(), func() error { return sentinel }), sentinel)
}

func TestDo_RecoversPanics(t *testing.T) {
	l := startLoop(t)
	err := l.Do(context.Background(), func() error {
		panic(domain.MissingValue("timing"))
	})
	assert.ErrorIs(t, err, domain.ErrMissingValue)

	// The loop keeps running.
	assert.NoError(t, l.Do(context.Background(), func() error { return nil }))
}

func TestDo_AfterStop(t *testing.T) {
	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
	defer callCancel()
	assert.ErrorIs(t, l.Do(callCtx, func() error { return nil }), loop.ErrStopped)
}
