package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryTask(t *testing.T) {
	logger := zerolog.Nop()
	p := NewPool(3, &logger)
	p.Start(context.Background())

	var done atomic.Int32
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
			done.Add(1)
			if i%10 == 0 {
				return errors.New("boom")
			}
			return nil
		}))
	}

	failed := p.Wait()
	assert.EqualValues(t, 50, done.Load())
	assert.EqualValues(t, 5, failed)
	assert.ErrorIs(t, p.Submit(context.Background(), func(context.Context) error { return nil }), ErrPoolClosed)
}

func TestPool_SkipsQueuedTasksAfterCancel(t *testing.T) {
	logger := zerolog.Nop()
	p := NewPool(1, &logger)
	ctx, cancel := context.WithCancel(context.Background())

	var ran atomic.Int32
	// queue before the workers start so cancellation wins
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(ctx, func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	cancel()
	p.Start(ctx)
	p.Wait()

	assert.Zero(t, ran.Load())
	assert.Error(t, p.Submit(context.Background(), nil))
}
