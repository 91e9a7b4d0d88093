package task_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger/internal/task"
)

func TestBus_RunsEnqueuedJobs(t *testing.T) {
	bus := task.NewBus(4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx, 2)
	defer bus.Stop()

	var mu sync.Mutex
	var seen []string
	var wg sync.WaitGroup
	wg.Add(3)

	for i := 0; i < 3; i++ {
		name := "job"
		require.NoError(t, bus.Enqueue(ctx, task.Job{
			Name: name,
			Run: func(ctx context.Context) error {
				mu.Lock()
				seen = append(seen, name)
				mu.Unlock()
				wg.Done()
				return nil
			},
		}))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 3)
}

func TestBus_StopWaitsForInFlightJob(t *testing.T) {
	bus := task.NewBus(1, nil)
	bus.Start(context.Background(), 1)

	started := make(chan struct{})
	finished := false
	require.NoError(t, bus.Enqueue(context.Background(), task.Job{
		Name: "slow",
		Run: func(ctx context.Context) error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			finished = true
			return nil
		},
	}))

	<-started
	bus.Stop()
	assert.True(t, finished)
}
