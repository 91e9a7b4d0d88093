package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
	"shiftledger/internal/task"
)

type fakeClient struct{ store map[string]string }

func newFakeClient() *fakeClient { return &fakeClient{store: map[string]string{}} }

func (f *fakeClient) Get(_ context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}
func (f *fakeClient) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.store[key] = value
	return nil
}
func (f *fakeClient) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}
func (f *fakeClient) Scan(context.Context, string) ([]string, error) { return nil, nil }

func TestRunner_SecondCallWithSameArgsSkipsExecution(t *testing.T) {
	vc := cache.New(newFakeClient(), "shiftledger", 1, nil)
	r := task.NewRunner(vc, nil)

	calls := 0
	args := map[string]any{"employee_id": "e1", "year": 2026, "month": 8}

	var result string
	run := func(ctx context.Context) error {
		calls++
		result = "computed"
		return nil
	}

	err := r.Run(context.Background(), "recalc_payroll", args, task.DefaultOptions(), &result, run)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	var second string
	err = r.Run(context.Background(), "recalc_payroll", args, task.DefaultOptions(), &second, run)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call with identical args must not re-execute")
	assert.Equal(t, "computed", second)
}

func TestRunner_SkipOnDuplicateFalseReturnsError(t *testing.T) {
	vc := cache.New(newFakeClient(), "shiftledger", 1, nil)
	r := task.NewRunner(vc, nil)
	args := map[string]any{"a": 1}

	var dst string
	run := func(ctx context.Context) error { dst = "done"; return nil }
	require.NoError(t, r.Run(context.Background(), "job", args, task.DefaultOptions(), &dst, run))

	opts := task.DefaultOptions()
	opts.SkipOnDuplicate = false
	err := r.Run(context.Background(), "job", args, opts, &dst, run)
	assert.ErrorIs(t, err, domain.ErrDuplicateExecution)
}

func TestRunner_FailureIsNeverCached(t *testing.T) {
	vc := cache.New(newFakeClient(), "shiftledger", 1, nil)
	r := task.NewRunner(vc, nil)
	args := map[string]any{"a": 1}

	boom := errors.New("boom")
	calls := 0
	var dst string
	run := func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return boom
		}
		dst = "ok"
		return nil
	}

	err := r.Run(context.Background(), "job", args, task.DefaultOptions(), &dst, run)
	assert.ErrorIs(t, err, boom)

	err = r.Run(context.Background(), "job", args, task.DefaultOptions(), &dst, run)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a failed attempt must not suppress the retry")
	assert.Equal(t, "ok", dst)
}

func TestRunner_DateBasedKeySuppressesSecondCallSameDay(t *testing.T) {
	vc := cache.New(newFakeClient(), "shiftledger", 1, nil)
	r := task.NewRunner(vc, nil)
	args := map[string]any{"a": 1}

	calls := 0
	var dst string
	run := func(ctx context.Context) error { calls++; return nil }

	opts := task.DefaultOptions()
	opts.DateBased = true
	require.NoError(t, r.Run(context.Background(), "retention_sweep", args, opts, &dst, run))
	require.NoError(t, r.Run(context.Background(), "retention_sweep", args, opts, &dst, run))
	assert.Equal(t, 1, calls)
}
