package asynctask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAndAwait(t *testing.T) {
	task := Run(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})
	v, err := task.Await()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	task := Run(context.Background(), func(context.Context) (int, error) {
		return 0, boom
	})
	_, err := task.Await()
	require.ErrorIs(t, err, boom)
}

func TestReturnIsAlreadyResolved(t *testing.T) {
	task := Return("done")
	v, err := task.Await()
	require.NoError(t, err)
	require.Equal(t, "done", v)
}

func TestThenChains(t *testing.T) {
	base := Run(context.Background(), func(context.Context) (int, error) { return 10, nil })
	doubled := Then(context.Background(), base, func(v int) (int, error) { return v * 2, nil })
	v, err := doubled.Await()
	require.NoError(t, err)
	require.Equal(t, 20, v)
}

func TestThenShortCircuitsOnError(t *testing.T) {
	boom := errors.New("boom")
	base := Run(context.Background(), func(context.Context) (int, error) { return 0, boom })
	chained := Then(context.Background(), base, func(v int) (int, error) { return v + 1, nil })
	_, err := chained.Await()
	require.ErrorIs(t, err, boom)
}

func TestStreamNextDrainsProducer(t *testing.T) {
	s := New(context.Background(), 0, func(ctx context.Context, yield func(int) bool) error {
		for i := 0; i < 3; i++ {
			if !yield(i) {
				return nil
			}
		}
		return nil
	})

	var got []int
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []int{0, 1, 2}, got)
	require.NoError(t, s.Wait())
}

func TestStreamPushAndPeek(t *testing.T) {
	s := New(context.Background(), 1, func(ctx context.Context, yield func(int) bool) error {
		yield(1)
		yield(2)
		return nil
	})

	v, ok := s.Peek()
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = s.Next()
	require.True(t, ok)
	require.Equal(t, 1, v)

	s.Push(99)
	v, ok = s.Next()
	require.True(t, ok)
	require.Equal(t, 99, v)

	v, ok = s.Next()
	require.True(t, ok)
	require.Equal(t, 2, v)
}
