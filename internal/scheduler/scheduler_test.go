package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := New(0)
	err := s.Schedule("pass", "every now and then", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "failed to schedule job pass")
}

func TestScheduleNext(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Schedule("pass", "@hourly", func(context.Context) error { return nil }))

	s.Start()
	defer s.Stop()

	next := s.Next()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now()))
	assert.WithinDuration(t, time.Now(), next, time.Hour+time.Minute)
}

func TestRunNow(t *testing.T) {
	s := New(time.Minute)

	var hadDeadline bool
	err := s.RunNow("pass", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, hadDeadline)

	boom := errors.New("boom")
	assert.ErrorIs(t, s.RunNow("pass", func(context.Context) error { return boom }), boom)
}
