package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewScheduler([]Job{{Name: "flush", Schedule: "every now and then", Run: func() {}}}, testLogger())
	assert.ErrorContains(t, err, "failed to schedule flush job")
}

func TestScheduler_RunsJobs(t *testing.T) {
	var runs atomic.Int32
	s, err := NewScheduler([]Job{{
		Name:     "tick",
		Schedule: "@every 1s",
		Run:      func() { runs.Add(1) },
	}}, testLogger())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
