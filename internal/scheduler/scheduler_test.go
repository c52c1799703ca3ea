package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockai/dashboard/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	fail     bool
	runs     atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.fail {
		return errors.New("backend unavailable")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@every 60s"}))
	assert.Error(t, s.AddJob(&countingJob{name: "a", schedule: "@every 60s"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "b", schedule: "not a schedule"}))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@every 60s"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
}

func TestRunJob_RecordsHistoryWithoutRetry(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "flaky", schedule: "@every 60s", fail: true}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))
	assert.Error(t, s.RunJob("missing"))

	require.Eventually(t, func() bool {
		h, _ := s.GetJobHistory("flaky")
		return len(h.Results) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(1), job.runs.Load(), "failed runs are not retried")

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Equal(t, "backend unavailable", stats.LastError)
	assert.Equal(t, "@every 60s", stats.Schedule)
}

func TestStartRunsOnSchedule(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "tick", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	stats := s.GetJobStats()["tick"]
	assert.NotNil(t, stats.NextRun)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	_, ok := h.Latest()
	assert.False(t, ok)
	assert.Equal(t, 0.0, h.SuccessRate())

	for i := 0; i < historyLimit+10; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Equal(t, 50, h.FailureCount())
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.001)
}
