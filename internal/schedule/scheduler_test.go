package schedule

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs  atomic.Int32
	inner func()
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.inner != nil {
		j.inner()
	}
	return nil
}

func TestCronSchedulerAddAndRunNow(t *testing.T) {
	s := NewCronScheduler()
	job := &countingJob{}
	require.NoError(t, s.AddJob(job, "*/5 * * * *"))
	require.NoError(t, s.AddJob(job, "0 * * * *"))
	require.Len(t, s.cron.Entries(), 1)
	require.Error(t, s.AddJob(job, "every tuesday"))

	s.Start(context.Background())
	defer s.Stop()
	s.RunNow(job)
	require.EqualValues(t, 1, job.runs.Load())
}

func TestCronSchedulerRunNowSkipsOverlap(t *testing.T) {
	s := NewCronScheduler()
	job := &countingJob{}
	job.inner = func() {
		if job.runs.Load() == 1 {
			s.RunNow(job)
		}
	}
	require.NoError(t, s.AddJob(job, "0 0 1 1 *"))
	s.RunNow(job)
	require.EqualValues(t, 1, job.runs.Load())
}
