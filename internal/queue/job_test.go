package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewReminderJob(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	remindAt := time.Now().Add(2 * time.Hour)

	job := NewReminderJob(userID, taskID, "Water the plants", remindAt)

	if job.ID == uuid.Nil {
		t.Error("expected job ID to be set")
	}
	if job.Type != JobTypeReminder {
		t.Errorf("type = %s, want %s", job.Type, JobTypeReminder)
	}
	if job.UserID != userID {
		t.Errorf("user ID = %s, want %s", job.UserID, userID)
	}
	if job.TaskID != taskID {
		t.Errorf("task ID = %s, want %s", job.TaskID, taskID)
	}
	if job.Title() != "Water the plants" {
		t.Errorf("title = %q", job.Title())
	}
	if job.NotBefore == nil || !job.NotBefore.Equal(remindAt) {
		t.Errorf("NotBefore = %v, want %v", job.NotBefore, remindAt)
	}
	if job.NotAfter == nil || !job.NotAfter.Equal(remindAt.Add(24*time.Hour)) {
		t.Errorf("NotAfter = %v", job.NotAfter)
	}
	if job.MaxRetries != 3 {
		t.Errorf("max retries = %d, want 3", job.MaxRetries)
	}
}

func TestJobShouldProcess(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no time constraints",
			job:  &Job{ID: uuid.New(), Type: JobTypeReminder},
			want: true,
		},
		{
			name: "not before in past",
			job:  &Job{ID: uuid.New(), NotBefore: timePtr(now.Add(-time.Hour))},
			want: true,
		},
		{
			name: "not before in future",
			job:  &Job{ID: uuid.New(), NotBefore: timePtr(now.Add(time.Hour))},
			want: false,
		},
		{
			name: "not after in past",
			job:  &Job{ID: uuid.New(), NotAfter: timePtr(now.Add(-time.Hour))},
			want: false,
		},
		{
			name: "inside window",
			job: &Job{
				ID:        uuid.New(),
				NotBefore: timePtr(now.Add(-time.Minute)),
				NotAfter:  timePtr(now.Add(time.Hour)),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobIsExpired(t *testing.T) {
	t.Parallel()

	if (&Job{}).IsExpired() {
		t.Error("job with no NotAfter should never expire")
	}
	past := time.Now().Add(-time.Minute)
	if !(&Job{NotAfter: &past}).IsExpired() {
		t.Error("job past its NotAfter should be expired")
	}
	future := time.Now().Add(time.Minute)
	if (&Job{NotAfter: &future}).IsExpired() {
		t.Error("job before its NotAfter should not be expired")
	}
}

func TestJobRetry(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeReminder, uuid.New(), uuid.New())
	for i := 0; i < job.MaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("CanRetry() = false at retry %d", i)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("CanRetry() = true after exhausting retries")
	}
	if job.RetryCount != job.MaxRetries {
		t.Errorf("retry count = %d, want %d", job.RetryCount, job.MaxRetries)
	}
}
