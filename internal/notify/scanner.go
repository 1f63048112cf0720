package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/queue"
	"github.com/dayplanhq/dayplan/internal/session"
)

// DefaultScanInterval is how often the scanner sweeps live sessions
const DefaultScanInterval = time.Minute

// Scanner sweeps live sessions for due task reminders and enqueues a
// delivery job for each. The worker marks tasks notified after delivery;
// until that write lands, a seen-set keeps the scanner from enqueueing
// the same reminder every tick.
type Scanner struct {
	sessions *session.Manager
	jobs     queue.JobQueue
	interval time.Duration
	log      *zap.Logger

	mu   sync.Mutex
	seen map[string]time.Time // "userID/taskID" -> reminder time already enqueued
}

// NewScanner creates a reminder scanner. interval of zero falls back to
// DefaultScanInterval.
func NewScanner(sessions *session.Manager, jobs queue.JobQueue, interval time.Duration, log *zap.Logger) *Scanner {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &Scanner{
		sessions: sessions,
		jobs:     jobs,
		interval: interval,
		log:      log,
		seen:     make(map[string]time.Time),
	}
}

// Run sweeps on a ticker until ctx is cancelled
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over all live sessions
func (s *Scanner) Sweep(ctx context.Context) {
	now := time.Now()
	enqueued := 0

	s.sessions.Each(func(sess *session.Session) {
		if !sess.Ready() {
			return
		}
		_, collections := sess.Snapshot()
		userID := sess.UserID()

		for _, task := range collections.Tasks {
			if task.ReminderAt == nil || task.Notified || task.Completed {
				continue
			}
			if task.ReminderAt.After(now) {
				continue
			}
			key := userID.String() + "/" + task.ID.String()
			if s.alreadyEnqueued(key, *task.ReminderAt) {
				continue
			}

			job := queue.NewReminderJob(userID, task.ID, task.Title, *task.ReminderAt)
			if err := s.jobs.Enqueue(ctx, job); err != nil {
				s.log.Error("reminder_enqueue_failed",
					zap.String("user_id", userID.String()),
					zap.String("task_id", task.ID.String()),
					zap.Error(err),
				)
				s.forget(key)
				continue
			}
			enqueued++
		}
	})

	s.expireSeen(now)

	if enqueued > 0 {
		s.log.Debug("reminder_sweep_done", zap.Int("enqueued", enqueued))
	}
}

// alreadyEnqueued records the key and reports whether this exact reminder
// was already enqueued. A changed reminder time counts as a new reminder.
func (s *Scanner) alreadyEnqueued(key string, remindAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.seen[key]; ok && prev.Equal(remindAt) {
		return true
	}
	s.seen[key] = remindAt
	return false
}

func (s *Scanner) forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
}

// expireSeen drops entries whose reminder time is more than a day old;
// by then the worker has either delivered or dead-lettered the job.
func (s *Scanner) expireSeen(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, remindAt := range s.seen {
		if now.Sub(remindAt) > 24*time.Hour {
			delete(s.seen, key)
		}
	}
}
