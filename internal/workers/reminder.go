// Package workers contains the job processors run by the worker binary.
package workers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/notify"
	"github.com/dayplanhq/dayplan/internal/planner"
	"github.com/dayplanhq/dayplan/internal/queue"
	"github.com/dayplanhq/dayplan/internal/store"
)

// ReminderDispatcher processes reminder delivery jobs: it rechecks the
// task against the remote store, sends the notification, and marks the
// task notified so it is not delivered twice.
type ReminderDispatcher struct {
	store  store.RemoteStore
	sender notify.Sender
	log    *zap.Logger
}

// NewReminderDispatcher creates a reminder dispatcher
func NewReminderDispatcher(st store.RemoteStore, sender notify.Sender, log *zap.Logger) *ReminderDispatcher {
	return &ReminderDispatcher{
		store:  st,
		sender: sender,
		log:    log,
	}
}

// ProcessReminderJob delivers one reminder. The task is re-read from the
// store first: a reminder cleared, completed, or already notified since
// the job was enqueued is silently dropped.
func (d *ReminderDispatcher) ProcessReminderJob(ctx context.Context, job *queue.Job) error {
	var tasks []models.Task
	if err := d.store.LoadCollection(ctx, job.UserID, models.CollectionTasks, &tasks); err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	var task *models.Task
	for i := range tasks {
		if tasks[i].ID == job.TaskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil || task.ReminderAt == nil || task.Notified || task.Completed {
		d.log.Debug("reminder_stale",
			zap.String("user_id", job.UserID.String()),
			zap.String("task_id", job.TaskID.String()),
		)
		return nil
	}

	n := notify.Notification{
		TaskID:   task.ID,
		Title:    task.Title,
		RemindAt: *task.ReminderAt,
	}
	if err := d.sender.Send(ctx, job.UserID, n); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	// The same collection may be rewritten by a live session's autosave;
	// whole-document replace makes that a lost notified flag at worst,
	// and the scanner's dedupe keeps it from becoming a duplicate send
	tasks = planner.MarkTaskNotified(tasks, job.TaskID)
	if err := d.store.SaveCollection(ctx, job.UserID, models.CollectionTasks, tasks); err != nil {
		return fmt.Errorf("failed to mark task notified: %w", err)
	}

	return nil
}

// ProcessJob processes a job based on its type
func (d *ReminderDispatcher) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.GetJob()

	switch job.Type {
	case queue.JobTypeReminder:
		if err := d.ProcessReminderJob(ctx, job); err != nil {
			return d.handleJobError(msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			d.log.Error("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError requeues failed jobs until retries are exhausted, then
// dead-letters them
func (d *ReminderDispatcher) handleJobError(msg *queue.Message, job *queue.Job, err error) error {
	if job.CanRetry() {
		job.IncrementRetry()
		d.log.Warn("reminder_job_retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			d.log.Error("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	d.log.Error("reminder_job_dead_lettered",
		zap.String("job_id", job.ID.String()),
		zap.Int("retries", job.RetryCount),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		d.log.Error("nack_failed", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
