package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/domain/recurrence"
)

const (
	dateLayout = "2006-01-02"
	whenLayout = "Mon 2 Jan 15:04"
)

// Scheduler evaluates notification thresholds for every task in a snapshot.
type Scheduler struct {
	logger *slog.Logger
}

// NewScheduler creates a scheduler that logs skipped tasks at debug level.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger.With("component", "notification_scheduler")}
}

// Evaluate returns the notification requests due at now. It never fails:
// tasks whose pattern cannot be evaluated are logged and skipped.
func (s *Scheduler) Evaluate(snap *domain.Snapshot, now time.Time) []Request {
	if snap == nil {
		return nil
	}

	var out []Request
	for i := range snap.Tasks {
		task := &snap.Tasks[i]
		out = append(out, s.EvaluateTask(task, snap.Group(task.GroupID), snap.Profile(task.ProfileID), now)...)
	}
	return out
}

// EvaluateTask returns the requests for one task. group and profile may be nil.
func (s *Scheduler) EvaluateTask(
	task *domain.Task,
	group *domain.TaskGroup,
	profile *domain.UserProfile,
	now time.Time,
) []Request {
	if task.IsCompleted {
		return nil
	}

	if group != nil && group.DueDatesEnabled && task.DueDate != nil {
		return dueDateRequests(task, now)
	}

	groupDefault := group != nil && group.NotificationsDefault
	if !domain.ResolveNotifications(task.Notifications, groupDefault) {
		return nil
	}

	req, ok := s.resetRequest(task, profile, now)
	if !ok {
		return nil
	}
	return []Request{req}
}

func dueDateRequests(task *domain.Task, now time.Time) []Request {
	due := task.DueDate.In(now.Location())
	var out []Request

	if total := due.Sub(task.CreatedAt); total > 0 {
		progress := float64(now.Sub(task.CreatedAt)) / float64(total)
		if DueSoonWindow.Contains(progress) {
			out = append(out, Request{
				TaskID:    task.ID,
				Kind:      KindDueSoon,
				Title:     "Due soon: " + task.Title,
				Body:      fmt.Sprintf("%s is due %s.", task.Title, due.Format(whenLayout)),
				DedupeTag: "due-25:" + task.ID,
			})
		}
	}

	if recurrence.SameDate(now, due) {
		out = append(out, Request{
			TaskID:    task.ID,
			Kind:      KindDueToday,
			Title:     "Due today: " + task.Title,
			Body:      fmt.Sprintf("%s is due today at %s.", task.Title, due.Format("15:04")),
			DedupeTag: fmt.Sprintf("due-today:%s:%s", task.ID, due.Format(dateLayout)),
		})
	}

	if now.After(due) {
		out = append(out, Request{
			TaskID:    task.ID,
			Kind:      KindOverdue,
			Title:     "Overdue: " + task.Title,
			Body:      fmt.Sprintf("%s was due %s.", task.Title, due.Format(whenLayout)),
			DedupeTag: "overdue:" + task.ID,
		})
	}

	return out
}

func (s *Scheduler) resetRequest(task *domain.Task, profile *domain.UserProfile, now time.Time) (Request, bool) {
	log := s.logger.With("task_id", task.ID)

	pattern, err := recurrence.FromDomain(task.Recurrence)
	if err != nil {
		log.Debug("skipping task with invalid recurrence", "error", err)
		return Request{}, false
	}

	anchor := task.CreatedAt
	if task.RecurrenceFrom != nil {
		if _, meals := pattern.(recurrence.MealTimes); !meals {
			if now.Before(*task.RecurrenceFrom) {
				return Request{}, false
			}
			anchor = *task.RecurrenceFrom
		}
	}

	var mealTimes map[domain.Meal]string
	if profile != nil {
		mealTimes = profile.MealTimes
	}

	period, err := recurrence.CurrentPeriod(pattern, anchor, now, mealTimes)
	if err != nil {
		log.Debug("skipping task without a current period", "error", err)
		return Request{}, false
	}

	progress, ok := period.Progress(now)
	if !ok {
		log.Debug("skipping task with an empty period")
		return Request{}, false
	}
	if !ResetWindow.Contains(progress) {
		return Request{}, false
	}

	return Request{
		TaskID:    task.ID,
		Kind:      KindResetImminent,
		Title:     "Resets soon: " + task.Title,
		Body:      fmt.Sprintf("%s resets at %s.", task.Title, period.End.Format(whenLayout)),
		DedupeTag: fmt.Sprintf("reset:%s:%s", task.ID, period.End.Format(time.RFC3339)),
	}, true
}
