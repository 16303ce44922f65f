package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/lifecycle"
	"github.com/phrazzld/choreclock/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	result lifecycle.SweepResult
	err    error
	calls  int
}

func (s *stubSweeper) Sweep(context.Context) (lifecycle.SweepResult, error) {
	s.calls++
	return s.result, s.err
}

func TestResetSweepJob(t *testing.T) {
	t.Parallel()

	sweeper := &stubSweeper{result: lifecycle.SweepResult{Checked: 2, Reset: []string{"dishes"}}}
	job := NewResetSweepJob(sweeper, discardLogger())

	assert.Equal(t, "reset_sweep", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, sweeper.calls)

	sweeper.err = errors.New("store unavailable")
	err := job.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sweeper.err)
}

type stubSource struct {
	snap *domain.Snapshot
	err  error
}

func (s stubSource) Snapshot(context.Context) (*domain.Snapshot, error) {
	return s.snap, s.err
}

type stubDeliverer struct {
	permission notify.PermissionState
	asked      int
	delivered  []notify.Request
}

func (d *stubDeliverer) RequestPermission(context.Context) (notify.PermissionState, error) {
	d.asked++
	return d.permission, nil
}

func (d *stubDeliverer) Deliver(_ context.Context, req notify.Request) error {
	d.delivered = append(d.delivered, req)
	return nil
}

func overdueHousehold(now time.Time) *domain.Snapshot {
	due := now.AddDate(0, 0, -1)
	return &domain.Snapshot{
		Groups: []domain.TaskGroup{{ID: "kitchen", DueDatesEnabled: true}},
		Tasks: []domain.Task{{
			ID:         "oven",
			Title:      "Clean oven",
			GroupID:    "kitchen",
			Recurrence: domain.Recurrence{Type: domain.RecurrenceMonthly},
			CreatedAt:  now.AddDate(0, 0, -10),
			DueDate:    &due,
		}},
	}
}

func TestNotificationJobCarriesPermission(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	deliverer := &stubDeliverer{permission: notify.PermissionGranted}
	dispatcher := notify.NewDispatcher(deliverer, time.Hour, discardLogger())

	job := NewNotificationJob(
		stubSource{snap: overdueHousehold(now)},
		notify.NewScheduler(discardLogger()),
		dispatcher,
		clk,
		"",
		discardLogger(),
	)
	assert.Equal(t, notify.PermissionDefault, job.Permission())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, notify.PermissionGranted, job.Permission())
	assert.Equal(t, 1, job.LastResult().Delivered)
	require.Len(t, deliverer.delivered, 1)
	assert.Equal(t, notify.KindOverdue, deliverer.delivered[0].Kind)

	// The same overdue alert is suppressed on the next pass and permission is not asked again.
	clk.Advance(30 * time.Minute)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, deliverer.asked)
	assert.Equal(t, 1, job.LastResult().Suppressed)
	assert.Len(t, deliverer.delivered, 1)
}

func TestNotificationJobDenied(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)
	deliverer := &stubDeliverer{permission: notify.PermissionGranted}

	job := NewNotificationJob(
		stubSource{snap: overdueHousehold(now)},
		notify.NewScheduler(discardLogger()),
		notify.NewDispatcher(deliverer, time.Hour, discardLogger()),
		clock.NewFakeClock(now),
		notify.PermissionDenied,
		discardLogger(),
	)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, notify.PermissionDenied, job.Permission())
	assert.Equal(t, 1, job.LastResult().Dropped)
	assert.Zero(t, deliverer.asked)
	assert.Empty(t, deliverer.delivered)
}

func TestNotificationJobSnapshotError(t *testing.T) {
	t.Parallel()

	job := NewNotificationJob(
		stubSource{err: lifecycle.ErrNotLoaded},
		notify.NewScheduler(discardLogger()),
		notify.NewDispatcher(&stubDeliverer{}, time.Hour, discardLogger()),
		clock.NewFakeClock(time.Now()),
		notify.PermissionGranted,
		discardLogger(),
	)

	err := job.Run(context.Background())
	assert.ErrorIs(t, err, lifecycle.ErrNotLoaded)
}
