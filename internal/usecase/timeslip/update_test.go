package timeslip

import (
	"context"
	"errors"
	"testing"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/testutil"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

func newUpdateUC(store timesheet.Store) *UpdateTimeSlip {
	return NewUpdateTimeSlip(store, access.NewPolicy(), audit.NewRecorder(), quarterHours)
}

func TestUpdateTimeSlipNotFound(t *testing.T) {
	store := testutil.NewFakeStore()
	uc := newUpdateUC(store)

	_, err := uc.Execute(context.Background(), UpdateTimeSlipInput{
		TimeSlipID:   42,
		ProjectID:    1,
		Hours:        1,
		Minutes:      0,
		ActingUserID: 7,
	})

	if !timesheet.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateTimeSlipWritesTrueBeforeAfterSnapshot(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	taskA := store.AddTask("review")
	taskB := store.AddTask("design")

	slip := store.AddSlip(models.TimeSlip{
		UserID:    7,
		ProjectID: project.ID,
		TaskID:    &taskA.ID,
		Date:      day("2026-03-02"),
		Hours:     1,
		Minutes:   15,
	})

	uc := newUpdateUC(store)

	updated, err := uc.Execute(context.Background(), UpdateTimeSlipInput{
		TimeSlipID:   slip.ID,
		ProjectID:    project.ID,
		TaskID:       &taskB.ID,
		Hours:        3,
		Minutes:      45,
		Description:  "reworked",
		ActingUserID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", updated.Version)
	}

	logs := store.LogsFor(slip.ID)
	if len(logs) != 1 {
		t.Fatalf("expected exactly 1 audit row, got %d", len(logs))
	}
	entry := logs[0]

	if entry.UpdateType != models.UpdateTypeUpdate {
		t.Fatalf("expected update log, got %q", entry.UpdateType)
	}
	if entry.OldHours == nil || *entry.OldHours != 1 || entry.OldMinutes == nil || *entry.OldMinutes != 15 {
		t.Fatalf("old snapshot must hold pre-mutation clock: %+v", entry)
	}
	if entry.NewHours == nil || *entry.NewHours != 3 || entry.NewMinutes == nil || *entry.NewMinutes != 45 {
		t.Fatalf("new snapshot must hold post-mutation clock: %+v", entry)
	}
	if entry.OldTaskID == nil || *entry.OldTaskID != taskA.ID {
		t.Fatalf("old snapshot must hold the previous task: %+v", entry)
	}
	if entry.NewTaskID == nil || *entry.NewTaskID != taskB.ID {
		t.Fatalf("new snapshot must hold the new task: %+v", entry)
	}
}

func TestUpdateTimeSlipRejectsOffPartitionMinutes(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	slip := store.AddSlip(models.TimeSlip{
		UserID:    7,
		ProjectID: project.ID,
		Date:      day("2026-03-02"),
		Hours:     1,
		Minutes:   0,
	})
	uc := newUpdateUC(store)

	_, err := uc.Execute(context.Background(), UpdateTimeSlipInput{
		TimeSlipID:   slip.ID,
		ProjectID:    project.ID,
		Hours:        1,
		Minutes:      7,
		ActingUserID: 7,
	})

	var ve timesheet.ValidationError
	if !errors.As(err, &ve) || ve.Rule != "invalid_minutes" {
		t.Fatalf("expected invalid_minutes, got %v", err)
	}
	if got := store.Slips[slip.ID]; got.Minutes != 0 || got.Version != 1 {
		t.Fatalf("rejected update must leave the slip untouched: %+v", got)
	}
}

func TestUpdateTimeSlipLockedDateDenied(t *testing.T) {
	store := testutil.NewFakeStore()
	lock := day("2026-03-10")
	project := store.AddProject("Apollo", &lock)
	slip := store.AddSlip(models.TimeSlip{
		UserID:    7,
		ProjectID: project.ID,
		Date:      day("2026-03-02"),
		Hours:     1,
		Minutes:   0,
	})
	uc := newUpdateUC(store)

	_, err := uc.Execute(context.Background(), UpdateTimeSlipInput{
		TimeSlipID:   slip.ID,
		ProjectID:    project.ID,
		Hours:        2,
		Minutes:      0,
		ActingUserID: 7,
	})

	if !errors.As(err, &timesheet.InsufficientAccessError{}) {
		t.Fatalf("expected InsufficientAccessError, got %v", err)
	}
	if store.Slips[slip.ID].Hours != 1 {
		t.Fatalf("denied update must leave the slip untouched")
	}
}

// staleReadStore serves reads one version behind the stored row, the
// shape a transaction sees when another writer commits in between.
type staleReadStore struct {
	*testutil.FakeStore
}

func (s staleReadStore) Atomically(ctx context.Context, fn func(timesheet.Store) error) error {
	return s.FakeStore.Atomically(ctx, func(inner timesheet.Store) error {
		return fn(staleReadStore{inner.(*testutil.FakeStore)})
	})
}

func (s staleReadStore) GetTimeSlip(ctx context.Context, id uint) (*models.TimeSlip, error) {
	slip, err := s.FakeStore.GetTimeSlip(ctx, id)
	if err != nil {
		return nil, err
	}
	slip.Version--
	return slip, nil
}

func TestUpdateTimeSlipConcurrentWriteConflicts(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	slip := store.AddSlip(models.TimeSlip{
		UserID:    7,
		ProjectID: project.ID,
		Date:      day("2026-03-02"),
		Hours:     1,
		Minutes:   0,
		Version:   2,
	})

	uc := newUpdateUC(staleReadStore{store})

	_, err := uc.Execute(context.Background(), UpdateTimeSlipInput{
		TimeSlipID:   slip.ID,
		ProjectID:    project.ID,
		Hours:        4,
		Minutes:      0,
		ActingUserID: 7,
	})

	var conflict timesheet.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if store.Slips[slip.ID].Hours != 1 {
		t.Fatalf("conflicting update must roll back")
	}
	if len(store.Logs) != 0 {
		t.Fatalf("conflicting update must not leave an audit row")
	}
}
