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

func newDeleteUC(store timesheet.Store) *DeleteTimeSlip {
	return NewDeleteTimeSlip(store, access.NewPolicy(), audit.NewRecorder())
}

func TestDeleteTimeSlipNotFound(t *testing.T) {
	store := testutil.NewFakeStore()
	uc := newDeleteUC(store)

	if err := uc.Execute(context.Background(), 42, 7); !timesheet.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteTimeSlipRemovesRowAndWritesDeleteLog(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	task := store.AddTask("review")
	slip := store.AddSlip(models.TimeSlip{
		UserID:      7,
		ProjectID:   project.ID,
		TaskID:      &task.ID,
		Date:        day("2026-03-02"),
		Hours:       2,
		Minutes:     15,
		Description: "pairing",
	})

	uc := newDeleteUC(store)

	if err := uc.Execute(context.Background(), slip.ID, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := store.Slips[slip.ID]; ok {
		t.Fatalf("slip must be deleted")
	}

	logs := store.LogsFor(slip.ID)
	if len(logs) != 1 {
		t.Fatalf("expected exactly 1 audit row, got %d", len(logs))
	}
	entry := logs[0]

	if entry.UpdateType != models.UpdateTypeDelete {
		t.Fatalf("expected delete log, got %q", entry.UpdateType)
	}
	if entry.OldHours == nil || *entry.OldHours != 2 || entry.OldMinutes == nil || *entry.OldMinutes != 15 {
		t.Fatalf("delete log must carry the pre-delete snapshot: %+v", entry)
	}
	if entry.OldTaskID == nil || *entry.OldTaskID != task.ID {
		t.Fatalf("delete log must carry the previous task: %+v", entry)
	}
	if entry.NewHours != nil {
		t.Fatalf("delete log must carry no new snapshot")
	}
}

func TestDeleteTimeSlipLockedDateDenied(t *testing.T) {
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

	uc := newDeleteUC(store)

	err := uc.Execute(context.Background(), slip.ID, 7)
	if !errors.As(err, &timesheet.InsufficientAccessError{}) {
		t.Fatalf("expected InsufficientAccessError, got %v", err)
	}
	if _, ok := store.Slips[slip.ID]; !ok {
		t.Fatalf("denied delete must leave the slip in place")
	}
	if len(store.Logs) != 0 {
		t.Fatalf("denied delete must not leave an audit row")
	}
}

func TestDeleteTimeSlipDelegatedManagerBypassesLockDate(t *testing.T) {
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
	store.Delegate(8, project.ID)

	uc := newDeleteUC(store)

	if err := uc.Execute(context.Background(), slip.ID, 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.LogsFor(slip.ID)[0].UpdateUserID != 8 {
		t.Fatalf("audit row must name the acting manager")
	}
}
