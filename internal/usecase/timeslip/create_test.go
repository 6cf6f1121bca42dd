package timeslip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avercast/timeslips-api/internal/audit"
	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/testutil"
	"github.com/avercast/timeslips-api/internal/usecase/access"
)

func quarterHours() int { return 15 }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newCreateUC(store *testutil.FakeStore) *CreateTimeSlips {
	return NewCreateTimeSlips(store, access.NewPolicy(), audit.NewRecorder(), quarterHours)
}

func TestCreateTimeSlipsRejectsOffPartitionMinutes(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	uc := newCreateUC(store)

	_, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		Hours:        1,
		Minutes:      10,
		Dates:        []time.Time{day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 7,
	})

	var ve timesheet.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Rule != "invalid_minutes" {
		t.Fatalf("expected rule invalid_minutes, got %q", ve.Rule)
	}
	if len(store.Slips) != 0 || len(store.Logs) != 0 {
		t.Fatalf("validation failure must not persist anything: %d slips, %d logs", len(store.Slips), len(store.Logs))
	}
}

func TestCreateTimeSlipsPartitionGranularities(t *testing.T) {
	cases := []struct {
		partition int
		minutes   int
		ok        bool
	}{
		{1, 7, true}, // partition 1 accepts every minute value
		{1, 59, true},
		{15, 45, true},
		{15, 20, false},
		{30, 0, true},
		{30, 30, true},
		{30, 15, false}, // a quarter hour is off the half-hour grid
	}

	for _, tc := range cases {
		store := testutil.NewFakeStore()
		project := store.AddProject("Apollo", nil)
		uc := NewCreateTimeSlips(store, access.NewPolicy(), audit.NewRecorder(), func() int { return tc.partition })

		_, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
			ProjectID:    project.ID,
			Hours:        1,
			Minutes:      tc.minutes,
			Dates:        []time.Time{day("2026-03-02")},
			OwnerUserID:  7,
			ActingUserID: 7,
		})

		if tc.ok && err != nil {
			t.Fatalf("partition %d, minutes %d: unexpected error %v", tc.partition, tc.minutes, err)
		}
		if !tc.ok {
			var ve timesheet.ValidationError
			if !errors.As(err, &ve) || ve.Rule != "invalid_minutes" {
				t.Fatalf("partition %d, minutes %d: expected invalid_minutes, got %v", tc.partition, tc.minutes, err)
			}
		}
	}
}

func TestCreateTimeSlipsRejectsEmptyDates(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	uc := newCreateUC(store)

	_, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		Hours:        1,
		Minutes:      0,
		OwnerUserID:  7,
		ActingUserID: 7,
	})

	var ve timesheet.ValidationError
	if !errors.As(err, &ve) || ve.Rule != "missing_dates" {
		t.Fatalf("expected missing_dates validation error, got %v", err)
	}
}

func TestCreateTimeSlipsOnePerDateWithCreateLogs(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	uc := newCreateUC(store)

	dates := []time.Time{day("2026-03-02"), day("2026-03-03"), day("2026-03-04")}

	created, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		Hours:        2,
		Minutes:      30,
		Dates:        dates,
		Description:  "sprint work",
		OwnerUserID:  7,
		ActingUserID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(created) != 3 {
		t.Fatalf("expected 3 slips, got %d", len(created))
	}
	if len(store.Logs) != 3 {
		t.Fatalf("expected 3 audit rows, got %d", len(store.Logs))
	}

	for i, slip := range created {
		if slip.Version != 1 {
			t.Fatalf("new slip must start at version 1, got %d", slip.Version)
		}
		if !slip.Date.Equal(dates[i]) {
			t.Fatalf("slip %d: expected date %v, got %v", i, dates[i], slip.Date)
		}

		logs := store.LogsFor(slip.ID)
		if len(logs) != 1 {
			t.Fatalf("slip %d: expected 1 audit row, got %d", i, len(logs))
		}
		entry := logs[0]
		if entry.UpdateType != models.UpdateTypeCreate {
			t.Fatalf("expected create log, got %q", entry.UpdateType)
		}
		if entry.OldHours != nil {
			t.Fatalf("create log must carry no old snapshot")
		}
		if entry.NewHours == nil || *entry.NewHours != 2 || entry.NewMinutes == nil || *entry.NewMinutes != 30 {
			t.Fatalf("create log new snapshot mismatch: %+v", entry)
		}
		if entry.UpdateUserID != 7 {
			t.Fatalf("expected update user 7, got %d", entry.UpdateUserID)
		}
	}
}

func TestCreateTimeSlipsEmptyAllowListPermitsAnyTask(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	task := store.AddTask("review")
	uc := newCreateUC(store)

	created, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		TaskID:       &task.ID,
		Hours:        1,
		Minutes:      0,
		Dates:        []time.Time{day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created[0].TaskID == nil || *created[0].TaskID != task.ID {
		t.Fatalf("expected task %d on slip", task.ID)
	}
}

func TestCreateTimeSlipsRejectsTaskOutsideAllowList(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	allowed := store.AddTask("review")
	other := store.AddTask("design")
	store.ProjectTasks[project.ID] = []uint{allowed.ID}
	uc := newCreateUC(store)

	_, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		TaskID:       &other.ID,
		Hours:        1,
		Minutes:      0,
		Dates:        []time.Time{day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 7,
	})

	var ve timesheet.ValidationError
	if !errors.As(err, &ve) || ve.Rule != "task_not_allowed" {
		t.Fatalf("expected task_not_allowed, got %v", err)
	}
	if len(store.Slips) != 0 {
		t.Fatalf("rejected create must not persist slips")
	}
}

func TestCreateTimeSlipsRejectsUnknownTask(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	uc := newCreateUC(store)

	missing := uint(999)
	_, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		TaskID:       &missing,
		Hours:        1,
		Minutes:      0,
		Dates:        []time.Time{day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 7,
	})

	var ve timesheet.ValidationError
	if !errors.As(err, &ve) || ve.Rule != "unknown_task" {
		t.Fatalf("expected unknown_task, got %v", err)
	}
}

func TestCreateTimeSlipsLockedDateDeniesWholeBatch(t *testing.T) {
	store := testutil.NewFakeStore()
	lock := day("2026-03-03")
	project := store.AddProject("Apollo", &lock)
	uc := newCreateUC(store)

	// 2026-03-04 would be fine alone; 2026-03-02 is locked, so the
	// whole batch must leave nothing behind.
	_, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		Hours:        1,
		Minutes:      0,
		Dates:        []time.Time{day("2026-03-04"), day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 7,
	})

	if !errors.As(err, &timesheet.InsufficientAccessError{}) {
		t.Fatalf("expected InsufficientAccessError, got %v", err)
	}
	if len(store.Slips) != 0 || len(store.Logs) != 0 {
		t.Fatalf("denied batch must not persist anything: %d slips, %d logs", len(store.Slips), len(store.Logs))
	}
}

func TestCreateTimeSlipsForAnotherUserNeedsPrivilege(t *testing.T) {
	store := testutil.NewFakeStore()
	project := store.AddProject("Apollo", nil)
	uc := newCreateUC(store)

	in := CreateTimeSlipsInput{
		ProjectID:    project.ID,
		Hours:        1,
		Minutes:      0,
		Dates:        []time.Time{day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 8,
	}

	_, err := uc.Execute(context.Background(), in)
	if !errors.As(err, &timesheet.InsufficientAccessError{}) {
		t.Fatalf("expected InsufficientAccessError, got %v", err)
	}

	store.Delegate(8, project.ID)

	created, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created[0].UserID != 7 {
		t.Fatalf("slip must belong to the named owner, got user %d", created[0].UserID)
	}
}

func TestCreateTimeSlipsAdminBypassesLockDate(t *testing.T) {
	store := testutil.NewFakeStore()
	lock := day("2026-03-03")
	project := store.AddProject("Apollo", &lock)
	store.GrantRight(9, models.RightAdmin)
	uc := newCreateUC(store)

	created, err := uc.Execute(context.Background(), CreateTimeSlipsInput{
		ProjectID:    project.ID,
		Hours:        1,
		Minutes:      0,
		Dates:        []time.Time{day("2026-03-02")},
		OwnerUserID:  7,
		ActingUserID: 9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 slip, got %d", len(created))
	}
	if store.LogsFor(created[0].ID)[0].UpdateUserID != 9 {
		t.Fatalf("audit row must name the acting admin, not the owner")
	}
}
