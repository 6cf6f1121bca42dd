package timeslip

import (
	"context"
	"errors"
	"testing"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
	"github.com/avercast/timeslips-api/internal/testutil"
)

func seedQueryFixture(t *testing.T) (*testutil.FakeStore, *models.Project, *models.Task) {
	t.Helper()

	store := testutil.NewFakeStore()
	apollo := store.AddProject("Apollo", nil)
	hermes := store.AddProject("Hermes", nil)
	task := store.AddTask("review")

	store.AddSlip(models.TimeSlip{
		UserID: 7, ProjectID: apollo.ID, TaskID: &task.ID,
		Date: day("2026-03-02"), Hours: 1, Minutes: 0,
	})
	store.AddSlip(models.TimeSlip{
		UserID: 7, ProjectID: apollo.ID,
		Date: day("2026-03-05"), Hours: 2, Minutes: 0,
	})
	store.AddSlip(models.TimeSlip{
		UserID: 8, ProjectID: hermes.ID, TaskID: &task.ID,
		Date: day("2026-03-02"), Hours: 3, Minutes: 0,
	})
	return store, apollo, task
}

func TestQueryTimeSlipsCombinesDimensionsWithAnd(t *testing.T) {
	store, apollo, _ := seedQueryFixture(t)
	store.GrantRight(1, models.RightAdmin)
	uc := NewQueryTimeSlips(store)

	from := day("2026-03-01")
	to := day("2026-03-03")

	got, err := uc.Execute(context.Background(), timesheet.Filter{
		ProjectIDs: []uint{apollo.ID},
		From:       &from,
		To:         &to,
	}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 slip, got %d", len(got))
	}
	if got[0].ProjectID != apollo.ID || !got[0].Date.Equal(day("2026-03-02")) {
		t.Fatalf("wrong slip matched: %+v", got[0])
	}
}

func TestQueryTimeSlipsNoTaskSentinel(t *testing.T) {
	store, _, _ := seedQueryFixture(t)
	store.GrantRight(1, models.RightAdmin)
	uc := NewQueryTimeSlips(store)

	got, err := uc.Execute(context.Background(), timesheet.Filter{NoTask: true}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 taskless slip, got %d", len(got))
	}
	if got[0].TaskID != nil {
		t.Fatalf("matched slip unexpectedly carries a task")
	}
}

func TestQueryTimeSlipsNoTaskExtendsTaskSet(t *testing.T) {
	store, _, task := seedQueryFixture(t)
	store.GrantRight(1, models.RightAdmin)
	uc := NewQueryTimeSlips(store)

	got, err := uc.Execute(context.Background(), timesheet.Filter{
		TaskIDs: []uint{task.ID},
		NoTask:  true,
	}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("task-or-none filter should match all 3 slips, got %d", len(got))
	}
}

func TestQueryTimeSlipsNonAdminClampedToOwnEntries(t *testing.T) {
	store, _, _ := seedQueryFixture(t)
	uc := NewQueryTimeSlips(store)

	got, err := uc.Execute(context.Background(), timesheet.Filter{}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected caller's 2 slips, got %d", len(got))
	}
	for _, s := range got {
		if s.UserID != 7 {
			t.Fatalf("non-admin query leaked user %d's slip", s.UserID)
		}
	}
}

func TestQueryTimeSlipsNonAdminCannotNameOthers(t *testing.T) {
	store, _, _ := seedQueryFixture(t)
	uc := NewQueryTimeSlips(store)

	_, err := uc.Execute(context.Background(), timesheet.Filter{UserIDs: []uint{7, 8}}, 7)
	if !errors.As(err, &timesheet.InsufficientAccessError{}) {
		t.Fatalf("expected InsufficientAccessError, got %v", err)
	}
}

func TestQueryTimeSlipsAdminSeesEveryone(t *testing.T) {
	store, _, _ := seedQueryFixture(t)
	store.GrantRight(1, models.RightAdmin)
	uc := NewQueryTimeSlips(store)

	got, err := uc.Execute(context.Background(), timesheet.Filter{}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all 3 slips, got %d", len(got))
	}
}
