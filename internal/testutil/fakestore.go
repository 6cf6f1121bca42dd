// Package testutil holds an in-memory timesheet.Store used by the
// use-case tests. Atomically snapshots the whole state up front and
// restores it when the callback fails, so rollback assertions exercise
// real semantics instead of a mock expectation.
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/models"
)

type FakeStore struct {
	NextID uint

	Slips      map[uint]*models.TimeSlip
	Logs       []models.TimeSlipLog
	Projects   map[uint]*models.Project
	Tasks      map[uint]*models.Task
	LaborCodes map[uint]*models.LaborCode

	// ProjectTasks maps project id to its allowed-task edges.
	ProjectTasks map[uint][]uint

	Favorites []models.FavoriteTimeSlip

	QueryProjects   []models.SavedQueryProject
	QueryTasks      []models.SavedQueryTask
	QueryLaborCodes []models.SavedQueryLaborCode

	// Rights maps user id to granted right codes.
	Rights map[uint][]string

	// Managers maps user id to delegated project ids.
	Managers map[uint][]uint
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		NextID:       1,
		Slips:        map[uint]*models.TimeSlip{},
		Projects:     map[uint]*models.Project{},
		Tasks:        map[uint]*models.Task{},
		LaborCodes:   map[uint]*models.LaborCode{},
		ProjectTasks: map[uint][]uint{},
		Rights:       map[uint][]string{},
		Managers:     map[uint][]uint{},
	}
}

// --------------------------------------------------
// Seeding helpers
// --------------------------------------------------

func (f *FakeStore) nextID() uint {
	id := f.NextID
	f.NextID++
	return id
}

func (f *FakeStore) AddProject(name string, lockDate *time.Time) *models.Project {
	p := &models.Project{ID: f.nextID(), Name: name, LockDate: lockDate}
	f.Projects[p.ID] = p
	return p
}

func (f *FakeStore) AddTask(name string) *models.Task {
	t := &models.Task{ID: f.nextID(), Name: name}
	f.Tasks[t.ID] = t
	return t
}

func (f *FakeStore) AddLaborCode(name string) *models.LaborCode {
	lc := &models.LaborCode{ID: f.nextID(), Name: name}
	f.LaborCodes[lc.ID] = lc
	return lc
}

func (f *FakeStore) AddSlip(slip models.TimeSlip) *models.TimeSlip {
	if slip.ID == 0 {
		slip.ID = f.nextID()
	}
	if slip.Version == 0 {
		slip.Version = 1
	}
	s := slip
	f.Slips[s.ID] = &s
	return &s
}

func (f *FakeStore) GrantRight(userID uint, code string) {
	f.Rights[userID] = append(f.Rights[userID], code)
}

func (f *FakeStore) Delegate(userID, projectID uint) {
	f.Managers[userID] = append(f.Managers[userID], projectID)
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (f *FakeStore) Atomically(ctx context.Context, fn func(timesheet.Store) error) error {
	backup := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(backup)
		return err
	}
	return nil
}

func (f *FakeStore) snapshot() *FakeStore {
	c := NewFakeStore()
	c.NextID = f.NextID

	for id, s := range f.Slips {
		cp := *s
		c.Slips[id] = &cp
	}
	c.Logs = append([]models.TimeSlipLog(nil), f.Logs...)

	for id, p := range f.Projects {
		cp := *p
		c.Projects[id] = &cp
	}
	for id, t := range f.Tasks {
		cp := *t
		c.Tasks[id] = &cp
	}
	for id, lc := range f.LaborCodes {
		cp := *lc
		c.LaborCodes[id] = &cp
	}
	for id, edges := range f.ProjectTasks {
		c.ProjectTasks[id] = append([]uint(nil), edges...)
	}

	c.Favorites = append([]models.FavoriteTimeSlip(nil), f.Favorites...)
	c.QueryProjects = append([]models.SavedQueryProject(nil), f.QueryProjects...)
	c.QueryTasks = append([]models.SavedQueryTask(nil), f.QueryTasks...)
	c.QueryLaborCodes = append([]models.SavedQueryLaborCode(nil), f.QueryLaborCodes...)

	for id, codes := range f.Rights {
		c.Rights[id] = append([]string(nil), codes...)
	}
	for id, projects := range f.Managers {
		c.Managers[id] = append([]uint(nil), projects...)
	}
	return c
}

func (f *FakeStore) restore(backup *FakeStore) {
	*f = *backup
}

// --------------------------------------------------
// Time slips
// --------------------------------------------------

func (f *FakeStore) GetTimeSlip(ctx context.Context, id uint) (*models.TimeSlip, error) {
	s, ok := f.Slips[id]
	if !ok {
		return nil, timesheet.ErrNotFound("time slip", id)
	}
	cp := *s
	return &cp, nil
}

func (f *FakeStore) CreateTimeSlip(ctx context.Context, slip *models.TimeSlip) error {
	slip.ID = f.nextID()
	cp := *slip
	f.Slips[slip.ID] = &cp
	return nil
}

func (f *FakeStore) SaveTimeSlip(ctx context.Context, slip *models.TimeSlip, expectedVersion int) error {
	stored, ok := f.Slips[slip.ID]
	if !ok || stored.Version != expectedVersion {
		return timesheet.ConflictError{Entity: "time slip", ID: slip.ID}
	}
	cp := *slip
	f.Slips[slip.ID] = &cp
	return nil
}

func (f *FakeStore) DeleteTimeSlip(ctx context.Context, id uint) error {
	delete(f.Slips, id)
	return nil
}

func (f *FakeStore) ListTimeSlips(ctx context.Context, flt timesheet.Filter) ([]models.TimeSlip, error) {
	var out []models.TimeSlip
	for _, s := range f.Slips {
		if matches(s, flt) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matches(s *models.TimeSlip, f timesheet.Filter) bool {
	if len(f.UserIDs) > 0 && !containsUint(f.UserIDs, s.UserID) {
		return false
	}
	if len(f.ProjectIDs) > 0 && !containsUint(f.ProjectIDs, s.ProjectID) {
		return false
	}
	if len(f.TaskIDs) > 0 || f.NoTask {
		ok := f.NoTask && s.TaskID == nil
		if !ok && s.TaskID != nil && containsUint(f.TaskIDs, *s.TaskID) {
			ok = true
		}
		if !ok {
			return false
		}
	}
	if len(f.LaborCodeIDs) > 0 || f.NoLaborCode {
		ok := f.NoLaborCode && s.LaborCodeID == nil
		if !ok && s.LaborCodeID != nil && containsUint(f.LaborCodeIDs, *s.LaborCodeID) {
			ok = true
		}
		if !ok {
			return false
		}
	}
	if f.From != nil && s.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && s.Date.After(*f.To) {
		return false
	}
	return true
}

func containsUint(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (f *FakeStore) ListTimeSlipsByProjectAndTasks(ctx context.Context, projectID uint, taskIDs []uint) ([]models.TimeSlip, error) {
	var out []models.TimeSlip
	for _, s := range f.Slips {
		if s.ProjectID == projectID && s.TaskID != nil && containsUint(taskIDs, *s.TaskID) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) CountTimeSlipsByProject(ctx context.Context, projectID uint) (int64, error) {
	var n int64
	for _, s := range f.Slips {
		if s.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (f *FakeStore) CountTimeSlipsByTask(ctx context.Context, taskID uint) (int64, error) {
	var n int64
	for _, s := range f.Slips {
		if s.TaskID != nil && *s.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

func (f *FakeStore) CountTimeSlipsByLaborCode(ctx context.Context, laborCodeID uint) (int64, error) {
	var n int64
	for _, s := range f.Slips {
		if s.LaborCodeID != nil && *s.LaborCodeID == laborCodeID {
			n++
		}
	}
	return n, nil
}

// --------------------------------------------------
// Audit log
// --------------------------------------------------

func (f *FakeStore) CreateTimeSlipLog(ctx context.Context, entry *models.TimeSlipLog) error {
	entry.ID = f.nextID()
	f.Logs = append(f.Logs, *entry)
	return nil
}

// LogsFor filters recorded audit rows by slip id.
func (f *FakeStore) LogsFor(slipID uint) []models.TimeSlipLog {
	var out []models.TimeSlipLog
	for _, l := range f.Logs {
		if l.TimeSlipID == slipID {
			out = append(out, l)
		}
	}
	return out
}

// --------------------------------------------------
// Taxonomy
// --------------------------------------------------

func (f *FakeStore) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	p, ok := f.Projects[id]
	if !ok {
		return nil, timesheet.ErrNotFound("project", id)
	}
	cp := *p
	return &cp, nil
}

func (f *FakeStore) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	t, ok := f.Tasks[id]
	if !ok {
		return nil, timesheet.ErrNotFound("task", id)
	}
	cp := *t
	return &cp, nil
}

func (f *FakeStore) GetLaborCode(ctx context.Context, id uint) (*models.LaborCode, error) {
	lc, ok := f.LaborCodes[id]
	if !ok {
		return nil, timesheet.ErrNotFound("labor code", id)
	}
	cp := *lc
	return &cp, nil
}

func (f *FakeStore) ListAllowedTaskIDs(ctx context.Context, projectID uint) ([]uint, error) {
	return append([]uint(nil), f.ProjectTasks[projectID]...), nil
}

func (f *FakeStore) ReplaceProjectTasks(ctx context.Context, projectID uint, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		delete(f.ProjectTasks, projectID)
		return nil
	}
	f.ProjectTasks[projectID] = append([]uint(nil), taskIDs...)
	return nil
}

func (f *FakeStore) DeleteProjectTasksByTask(ctx context.Context, taskID uint) error {
	for projectID, edges := range f.ProjectTasks {
		var kept []uint
		for _, id := range edges {
			if id != taskID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(f.ProjectTasks, projectID)
		} else {
			f.ProjectTasks[projectID] = kept
		}
	}
	return nil
}

func (f *FakeStore) DeleteProject(ctx context.Context, id uint) error {
	delete(f.Projects, id)
	return nil
}

func (f *FakeStore) DeleteTask(ctx context.Context, id uint) error {
	delete(f.Tasks, id)
	return nil
}

func (f *FakeStore) DeleteLaborCode(ctx context.Context, id uint) error {
	delete(f.LaborCodes, id)
	return nil
}

// --------------------------------------------------
// Cascade targets
// --------------------------------------------------

func (f *FakeStore) DeleteFavoritesByProject(ctx context.Context, projectID uint) error {
	f.Favorites = filterFavorites(f.Favorites, func(fav models.FavoriteTimeSlip) bool {
		return fav.ProjectID != projectID
	})
	return nil
}

func (f *FakeStore) DeleteFavoritesByTask(ctx context.Context, taskID uint) error {
	f.Favorites = filterFavorites(f.Favorites, func(fav models.FavoriteTimeSlip) bool {
		return fav.TaskID == nil || *fav.TaskID != taskID
	})
	return nil
}

func (f *FakeStore) DeleteFavoritesByLaborCode(ctx context.Context, laborCodeID uint) error {
	f.Favorites = filterFavorites(f.Favorites, func(fav models.FavoriteTimeSlip) bool {
		return fav.LaborCodeID == nil || *fav.LaborCodeID != laborCodeID
	})
	return nil
}

func filterFavorites(favs []models.FavoriteTimeSlip, keep func(models.FavoriteTimeSlip) bool) []models.FavoriteTimeSlip {
	var out []models.FavoriteTimeSlip
	for _, fav := range favs {
		if keep(fav) {
			out = append(out, fav)
		}
	}
	return out
}

func (f *FakeStore) DetachSavedQueriesFromProject(ctx context.Context, projectID uint) error {
	var kept []models.SavedQueryProject
	for _, link := range f.QueryProjects {
		if link.ProjectID != projectID {
			kept = append(kept, link)
		}
	}
	f.QueryProjects = kept
	return nil
}

func (f *FakeStore) DetachSavedQueriesFromTask(ctx context.Context, taskID uint) error {
	var kept []models.SavedQueryTask
	for _, link := range f.QueryTasks {
		if link.TaskID != taskID {
			kept = append(kept, link)
		}
	}
	f.QueryTasks = kept
	return nil
}

func (f *FakeStore) DetachSavedQueriesFromLaborCode(ctx context.Context, laborCodeID uint) error {
	var kept []models.SavedQueryLaborCode
	for _, link := range f.QueryLaborCodes {
		if link.LaborCodeID != laborCodeID {
			kept = append(kept, link)
		}
	}
	f.QueryLaborCodes = kept
	return nil
}

func (f *FakeStore) DeleteProjectManagersByProject(ctx context.Context, projectID uint) error {
	for userID, projects := range f.Managers {
		var kept []uint
		for _, id := range projects {
			if id != projectID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(f.Managers, userID)
		} else {
			f.Managers[userID] = kept
		}
	}
	return nil
}

// --------------------------------------------------
// Access
// --------------------------------------------------

func (f *FakeStore) UserHasRight(ctx context.Context, userID uint, rightCode string) (bool, error) {
	for _, code := range f.Rights[userID] {
		if code == rightCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeStore) IsProjectManager(ctx context.Context, userID, projectID uint) (bool, error) {
	return containsUint(f.Managers[userID], projectID), nil
}

func (f *FakeStore) ListUserRights(ctx context.Context, userID uint) ([]string, error) {
	return append([]string(nil), f.Rights[userID]...), nil
}

func (f *FakeStore) ReplaceUserRights(ctx context.Context, userID uint, rightCodes []string) error {
	if len(rightCodes) == 0 {
		delete(f.Rights, userID)
		return nil
	}
	f.Rights[userID] = append([]string(nil), rightCodes...)
	return nil
}

func (f *FakeStore) CountUsersWithRight(ctx context.Context, rightCode string) (int64, error) {
	var n int64
	for _, codes := range f.Rights {
		for _, code := range codes {
			if code == rightCode {
				n++
				break
			}
		}
	}
	return n, nil
}

var _ timesheet.Store = (*FakeStore)(nil)
