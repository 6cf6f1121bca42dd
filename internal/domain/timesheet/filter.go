package timesheet

import "time"

// Filter selects time slips. An empty dimension places no restriction
// on that dimension; populated dimensions are combined with AND.
// NoTask / NoLaborCode extend the respective id set with "field is
// null" entries.
type Filter struct {
	UserIDs    []uint
	ProjectIDs []uint

	TaskIDs []uint
	NoTask  bool

	LaborCodeIDs []uint
	NoLaborCode  bool

	From *time.Time
	To   *time.Time
}
