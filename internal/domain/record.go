package domain

import "time"

// DateLayout is the storage and comparison format for all calendar dates.
// Lexicographic order of values in this layout equals chronological order.
const DateLayout = "2006-01-02"

// Record is the primary entity edited by one dialog: an evaluation, a KPI or
// a task. Checklist items reference it by Code, comments by ID.
type Record struct {
	ID          string
	Kind        RecordKind
	Code        string
	Title       string
	Type        string
	Category    string
	Team        string
	Assignee    string
	StartDate   string
	DueDate     string
	Status      Status
	Progress    int
	Weight      int
	Description string
	Result      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNew reports whether the record has not been persisted yet.
func (r *Record) IsNew() bool {
	return r.ID == ""
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// IsDate reports whether s is a calendar date in DateLayout.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
