package checklist

import (
	"strings"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// Change is a single field update accepted by Store.Set. The set of
// implementations is closed to this package.
type Change interface {
	// derived reports whether the field is computed by Rollup on level-0
	// items that have children.
	derived() bool
	apply(s *Store, item *domain.ChecklistItem) bool
}

type (
	SetStatus    struct{ Status domain.Status }
	SetChecked   struct{ Checked bool }
	SetStartDate struct{ Date string }
	SetDueDate   struct{ Date string }
	SetProgress  struct{ Value int }
	SetPriority  struct{ Priority domain.Priority }
	SetAssignee  struct{ Name string }
	SetTeam      struct{ Name string }
	SetWeight    struct{ Value int }
)

func (SetStatus) derived() bool    { return true }
func (SetChecked) derived() bool   { return true }
func (SetStartDate) derived() bool { return true }
func (SetDueDate) derived() bool   { return true }
func (SetProgress) derived() bool  { return true }
func (SetPriority) derived() bool  { return true }
func (SetAssignee) derived() bool  { return false }
func (SetTeam) derived() bool      { return false }
func (SetWeight) derived() bool    { return false }

func (c SetStatus) apply(_ *Store, it *domain.ChecklistItem) bool {
	if !domain.ValidStatuses[string(c.Status)] {
		return false
	}
	it.SetStatus(c.Status)
	return true
}

func (c SetChecked) apply(_ *Store, it *domain.ChecklistItem) bool {
	it.SetChecked(c.Checked)
	return true
}

func (c SetStartDate) apply(_ *Store, it *domain.ChecklistItem) bool {
	d, ok := normalizeDate(c.Date)
	if !ok {
		return false
	}
	it.StartDate = d
	return true
}

func (c SetDueDate) apply(_ *Store, it *domain.ChecklistItem) bool {
	d, ok := normalizeDate(c.Date)
	if !ok {
		return false
	}
	it.DueDate = d
	return true
}

func (c SetProgress) apply(_ *Store, it *domain.ChecklistItem) bool {
	it.Progress = domain.ClampPercent(c.Value)
	return true
}

func (c SetPriority) apply(_ *Store, it *domain.ChecklistItem) bool {
	if _, ok := c.Priority.Rank(); !ok && c.Priority != domain.PriorityNone {
		return false
	}
	it.Priority = c.Priority
	return true
}

func (c SetAssignee) apply(_ *Store, it *domain.ChecklistItem) bool {
	it.Assignee = strings.TrimSpace(c.Name)
	return true
}

func (c SetTeam) apply(_ *Store, it *domain.ChecklistItem) bool {
	it.Team = strings.TrimSpace(c.Name)
	return true
}

func (c SetWeight) apply(s *Store, it *domain.ChecklistItem) bool {
	it.Weight = s.clampWeight(it, c.Value)
	return true
}

// clampWeight trims v to the headroom left for it. Level-0 weights share a
// budget of 100; child weights share their parent's weight, so a parent's
// weight never drops below the sum of its children's.
func (s *Store) clampWeight(it *domain.ChecklistItem, v int) int {
	budget := 100
	if !it.IsRoot() {
		budget = 0
		if pi := s.indexOf(*it.ParentID); pi >= 0 {
			budget = s.items[pi].Weight
		}
	}

	used := 0
	for _, other := range s.items {
		if other.ID == it.ID {
			continue
		}
		sameGroup := (it.IsRoot() && other.IsRoot()) ||
			(!it.IsRoot() && other.IsChildOf(*it.ParentID))
		if sameGroup {
			used += other.Weight
		}
	}

	headroom := budget - used
	if v > headroom {
		v = headroom
	}
	if it.IsRoot() {
		floor := 0
		for _, other := range s.items {
			if other.IsChildOf(it.ID) {
				floor += other.Weight
			}
		}
		if v < floor {
			v = floor
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}

// normalizeDate accepts an empty string (clear) or a YYYY-MM-DD date.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(domain.DateLayout), true
}
