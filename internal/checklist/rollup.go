package checklist

import (
	"math"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// Rollup returns a copy of items in which every level-0 item with children has
// its Status, Progress, StartDate, DueDate and Priority recomputed from its
// direct children. Other items pass through unchanged. Weight is never
// derived. Rollup is idempotent and does not modify its input.
func Rollup(items []domain.ChecklistItem) []domain.ChecklistItem {
	out := make([]domain.ChecklistItem, len(items))
	copy(out, items)

	children := childIndex(out)
	for i := range out {
		if !out[i].IsRoot() {
			continue
		}
		kids := children[out[i].ID]
		if len(kids) == 0 {
			continue
		}
		sub := make([]domain.ChecklistItem, len(kids))
		for j, k := range kids {
			sub[j] = out[k]
		}
		aggregate(&out[i], sub)
	}
	return out
}

// childIndex maps a parent id to the positions of its direct children.
func childIndex(items []domain.ChecklistItem) map[string][]int {
	idx := make(map[string][]int)
	for i := range items {
		if items[i].ParentID != nil {
			idx[*items[i].ParentID] = append(idx[*items[i].ParentID], i)
		}
	}
	return idx
}

func aggregate(parent *domain.ChecklistItem, kids []domain.ChecklistItem) {
	parent.SetStatus(rollupStatus(kids))
	parent.Progress = rollupProgress(kids)

	var latestDue, earliestStart string
	for _, k := range kids {
		if k.DueDate != "" && k.DueDate > latestDue {
			latestDue = k.DueDate
		}
		if k.StartDate != "" && (earliestStart == "" || k.StartDate < earliestStart) {
			earliestStart = k.StartDate
		}
	}
	parent.DueDate = domain.CoalesceStr(latestDue, parent.DueDate)
	parent.StartDate = domain.CoalesceStr(earliestStart, parent.StartDate)

	if p, ok := rollupPriority(kids); ok {
		parent.Priority = p
	}
}

func rollupStatus(kids []domain.ChecklistItem) domain.Status {
	var cancelled, closed int
	started := false
	for _, k := range kids {
		switch k.Status {
		case domain.StatusCancelled:
			cancelled++
			closed++
			started = true
		case domain.StatusDone:
			closed++
			started = true
		case domain.StatusInProgress:
			started = true
		}
	}
	switch {
	case cancelled == len(kids):
		return domain.StatusCancelled
	case closed == len(kids):
		return domain.StatusDone
	case started:
		return domain.StatusInProgress
	default:
		return domain.StatusWaiting
	}
}

// rollupProgress averages the children that are not cancelled.
func rollupProgress(kids []domain.ChecklistItem) int {
	var sum, n int
	for _, k := range kids {
		if k.Status == domain.StatusCancelled {
			continue
		}
		sum += k.Progress
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func rollupPriority(kids []domain.ChecklistItem) (domain.Priority, bool) {
	var sum, n int
	for _, k := range kids {
		if r, ok := k.Priority.Rank(); ok {
			sum += r
			n++
		}
	}
	if n == 0 {
		return "", false
	}
	return domain.PriorityFromAverage(float64(sum) / float64(n)), true
}
