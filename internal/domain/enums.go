package domain

import (
	"fmt"
	"strings"
)

type RecordKind string

const (
	KindEvaluation RecordKind = "evaluation"
	KindKPI        RecordKind = "kpi"
	KindTask       RecordKind = "task"
)

// ValidRecordKinds is the canonical set of accepted record kind strings.
var ValidRecordKinds = map[string]bool{
	"evaluation": true, "kpi": true, "task": true,
}

// CodePrefix returns the human-readable code prefix for records of kind k.
func (k RecordKind) CodePrefix() string {
	switch k {
	case KindEvaluation:
		return "EVAL"
	case KindKPI:
		return "KPI-TASK"
	default:
		return "MAIN-TASK"
	}
}

// HasChecklist reports whether records of kind k carry a checklist plan.
func (k RecordKind) HasChecklist() bool {
	return k == KindKPI || k == KindTask
}

// Status is the lifecycle state shared by records and checklist items.
// Values are stored verbatim as their Korean labels.
type Status string

const (
	StatusWaiting    Status = "대기"
	StatusInProgress Status = "진행"
	StatusDone       Status = "완료"
	StatusCancelled  Status = "취소"
)

// ValidStatuses is the canonical set of accepted status labels.
var ValidStatuses = map[string]bool{
	"대기": true, "진행": true, "완료": true, "취소": true,
}

// IsClosed reports whether s counts as finished for completion purposes.
func (s Status) IsClosed() bool {
	return s == StatusDone || s == StatusCancelled
}

// ParseStatus accepts a Korean label or its English alias.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "대기", "waiting", "todo":
		return StatusWaiting, nil
	case "진행", "in_progress", "in-progress", "progress":
		return StatusInProgress, nil
	case "완료", "done":
		return StatusDone, nil
	case "취소", "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Priority uses the five-level scale. The three-level High/Medium/Low inputs
// map onto 높음/보통/낮음.
type Priority string

const (
	PriorityNone     Priority = "없음"
	PriorityLow      Priority = "낮음"
	PriorityMedium   Priority = "보통"
	PriorityHigh     Priority = "높음"
	PriorityCritical Priority = "심각"
)

var priorityRank = map[Priority]int{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

// Rank returns the numeric weight of p and false when p carries no value.
func (p Priority) Rank() (int, bool) {
	r, ok := priorityRank[p]
	return r, ok
}

// PriorityFromAverage maps an averaged rank back onto the nearest bucket
// using midpoints between adjacent levels.
func PriorityFromAverage(avg float64) Priority {
	switch {
	case avg >= 3.5:
		return PriorityCritical
	case avg >= 2.5:
		return PriorityHigh
	case avg >= 1.5:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ParsePriority accepts either scale.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "없음", "none":
		return PriorityNone, nil
	case "낮음", "low":
		return PriorityLow, nil
	case "보통", "medium":
		return PriorityMedium, nil
	case "높음", "high":
		return PriorityHigh, nil
	case "심각", "critical":
		return PriorityCritical, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}
