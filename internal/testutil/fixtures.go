package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// Record options
type RecordOption func(*domain.Record)

func WithCode(code string) RecordOption {
	return func(r *domain.Record) {
		r.Code = code
	}
}

func WithStatus(s domain.Status) RecordOption {
	return func(r *domain.Record) {
		r.Status = s
	}
}

func WithDates(start, due string) RecordOption {
	return func(r *domain.Record) {
		r.StartDate = start
		r.DueDate = due
	}
}

func WithTeam(team, assignee string) RecordOption {
	return func(r *domain.Record) {
		r.Team = team
		r.Assignee = assignee
	}
}

func WithCreatedAt(t time.Time) RecordOption {
	return func(r *domain.Record) {
		r.CreatedAt = t
		r.UpdatedAt = t
	}
}

func defaultCode(kind domain.RecordKind) string {
	n := testCodeCounter.Add(1)
	return fmt.Sprintf("%s-25-%03d", kind.CodePrefix(), n)
}

func NewTestRecord(kind domain.RecordKind, title string, opts ...RecordOption) *domain.Record {
	now := time.Now().UTC()
	r := &domain.Record{
		ID:        uuid.New().String(),
		Kind:      kind,
		Code:      defaultCode(kind),
		Title:     title,
		Type:      "정량",
		Category:  "운영",
		Team:      "Platform",
		Assignee:  "Kim",
		StartDate: now.Format(domain.DateLayout),
		Status:    domain.StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChecklistItem options
type ItemOption func(*domain.ChecklistItem)

func WithParent(id string) ItemOption {
	return func(it *domain.ChecklistItem) {
		it.ParentID = &id
		it.Level = 1
	}
}

func WithItemStatus(s domain.Status) ItemOption {
	return func(it *domain.ChecklistItem) {
		it.SetStatus(s)
	}
}

func WithProgress(p int) ItemOption {
	return func(it *domain.ChecklistItem) {
		it.Progress = p
	}
}

func WithPriority(p domain.Priority) ItemOption {
	return func(it *domain.ChecklistItem) {
		it.Priority = p
	}
}

func WithWeight(w int) ItemOption {
	return func(it *domain.ChecklistItem) {
		it.Weight = w
	}
}

func WithItemDates(start, due string) ItemOption {
	return func(it *domain.ChecklistItem) {
		it.StartDate = start
		it.DueDate = due
	}
}

func NewTestItem(recordCode, text string, opts ...ItemOption) domain.ChecklistItem {
	it := domain.ChecklistItem{
		ID:         uuid.New().String(),
		RecordCode: recordCode,
		Text:       text,
		Expanded:   true,
		Status:     domain.StatusWaiting,
		Priority:   domain.PriorityNone,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// Comment options
type CommentOption func(*domain.Comment)

func WithAuthor(a domain.Author) CommentOption {
	return func(c *domain.Comment) {
		c.Author = a
	}
}

func WithCommentTime(t time.Time) CommentOption {
	return func(c *domain.Comment) {
		c.CreatedAt = t
	}
}

func NewTestComment(recordID, content string, opts ...CommentOption) *domain.Comment {
	c := &domain.Comment{
		ID:        uuid.New().String(),
		RecordID:  recordID,
		Author:    domain.Author{Name: "Kim", Department: "Platform", Position: "Lead"},
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
