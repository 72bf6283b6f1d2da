package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// ErrNotFound is wrapped by lookups and updates that match no row.
var ErrNotFound = errors.New("not found")

type RecordRepo interface {
	Create(ctx context.Context, r *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	GetByCode(ctx context.Context, code string) (*domain.Record, error)
	List(ctx context.Context, kind domain.RecordKind) ([]*domain.Record, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	Update(ctx context.Context, r *domain.Record) error
	Delete(ctx context.Context, id string) error
}

type ChecklistRepo interface {
	ListByRecord(ctx context.Context, recordCode string) ([]domain.ChecklistItem, error)
	// ReplaceByRecord swaps the whole checklist of recordCode for items in
	// one transaction.
	ReplaceByRecord(ctx context.Context, recordCode string, items []domain.ChecklistItem) error
}

type CommentRepo interface {
	// ListByRecord returns comments newest first.
	ListByRecord(ctx context.Context, recordID string) ([]domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) error
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}
