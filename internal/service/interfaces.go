package service

import (
	"context"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/form"
)

type RecordService interface {
	Create(ctx context.Context, r *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	GetByCode(ctx context.Context, code string) (*domain.Record, error)
	// Resolve looks ref up as a record code first and as an id second.
	Resolve(ctx context.Context, ref string) (*domain.Record, error)
	List(ctx context.Context, kind domain.RecordKind) ([]*domain.Record, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	Update(ctx context.Context, r *domain.Record) error
	Delete(ctx context.Context, id string) error
}

type ChecklistService interface {
	ListByRecord(ctx context.Context, recordCode string) ([]domain.ChecklistItem, error)
	ReplaceByRecord(ctx context.Context, recordCode string, items []domain.ChecklistItem) error
}

type CommentService interface {
	ListByRecord(ctx context.Context, recordID string) ([]domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) error
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// EditorService opens record dialogs wired to the persistence services and
// saves them.
type EditorService interface {
	New(ctx context.Context, kind domain.RecordKind) (*form.Session, error)
	Open(ctx context.Context, ref string) (*form.Session, error)
	Save(ctx context.Context, s *form.Session) (form.SaveResult, error)
}
