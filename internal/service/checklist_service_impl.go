package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/repository"
	"github.com/google/uuid"
)

type checklistService struct {
	items repository.ChecklistRepo
}

func NewChecklistService(items repository.ChecklistRepo) ChecklistService {
	return &checklistService{items: items}
}

func (s *checklistService) ListByRecord(ctx context.Context, recordCode string) ([]domain.ChecklistItem, error) {
	return s.items.ListByRecord(ctx, recordCode)
}

// ReplaceByRecord stores items as the full checklist of recordCode. Items
// without an id get one.
func (s *checklistService) ReplaceByRecord(ctx context.Context, recordCode string, items []domain.ChecklistItem) error {
	if recordCode == "" {
		return fmt.Errorf("checklist: record code is required")
	}
	out := make([]domain.ChecklistItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.RecordCode = recordCode
		out[i] = it
	}
	return s.items.ReplaceByRecord(ctx, recordCode, out)
}
