package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type recordService struct {
	records repository.RecordRepo
	clock   clockwork.Clock
}

func NewRecordService(records repository.RecordRepo, clock clockwork.Clock) RecordService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &recordService{records: records, clock: clock}
}

func (s *recordService) Create(ctx context.Context, r *domain.Record) error {
	if !domain.ValidRecordKinds[string(r.Kind)] {
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("record code is required")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := s.clock.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = domain.StatusWaiting
	}
	return s.records.Create(ctx, r)
}

func (s *recordService) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *recordService) GetByCode(ctx context.Context, code string) (*domain.Record, error) {
	return s.records.GetByCode(ctx, strings.ToUpper(code))
}

func (s *recordService) Resolve(ctx context.Context, ref string) (*domain.Record, error) {
	r, err := s.GetByCode(ctx, ref)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.records.GetByID(ctx, ref)
}

func (s *recordService) List(ctx context.Context, kind domain.RecordKind) ([]*domain.Record, error) {
	return s.records.List(ctx, kind)
}

func (s *recordService) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return s.records.ListCodes(ctx, prefix)
}

func (s *recordService) Update(ctx context.Context, r *domain.Record) error {
	r.UpdatedAt = s.clock.Now().UTC()
	return s.records.Update(ctx, r)
}

func (s *recordService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}
