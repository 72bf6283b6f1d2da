package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

var errNotFound = errors.New("not found")

type memRecords struct {
	mu        sync.Mutex
	rows      map[string]domain.Record
	codes     []string
	getErr    error
	createErr error
	creates   int
	updates   int
}

func newMemRecords(codes ...string) *memRecords {
	return &memRecords{rows: map[string]domain.Record{}, codes: codes}
}

func (m *memRecords) GetByID(_ context.Context, id string) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, errNotFound
	}
	return &r, nil
}

func (m *memRecords) Create(_ context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = fmt.Sprintf("rec-%d", len(m.rows)+1)
	m.rows[r.ID] = *r
	m.codes = append(m.codes, r.Code)
	return nil
}

func (m *memRecords) Update(_ context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if _, ok := m.rows[r.ID]; !ok {
		return errNotFound
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memRecords) ListCodes(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.codes {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out, nil
}

type memChecklist struct {
	byCode     map[string][]domain.ChecklistItem
	replaceErr error
	replaces   int
}

func newMemChecklist() *memChecklist {
	return &memChecklist{byCode: map[string][]domain.ChecklistItem{}}
}

func (m *memChecklist) ListByRecord(_ context.Context, code string) ([]domain.ChecklistItem, error) {
	return append([]domain.ChecklistItem(nil), m.byCode[code]...), nil
}

func (m *memChecklist) ReplaceByRecord(_ context.Context, code string, items []domain.ChecklistItem) error {
	m.replaces++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.byCode[code] = append([]domain.ChecklistItem(nil), items...)
	return nil
}

type memComments struct {
	rows    []domain.Comment
	creates int
}

func (m *memComments) ListByRecord(_ context.Context, recordID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].RecordID == recordID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memComments) Create(_ context.Context, c *domain.Comment) error {
	m.creates++
	c.ID = fmt.Sprintf("cm-%d", len(m.rows)+1)
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memComments) UpdateContent(_ context.Context, id, content string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Content = content
			return nil
		}
	}
	return errNotFound
}

func (m *memComments) Delete(_ context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

type staticIdentity struct {
	profile domain.Profile
	err     error
}

func (s staticIdentity) Current(context.Context) (domain.Profile, error) {
	return s.profile, s.err
}
