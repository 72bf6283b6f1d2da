package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/db"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/jmoiron/sqlx"
)

// SQLChecklistRepo implements ChecklistRepo. Reads go through db; replaces
// run inside a transaction opened by uow.
type SQLChecklistRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLChecklistRepo creates a new SQLChecklistRepo.
func NewSQLChecklistRepo(db db.DBTX, uow db.UnitOfWork) *SQLChecklistRepo {
	return &SQLChecklistRepo{db: db, uow: uow}
}

type checklistRow struct {
	ID         string         `db:"id"`
	RecordCode string         `db:"record_code"`
	ParentID   sql.NullString `db:"parent_id"`
	Level      int            `db:"level"`
	OrderIndex int            `db:"order_index"`
	Label      string         `db:"label"`
	Checked    bool           `db:"checked"`
	Expanded   bool           `db:"expanded"`
	Status     string         `db:"status"`
	StartDate  string         `db:"start_date"`
	DueDate    string         `db:"due_date"`
	Progress   int            `db:"progress"`
	Priority   string         `db:"priority"`
	Assignee   string         `db:"assignee"`
	Team       string         `db:"team"`
	Weight     int            `db:"weight"`
}

const checklistColumns = `id, record_code, parent_id, level, order_index, label, checked, expanded,
	status, start_date, due_date, progress, priority, assignee, team, weight`

func (row checklistRow) toDomain() domain.ChecklistItem {
	return domain.ChecklistItem{
		ID:         row.ID,
		RecordCode: row.RecordCode,
		ParentID:   stringPtr(row.ParentID),
		Level:      row.Level,
		OrderIndex: row.OrderIndex,
		Text:       row.Label,
		Checked:    row.Checked,
		Expanded:   row.Expanded,
		Status:     domain.Status(row.Status),
		StartDate:  row.StartDate,
		DueDate:    row.DueDate,
		Progress:   row.Progress,
		Priority:   domain.Priority(row.Priority),
		Assignee:   row.Assignee,
		Team:       row.Team,
		Weight:     row.Weight,
	}
}

func toChecklistRow(recordCode string, it domain.ChecklistItem) checklistRow {
	priority := it.Priority
	if priority == "" {
		priority = domain.PriorityNone
	}
	return checklistRow{
		ID:         it.ID,
		RecordCode: recordCode,
		ParentID:   nullString(it.ParentID),
		Level:      it.Level,
		OrderIndex: it.OrderIndex,
		Label:      it.Text,
		Checked:    it.Checked,
		Expanded:   it.Expanded,
		Status:     string(it.Status),
		StartDate:  it.StartDate,
		DueDate:    it.DueDate,
		Progress:   it.Progress,
		Priority:   string(priority),
		Assignee:   it.Assignee,
		Team:       it.Team,
		Weight:     it.Weight,
	}
}

func (r *SQLChecklistRepo) ListByRecord(ctx context.Context, recordCode string) ([]domain.ChecklistItem, error) {
	query := r.db.Rebind(`SELECT ` + checklistColumns + ` FROM checklist_items
		WHERE record_code = ? ORDER BY order_index, id`)
	var rows []checklistRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, recordCode); err != nil {
		return nil, fmt.Errorf("listing checklist items: %w", err)
	}
	items := make([]domain.ChecklistItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *SQLChecklistRepo) ReplaceByRecord(ctx context.Context, recordCode string, items []domain.ChecklistItem) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM checklist_items WHERE record_code = ?`), recordCode); err != nil {
			return fmt.Errorf("clearing checklist items: %w", err)
		}
		insert := `INSERT INTO checklist_items (` + checklistColumns + `)
			VALUES (:id, :record_code, :parent_id, :level, :order_index, :label, :checked, :expanded,
				:status, :start_date, :due_date, :progress, :priority, :assignee, :team, :weight)`
		for i, it := range items {
			row := toChecklistRow(recordCode, it)
			row.OrderIndex = i
			if _, err := sqlx.NamedExecContext(ctx, tx, insert, row); err != nil {
				return fmt.Errorf("inserting checklist item %s: %w", it.ID, err)
			}
		}
		return nil
	})
}
