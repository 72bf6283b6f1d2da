package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/db"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/jmoiron/sqlx"
)

// SQLRecordRepo implements RecordRepo on any driver supported by db.OpenDB.
type SQLRecordRepo struct {
	db db.DBTX
}

// NewSQLRecordRepo creates a new SQLRecordRepo.
func NewSQLRecordRepo(db db.DBTX) *SQLRecordRepo {
	return &SQLRecordRepo{db: db}
}

type recordRow struct {
	ID          string `db:"id"`
	Kind        string `db:"kind"`
	Code        string `db:"code"`
	Title       string `db:"title"`
	Type        string `db:"record_type"`
	Category    string `db:"category"`
	Team        string `db:"team"`
	Assignee    string `db:"assignee"`
	StartDate   string `db:"start_date"`
	DueDate     string `db:"due_date"`
	Status      string `db:"status"`
	Progress    int    `db:"progress"`
	Weight      int    `db:"weight"`
	Description string `db:"description"`
	Result      string `db:"result"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

const recordColumns = `id, kind, code, title, record_type, category, team, assignee, start_date, due_date,
	status, progress, weight, description, result, created_at, updated_at`

func toRecordRow(r *domain.Record) recordRow {
	return recordRow{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Code:        r.Code,
		Title:       r.Title,
		Type:        r.Type,
		Category:    r.Category,
		Team:        r.Team,
		Assignee:    r.Assignee,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		Status:      string(r.Status),
		Progress:    r.Progress,
		Weight:      r.Weight,
		Description: r.Description,
		Result:      r.Result,
		CreatedAt:   formatTime(r.CreatedAt),
		UpdatedAt:   formatTime(r.UpdatedAt),
	}
}

func (row recordRow) toDomain() (*domain.Record, error) {
	r := &domain.Record{
		ID:          row.ID,
		Kind:        domain.RecordKind(row.Kind),
		Code:        row.Code,
		Title:       row.Title,
		Type:        row.Type,
		Category:    row.Category,
		Team:        row.Team,
		Assignee:    row.Assignee,
		StartDate:   row.StartDate,
		DueDate:     row.DueDate,
		Status:      domain.Status(row.Status),
		Progress:    row.Progress,
		Weight:      row.Weight,
		Description: row.Description,
		Result:      row.Result,
	}
	var err error
	if r.CreatedAt, err = parseTime(row.CreatedAt, "created_at"); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(row.UpdatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLRecordRepo) Create(ctx context.Context, rec *domain.Record) error {
	query := `INSERT INTO records (` + recordColumns + `)
		VALUES (:id, :kind, :code, :title, :record_type, :category, :team, :assignee, :start_date, :due_date,
			:status, :progress, :weight, :description, :result, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, toRecordRow(rec)); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (r *SQLRecordRepo) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
}

func (r *SQLRecordRepo) GetByCode(ctx context.Context, code string) (*domain.Record, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM records WHERE code = ?`, code)
}

func (r *SQLRecordRepo) getOne(ctx context.Context, query string, arg string) (*domain.Record, error) {
	var row recordRow
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("loading record: %w", err)
	}
	return row.toDomain()
}

// List returns records newest first, optionally filtered by kind.
func (r *SQLRecordRepo) List(ctx context.Context, kind domain.RecordKind) ([]*domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, code DESC`

	var rows []recordRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	out := make([]*domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ListCodes returns every record code starting with prefix.
func (r *SQLRecordRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	query := r.db.Rebind(`SELECT code FROM records WHERE code LIKE ? ORDER BY code`)
	if err := sqlx.SelectContext(ctx, r.db, &codes, query, prefix+"%"); err != nil {
		return nil, fmt.Errorf("listing record codes: %w", err)
	}
	return codes, nil
}

func (r *SQLRecordRepo) Update(ctx context.Context, rec *domain.Record) error {
	query := `UPDATE records SET kind = :kind, code = :code, title = :title, record_type = :record_type,
		category = :category, team = :team, assignee = :assignee, start_date = :start_date, due_date = :due_date,
		status = :status, progress = :progress, weight = :weight, description = :description, result = :result,
		updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.db, query, toRecordRow(rec))
	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}
	return expectOneRow(res, "updating record "+rec.ID)
}

func (r *SQLRecordRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM records WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return expectOneRow(res, "deleting record "+id)
}
