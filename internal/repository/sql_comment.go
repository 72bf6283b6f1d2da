package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/db"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/jmoiron/sqlx"
)

// SQLCommentRepo implements CommentRepo.
type SQLCommentRepo struct {
	db db.DBTX
}

// NewSQLCommentRepo creates a new SQLCommentRepo.
func NewSQLCommentRepo(db db.DBTX) *SQLCommentRepo {
	return &SQLCommentRepo{db: db}
}

type commentRow struct {
	ID         string `db:"id"`
	RecordID   string `db:"record_id"`
	Seq        int64  `db:"seq"`
	Name       string `db:"author_name"`
	Avatar     string `db:"author_avatar"`
	Department string `db:"author_department"`
	Position   string `db:"author_position"`
	Role       string `db:"author_role"`
	Content    string `db:"content"`
	CreatedAt  string `db:"created_at"`
}

func (row commentRow) toDomain() (domain.Comment, error) {
	created, err := parseTime(row.CreatedAt, "created_at")
	if err != nil {
		return domain.Comment{}, err
	}
	return domain.Comment{
		ID:       row.ID,
		RecordID: row.RecordID,
		Author: domain.Author{
			Name:       row.Name,
			Avatar:     row.Avatar,
			Department: row.Department,
			Position:   row.Position,
			Role:       row.Role,
		},
		Content:   row.Content,
		CreatedAt: created,
	}, nil
}

func (r *SQLCommentRepo) ListByRecord(ctx context.Context, recordID string) ([]domain.Comment, error) {
	query := r.db.Rebind(`SELECT id, record_id, seq, author_name, author_avatar, author_department,
		author_position, author_role, content, created_at
		FROM comments WHERE record_id = ? ORDER BY created_at DESC, seq DESC`)
	var rows []commentRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, recordID); err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	out := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Create inserts c. The seq column breaks ties between comments written in
// the same instant so listing keeps insertion order.
func (r *SQLCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO comments (id, record_id, seq, author_name, author_avatar, author_department,
			author_position, author_role, content, created_at)
		VALUES (:id, :record_id, (SELECT COALESCE(MAX(seq), 0) + 1 FROM comments), :author_name, :author_avatar,
			:author_department, :author_position, :author_role, :content, :created_at)`
	row := commentRow{
		ID:         c.ID,
		RecordID:   c.RecordID,
		Name:       c.Author.Name,
		Avatar:     c.Author.Avatar,
		Department: c.Author.Department,
		Position:   c.Author.Position,
		Role:       c.Author.Role,
		Content:    c.Content,
		CreatedAt:  formatTime(c.CreatedAt),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, row); err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *SQLCommentRepo) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE comments SET content = ? WHERE id = ?`), content, id)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}
	return expectOneRow(res, "updating comment "+id)
}

func (r *SQLCommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return expectOneRow(res, "deleting comment "+id)
}
