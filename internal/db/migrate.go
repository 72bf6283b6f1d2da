package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate runs all schema migrations. Every statement is idempotent and the
// DDL is limited to what both SQLite and PostgreSQL accept.
func Migrate(db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL CHECK(kind IN ('evaluation','kpi','task')),
		code        TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL DEFAULT '',
		record_type TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT '',
		team        TEXT NOT NULL DEFAULT '',
		assignee    TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL DEFAULT '',
		due_date    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT '대기'
		            CHECK(status IN ('대기','진행','완료','취소')),
		progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		weight      INTEGER NOT NULL DEFAULT 0 CHECK(weight BETWEEN 0 AND 100),
		description TEXT NOT NULL DEFAULT '',
		result      TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind)`,

	`CREATE TABLE IF NOT EXISTS checklist_items (
		id          TEXT PRIMARY KEY,
		record_code TEXT NOT NULL REFERENCES records(code) ON DELETE CASCADE,
		parent_id   TEXT,
		level       INTEGER NOT NULL DEFAULT 0 CHECK(level IN (0, 1)),
		order_index INTEGER NOT NULL DEFAULT 0,
		label       TEXT NOT NULL,
		checked     BOOLEAN NOT NULL DEFAULT FALSE,
		expanded    BOOLEAN NOT NULL DEFAULT TRUE,
		status      TEXT NOT NULL DEFAULT '대기'
		            CHECK(status IN ('대기','진행','완료','취소')),
		start_date  TEXT NOT NULL DEFAULT '',
		due_date    TEXT NOT NULL DEFAULT '',
		progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		priority    TEXT NOT NULL DEFAULT '없음',
		assignee    TEXT NOT NULL DEFAULT '',
		team        TEXT NOT NULL DEFAULT '',
		weight      INTEGER NOT NULL DEFAULT 0 CHECK(weight BETWEEN 0 AND 100)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checklist_items_record ON checklist_items(record_code, order_index)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id                TEXT PRIMARY KEY,
		record_id         TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
		seq               INTEGER NOT NULL,
		author_name       TEXT NOT NULL DEFAULT '',
		author_avatar     TEXT NOT NULL DEFAULT '',
		author_department TEXT NOT NULL DEFAULT '',
		author_position   TEXT NOT NULL DEFAULT '',
		author_role       TEXT NOT NULL DEFAULT '',
		content           TEXT NOT NULL,
		created_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_record ON comments(record_id, created_at)`,
}
