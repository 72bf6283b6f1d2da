package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/kpidesk/internal/db"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/identity"
	"github.com/alexanderramin/kpidesk/internal/repository"
	"github.com/alexanderramin/kpidesk/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type services struct {
	db         *sqlx.DB
	clock      *clockwork.FakeClock
	records    RecordService
	checklists ChecklistService
	comments   CommentService
	logger     *logrus.Logger
	hook       *logtest.Hook
}

func setupServices(t *testing.T) *services {
	t.Helper()
	database := testutil.NewTestDB(t)
	return setupServicesWithUoW(t, database, testutil.NewTestUoW(database))
}

func setupServicesWithUoW(t *testing.T, database *sqlx.DB, uow db.UnitOfWork) *services {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local))
	logger, hook := logtest.NewNullLogger()
	return &services{
		db:         database,
		clock:      clock,
		records:    NewRecordService(repository.NewSQLRecordRepo(database), clock),
		checklists: NewChecklistService(repository.NewSQLChecklistRepo(database, uow)),
		comments:   NewCommentService(repository.NewSQLCommentRepo(database), clock),
		logger:     logger,
		hook:       hook,
	}
}

func (s *services) editor(observers ...UseCaseObserver) EditorService {
	return NewEditorService(s.records, s.checklists, s.comments, EditorConfig{
		Identity: identity.NewStaticProvider(domain.Profile{
			UserID: "u-1", Name: "Kim", Team: "Platform", Department: "Engineering", Position: "Lead",
		}),
		Clock:    s.clock,
		Logger:   s.logger,
		Debounce: 150 * time.Millisecond,
	}, observers...)
}
