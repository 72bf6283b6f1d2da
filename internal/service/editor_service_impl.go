package service

import (
	"context"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/form"
	"github.com/alexanderramin/kpidesk/internal/identity"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// EditorConfig carries the non-persistence collaborators of dialog sessions.
type EditorConfig struct {
	Identity identity.Provider
	Clock    clockwork.Clock
	Logger   logrus.FieldLogger
	Debounce time.Duration
}

type editorService struct {
	records    RecordService
	checklists ChecklistService
	comments   CommentService
	cfg        EditorConfig
	clock      clockwork.Clock
	observer   UseCaseObserver
}

func NewEditorService(
	records RecordService,
	checklists ChecklistService,
	comments CommentService,
	cfg EditorConfig,
	observers ...UseCaseObserver,
) EditorService {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &editorService{
		records:    records,
		checklists: checklists,
		comments:   comments,
		cfg:        cfg,
		clock:      clock,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *editorService) deps() form.Deps {
	return form.Deps{
		Records:   s.records,
		Checklist: s.checklists,
		Comments:  s.comments,
		Identity:  s.cfg.Identity,
		Clock:     s.cfg.Clock,
		Logger:    s.cfg.Logger,
		Debounce:  s.cfg.Debounce,
	}
}

func (s *editorService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.clock.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *editorService) New(ctx context.Context, kind domain.RecordKind) (sess *form.Session, err error) {
	startedAt := s.clock.Now()
	fields := map[string]any{"kind": string(kind)}
	defer func() { s.observe(ctx, "record-new", startedAt, fields, err) }()

	sess, err = form.OpenNew(ctx, s.deps(), kind)
	if err != nil {
		return nil, err
	}
	fields["code"] = sess.State().Code
	return sess, nil
}

// Open resolves ref as a code or an id and opens the record. The resolved
// row doubles as the summary the dialog falls back on.
func (s *editorService) Open(ctx context.Context, ref string) (sess *form.Session, err error) {
	startedAt := s.clock.Now()
	fields := map[string]any{"ref": ref}
	defer func() { s.observe(ctx, "record-open", startedAt, fields, err) }()

	var summary *domain.Record
	summary, err = s.records.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return form.OpenExisting(ctx, s.deps(), summary.ID, summary)
}

func (s *editorService) Save(ctx context.Context, sess *form.Session) (res form.SaveResult, err error) {
	startedAt := s.clock.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "record-save", startedAt, fields, err) }()

	res, err = sess.Save(ctx)
	if err != nil {
		return res, err
	}
	fields["record_id"] = res.Record.ID
	fields["created"] = res.Created
	fields["comments_created"] = res.Comments.Created
	fields["warnings"] = len(res.Warnings)
	return res, nil
}
