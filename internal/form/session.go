// Package form drives one record dialog from open to save: it owns the form
// state, the checklist store and the comment buffer of the record and runs
// the validate-then-persist sequence.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/kpidesk/internal/checklist"
	"github.com/alexanderramin/kpidesk/internal/comments"
	"github.com/alexanderramin/kpidesk/internal/debounce"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

var (
	ErrClosed     = errors.New("form: session is closed")
	ErrNotEditing = errors.New("form: session is not accepting edits")
)

// RecordStore persists primary records.
type RecordStore interface {
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	Create(ctx context.Context, r *domain.Record) error
	Update(ctx context.Context, r *domain.Record) error
	ListCodes(ctx context.Context, prefix string) ([]string, error)
}

// ChecklistStore persists the checklist of a record as a whole.
type ChecklistStore interface {
	ListByRecord(ctx context.Context, recordCode string) ([]domain.ChecklistItem, error)
	ReplaceByRecord(ctx context.Context, recordCode string, items []domain.ChecklistItem) error
}

// Identity supplies the signed-in user.
type Identity interface {
	Current(ctx context.Context) (domain.Profile, error)
}

// Deps are the collaborators of a Session.
type Deps struct {
	Records   RecordStore
	Checklist ChecklistStore
	Comments  comments.Store
	Identity  Identity
	Clock     clockwork.Clock
	Logger    logrus.FieldLogger
	// Debounce is the quiet period of bound text fields.
	Debounce time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return d
}

type Phase int

const (
	PhaseClosed Phase = iota
	PhaseInitializing
	PhaseEditing
	PhaseValidating
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseEditing:
		return "editing"
	case PhaseValidating:
		return "validating"
	case PhaseSaving:
		return "saving"
	default:
		return "closed"
	}
}

type Tab string

const (
	TabBasic     Tab = "basic"
	TabChecklist Tab = "checklist"
	TabComments  Tab = "comments"
)

// TextField names a free-text field that can be bound to a debounced input.
type TextField int

const (
	FieldTitle TextField = iota
	FieldDescription
	FieldResult
)

func (f TextField) action(v string) Action {
	switch f {
	case FieldDescription:
		return SetDescription{Value: v}
	case FieldResult:
		return SetResult{Value: v}
	default:
		return SetTitle{Value: v}
	}
}

func (f TextField) value(r domain.Record) string {
	switch f {
	case FieldDescription:
		return r.Description
	case FieldResult:
		return r.Result
	default:
		return r.Title
	}
}

// Warning is a secondary persistence step that failed after the record
// itself was saved.
type Warning struct {
	Op  string
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Op, w.Err)
}

// SaveResult is returned by a successful Save.
type SaveResult struct {
	Record   domain.Record
	Created  bool
	Comments comments.FlushReport
	Warnings []Warning
}

// Session is one open dialog. Methods are safe to call from the goroutines
// of bound debounced fields.
type Session struct {
	deps    Deps
	profile domain.Profile

	mu    sync.Mutex
	phase Phase
	tab   Tab
	state domain.Record

	checklist *checklist.Store
	comments  *comments.Buffer
	fields    map[TextField]*debounce.Field
}

func newSession(deps Deps) *Session {
	return &Session{
		deps:   deps.withDefaults(),
		phase:  PhaseInitializing,
		tab:    TabBasic,
		fields: make(map[TextField]*debounce.Field),
	}
}

// OpenNew starts a dialog for a new record of kind with a generated code,
// today's date and the current user as assignee.
func OpenNew(ctx context.Context, deps Deps, kind domain.RecordKind) (*Session, error) {
	if !domain.ValidRecordKinds[string(kind)] {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	s := newSession(deps)
	s.loadProfile(ctx)

	now := s.deps.Clock.Now()
	prefix := kind.CodePrefix()
	codes, err := s.deps.Records.ListCodes(ctx, CodePattern(prefix, now.Year()))
	if err != nil {
		return nil, fmt.Errorf("listing record codes: %w", err)
	}

	s.state = domain.Record{
		Kind:      kind,
		Code:      NextCode(prefix, now.Year(), codes),
		Status:    domain.StatusWaiting,
		StartDate: now.Format(domain.DateLayout),
		Team:      s.profile.Team,
		Assignee:  s.profile.Name,
	}
	s.initBuffers(nil, nil)
	s.phase = PhaseEditing
	return s, nil
}

// OpenExisting starts a dialog for record id. The freshly fetched record is
// preferred; summary, when given, fills fields the fetch left empty and
// stands in for it entirely when the fetch fails.
func OpenExisting(ctx context.Context, deps Deps, id string, summary *domain.Record) (*Session, error) {
	s := newSession(deps)
	s.loadProfile(ctx)

	detail, err := s.deps.Records.GetByID(ctx, id)
	if err != nil {
		if summary == nil {
			return nil, fmt.Errorf("loading record %s: %w", id, err)
		}
		s.deps.Logger.WithFields(logrus.Fields{
			"record_id": id,
			"error":     err.Error(),
		}).Warn("record fetch failed, using summary")
	}
	s.state = *domain.MergeRecord(detail, summary)
	if s.state.ID == "" {
		s.state.ID = id
	}

	var items []domain.ChecklistItem
	if s.state.Kind.HasChecklist() {
		items, err = s.deps.Checklist.ListByRecord(ctx, s.state.Code)
		if err != nil {
			return nil, fmt.Errorf("loading checklist for %s: %w", s.state.Code, err)
		}
	}
	persisted, err := s.deps.Comments.ListByRecord(ctx, s.state.ID)
	if err != nil {
		return nil, fmt.Errorf("loading comments for %s: %w", s.state.ID, err)
	}

	s.initBuffers(items, persisted)
	s.phase = PhaseEditing
	return s, nil
}

func (s *Session) loadProfile(ctx context.Context) {
	if s.deps.Identity == nil {
		return
	}
	p, err := s.deps.Identity.Current(ctx)
	if err != nil {
		s.deps.Logger.WithField("error", err.Error()).Warn("identity lookup failed")
		return
	}
	s.profile = p
}

func (s *Session) initBuffers(items []domain.ChecklistItem, persisted []domain.Comment) {
	if s.state.Kind.HasChecklist() {
		s.checklist = checklist.NewStore(s.state.Code, items)
	}
	s.comments = comments.NewBuffer(persisted,
		comments.WithClock(s.deps.Clock),
		comments.WithLogger(s.deps.Logger),
	)
}

// Dispatch applies a to the form state.
func (s *Session) Dispatch(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	prev := s.state
	s.state = Reduce(s.state, a)
	for tf, f := range s.fields {
		if v := tf.value(s.state); v != tf.value(prev) {
			f.Sync(v)
		}
	}
	return nil
}

// dispatchFromField applies a committed value without resyncing the field
// that produced it.
func (s *Session) dispatchFromField(tf TextField, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editableLocked() != nil {
		return
	}
	s.state = Reduce(s.state, tf.action(v))
}

func (s *Session) editableLocked() error {
	switch s.phase {
	case PhaseClosed:
		return ErrClosed
	case PhaseEditing:
		return nil
	default:
		return ErrNotEditing
	}
}

// BindText returns the debounced input for tf, creating it on first use.
// Its committed values flow into the form state; Save flushes it first.
func (s *Session) BindText(tf TextField) *debounce.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fields[tf]; ok {
		return f
	}
	f := debounce.New(tf.value(s.state), s.deps.Debounce,
		func(v string) { s.dispatchFromField(tf, v) },
		debounce.WithClock(s.deps.Clock),
	)
	s.fields[tf] = f
	return f
}

// SelectTab switches the visible tab. Form state is kept.
func (s *Session) SelectTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
}

func (s *Session) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// State returns a copy of the current form state.
func (s *Session) State() domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Profile() domain.Profile { return s.profile }

// Checklist returns the checklist store, or nil for kinds without one.
func (s *Session) Checklist() *checklist.Store { return s.checklist }

func (s *Session) Comments() *comments.Buffer { return s.comments }

// AddComment buffers content stamped with the current user.
func (s *Session) AddComment(content string) (domain.CommentRef, bool) {
	return s.comments.Add(content, s.profile.Author())
}

// Save validates the form and persists the record, then its checklist, then
// its comments. A validation or record failure is returned and leaves the
// session editable. Checklist and comment failures only produce warnings.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	for _, f := range s.boundFields() {
		f.Flush()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return SaveResult{}, err
	}

	s.phase = PhaseValidating
	if err := Validate(s.state); err != nil {
		s.phase = PhaseEditing
		return SaveResult{}, err
	}

	s.phase = PhaseSaving
	rec := s.state
	created := rec.IsNew()
	var err error
	if created {
		err = s.deps.Records.Create(ctx, &rec)
	} else {
		err = s.deps.Records.Update(ctx, &rec)
	}
	if err != nil {
		s.phase = PhaseEditing
		return SaveResult{}, fmt.Errorf("saving record: %w", err)
	}
	s.state = rec
	res := SaveResult{Record: rec, Created: created}
	log := s.deps.Logger.WithField("record_id", rec.ID)

	if s.checklist != nil {
		s.checklist.SetRecordCode(rec.Code)
		if s.checklist.Dirty() {
			items := s.checklist.Items()
			if err := s.deps.Checklist.ReplaceByRecord(ctx, rec.Code, items); err != nil {
				log.WithFields(logrus.Fields{
					"item_count": len(items),
					"op":         "checklist_replace",
					"error":      err.Error(),
				}).Warn("checklist save failed")
				res.Warnings = append(res.Warnings, Warning{Op: "checklist", Err: err})
			} else {
				s.checklist.Load(items)
			}
		}
	}

	rep, err := s.comments.Flush(ctx, rec.ID, s.deps.Comments)
	if err != nil {
		res.Warnings = append(res.Warnings, Warning{Op: "comments", Err: err})
	}
	res.Comments = rep
	for _, f := range rep.Failures {
		res.Warnings = append(res.Warnings, Warning{Op: "comment " + string(f.Op), Err: f.Err})
	}

	s.closeLocked()
	return res, nil
}

// Close discards all unsaved state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	for _, f := range s.fields {
		f.Close()
	}
	s.phase = PhaseClosed
}

func (s *Session) boundFields() []*debounce.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*debounce.Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f)
	}
	return out
}
