// Package comments buffers comment edits for one open record in memory and
// reconciles them with the backend when the record is saved.
package comments

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// TimestampLayout is the display format of comment times.
const TimestampLayout = "2006-01-02 15:04"

// ErrNoRecord is returned by Flush when the owning record has no id yet.
var ErrNoRecord = errors.New("comments: record has no id")

// Store is the persistence collaborator for comments.
type Store interface {
	ListByRecord(ctx context.Context, recordID string) ([]domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) error
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// Entry is one row of the derived view.
type Entry struct {
	Ref     domain.CommentRef
	Comment domain.Comment
}

// Timestamp renders the creation time for display.
func (e Entry) Timestamp() string {
	return e.Comment.CreatedAt.Local().Format(TimestampLayout)
}

type pendingComment struct {
	ref     domain.CommentRef
	comment domain.Comment
}

type editSession struct {
	ref  domain.CommentRef
	text string
}

// Buffer holds the persisted comments of a record plus three buckets of
// unsaved changes: pending creates, modified contents and deletions.
type Buffer struct {
	clock  clockwork.Clock
	newID  func() string
	logger logrus.FieldLogger

	persisted []domain.Comment
	pending   []pendingComment // newest first
	modified  map[string]string
	modOrder  []string
	deleted   map[string]bool
	delOrder  []string

	editing *editSession
}

// Option configures a Buffer.
type Option func(*Buffer)

func WithClock(c clockwork.Clock) Option {
	return func(b *Buffer) { b.clock = c }
}

func WithIDGenerator(fn func() string) Option {
	return func(b *Buffer) { b.newID = fn }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Buffer) { b.logger = l }
}

// NewBuffer creates a buffer seeded with the persisted comments of a record.
func NewBuffer(persisted []domain.Comment, opts ...Option) *Buffer {
	b := &Buffer{
		clock:  clockwork.NewRealClock(),
		newID:  func() string { return uuid.New().String() },
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset(persisted)
	return b
}

// Reset discards every buffered change and treats persisted as the current
// backend state.
func (b *Buffer) Reset(persisted []domain.Comment) {
	b.persisted = append([]domain.Comment(nil), persisted...)
	b.pending = nil
	b.modified = make(map[string]string)
	b.modOrder = nil
	b.deleted = make(map[string]bool)
	b.delOrder = nil
	b.editing = nil
}

// Dirty reports whether any change is waiting for Flush.
func (b *Buffer) Dirty() bool {
	return len(b.pending) > 0 || len(b.modified) > 0 || len(b.deleted) > 0
}

// Add stamps content with author and the current time and places it at the
// top of the view. Blank content is ignored.
func (b *Buffer) Add(content string, author domain.Author) (domain.CommentRef, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.CommentRef{}, false
	}
	ref := domain.LocalRef(b.newID())
	pc := pendingComment{
		ref: ref,
		comment: domain.Comment{
			Author:    author,
			Content:   content,
			CreatedAt: b.clock.Now(),
		},
	}
	b.pending = append([]pendingComment{pc}, b.pending...)
	return ref, true
}

// StartEdit opens the single edit session on ref.
func (b *Buffer) StartEdit(ref domain.CommentRef, current string) bool {
	if !b.visible(ref) {
		return false
	}
	b.editing = &editSession{ref: ref, text: current}
	return true
}

// SetEditText replaces the text of the open edit session.
func (b *Buffer) SetEditText(text string) {
	if b.editing != nil {
		b.editing.text = text
	}
}

// Editing returns the open edit session, if any.
func (b *Buffer) Editing() (domain.CommentRef, string, bool) {
	if b.editing == nil {
		return domain.CommentRef{}, "", false
	}
	return b.editing.ref, b.editing.text, true
}

// SaveEdit applies the session text. Pending comments are changed in place;
// persisted ones record the new content until Flush.
func (b *Buffer) SaveEdit() bool {
	if b.editing == nil {
		return false
	}
	ref, text := b.editing.ref, strings.TrimSpace(b.editing.text)
	b.editing = nil
	if text == "" || !b.visible(ref) {
		return false
	}

	if ref.IsLocal() {
		i := b.pendingIndex(ref)
		next := append([]pendingComment(nil), b.pending...)
		next[i].comment.Content = text
		b.pending = next
		return true
	}
	if _, ok := b.modified[ref.ID()]; !ok {
		b.modOrder = append(b.modOrder, ref.ID())
	}
	b.modified[ref.ID()] = text
	return true
}

// CancelEdit closes the edit session without saving.
func (b *Buffer) CancelEdit() {
	b.editing = nil
}

// Remove drops a pending comment outright or marks a persisted one for
// deletion.
func (b *Buffer) Remove(ref domain.CommentRef) bool {
	if !b.visible(ref) {
		return false
	}
	if b.editing != nil && b.editing.ref == ref {
		b.editing = nil
	}

	if ref.IsLocal() {
		i := b.pendingIndex(ref)
		next := make([]pendingComment, 0, len(b.pending)-1)
		next = append(next, b.pending[:i]...)
		b.pending = append(next, b.pending[i+1:]...)
		return true
	}

	id := ref.ID()
	if _, ok := b.modified[id]; ok {
		delete(b.modified, id)
		b.modOrder = removeString(b.modOrder, id)
	}
	b.deleted[id] = true
	b.delOrder = append(b.delOrder, id)
	return true
}

// View returns pending comments newest first followed by persisted comments
// that are not deleted, with modified content applied.
func (b *Buffer) View() []Entry {
	out := make([]Entry, 0, len(b.pending)+len(b.persisted))
	for _, pc := range b.pending {
		out = append(out, Entry{Ref: pc.ref, Comment: pc.comment})
	}
	for _, c := range b.persisted {
		if b.deleted[c.ID] {
			continue
		}
		if content, ok := b.modified[c.ID]; ok {
			c.Content = content
		}
		out = append(out, Entry{Ref: domain.PersistedRef(c.ID), Comment: c})
	}
	return out
}

// Find resolves a user-facing id to a ref in the current view. Local ids are
// matched before persisted ones.
func (b *Buffer) Find(id string) (domain.CommentRef, bool) {
	for _, e := range b.View() {
		if e.Ref.ID() == id {
			return e.Ref, true
		}
	}
	return domain.CommentRef{}, false
}

func (b *Buffer) visible(ref domain.CommentRef) bool {
	if ref.IsLocal() {
		return b.pendingIndex(ref) >= 0
	}
	if b.deleted[ref.ID()] {
		return false
	}
	for _, c := range b.persisted {
		if c.ID == ref.ID() {
			return true
		}
	}
	return false
}

func (b *Buffer) pendingIndex(ref domain.CommentRef) int {
	for i := range b.pending {
		if b.pending[i].ref == ref {
			return i
		}
	}
	return -1
}

func removeString(ss []string, s string) []string {
	out := ss[:0:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
