package comments

import (
	"context"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/sirupsen/logrus"
)

// Op names a backend call issued by Flush.
type Op string

const (
	OpDelete  Op = "delete"
	OpUpdate  Op = "update"
	OpCreate  Op = "create"
	OpRefresh Op = "refresh"
)

// Failure is one backend call that did not succeed during Flush.
type Failure struct {
	Op  Op
	Ref domain.CommentRef
	Err error
}

func (f Failure) Error() string {
	if f.Ref.ID() == "" {
		return fmt.Sprintf("comment %s: %v", f.Op, f.Err)
	}
	return fmt.Sprintf("comment %s %s: %v", f.Op, f.Ref, f.Err)
}

// FlushReport summarizes a Flush.
type FlushReport struct {
	Deleted  int
	Updated  int
	Created  int
	Failures []Failure
}

// Flush writes buffered changes for recordID to store: deletions, then
// updates, then pending creates oldest first so the backend's newest-first
// order matches the view. Each failure is logged and recorded in the report
// and the remaining calls still run. Afterwards the buffers are cleared and
// the persisted list is re-read from store.
func (b *Buffer) Flush(ctx context.Context, recordID string, store Store) (FlushReport, error) {
	var rep FlushReport
	if recordID == "" {
		return rep, ErrNoRecord
	}
	b.editing = nil

	fail := func(op Op, ref domain.CommentRef, err error) {
		b.logger.WithFields(logrus.Fields{
			"record_id":  recordID,
			"comment_id": ref.String(),
			"op":         string(op),
			"error":      err.Error(),
		}).Warn("comment flush failed")
		rep.Failures = append(rep.Failures, Failure{Op: op, Ref: ref, Err: err})
	}

	for _, id := range b.delOrder {
		if err := store.Delete(ctx, id); err != nil {
			fail(OpDelete, domain.PersistedRef(id), err)
			continue
		}
		rep.Deleted++
	}

	for _, id := range b.modOrder {
		content, ok := b.modified[id]
		if !ok {
			continue
		}
		if err := store.UpdateContent(ctx, id, content); err != nil {
			fail(OpUpdate, domain.PersistedRef(id), err)
			continue
		}
		rep.Updated++
	}

	for i := len(b.pending) - 1; i >= 0; i-- {
		c := b.pending[i].comment
		c.RecordID = recordID
		if err := store.Create(ctx, &c); err != nil {
			fail(OpCreate, b.pending[i].ref, err)
			continue
		}
		rep.Created++
	}

	persisted, err := store.ListByRecord(ctx, recordID)
	if err != nil {
		fail(OpRefresh, domain.CommentRef{}, err)
		persisted = b.optimisticView()
	}
	b.Reset(persisted)
	return rep, nil
}

// optimisticView is the view flattened to plain comments, used when the
// backend cannot be re-read.
func (b *Buffer) optimisticView() []domain.Comment {
	view := b.View()
	out := make([]domain.Comment, 0, len(view))
	for _, e := range view {
		if e.Ref.IsLocal() {
			continue
		}
		out = append(out, e.Comment)
	}
	return out
}
