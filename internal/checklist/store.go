// Package checklist holds the in-memory plan tree of one record: level-0
// initiatives with level-1 tasks beneath them. Every mutation replaces the
// whole item list and re-runs Rollup before it becomes visible.
package checklist

import (
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/google/uuid"
)

// Store owns the checklist of one open record. It is not safe for concurrent
// use; a dialog session drives it from a single goroutine.
type Store struct {
	recordCode string
	items      []domain.ChecklistItem
	newID      func() string
	dirty      bool

	editing *editSession
}

type editSession struct {
	id   string
	text string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides how ids for new items are produced.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates a store for recordCode hydrated with items.
func NewStore(recordCode string, items []domain.ChecklistItem, opts ...Option) *Store {
	s := &Store{
		recordCode: recordCode,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load(items)
	return s
}

// Load replaces the contents with items as read from the backend and clears
// the dirty flag and any edit session.
func (s *Store) Load(items []domain.ChecklistItem) {
	next := make([]domain.ChecklistItem, len(items))
	copy(next, items)
	s.items = renumber(Rollup(next))
	s.editing = nil
	s.dirty = false
}

// RecordCode returns the code of the record this checklist belongs to.
func (s *Store) RecordCode() string { return s.recordCode }

// SetRecordCode rebinds the checklist, used when a new record receives its code.
func (s *Store) SetRecordCode(code string) {
	if code == s.recordCode {
		return
	}
	s.recordCode = code
	next := s.snapshot()
	for i := range next {
		next[i].RecordCode = code
	}
	s.items = next
	s.dirty = true
}

// Dirty reports whether the checklist changed since the last Load.
func (s *Store) Dirty() bool { return s.dirty }

// Items returns a copy of all items in storage order.
func (s *Store) Items() []domain.ChecklistItem {
	return s.snapshot()
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (domain.ChecklistItem, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.ChecklistItem{}, false
}

// Add appends a new level-0 item. Blank text is ignored.
func (s *Store) Add(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	item := s.newItem(text)
	s.commit(append(s.snapshot(), item))
	return item.ID, true
}

// AddChild appends a new item beneath parentID, subject to the same depth
// limit as Reparent.
func (s *Store) AddChild(parentID, text string) (string, bool) {
	text = strings.TrimSpace(text)
	pi := s.indexOf(parentID)
	if text == "" || pi < 0 || s.items[pi].Level+1 > domain.MaxChecklistLevel {
		return "", false
	}
	item := s.newItem(text)
	pid := parentID
	item.ParentID = &pid
	item.Level = s.items[pi].Level + 1

	next := s.snapshot()
	next[pi].Expanded = true
	s.commit(append(next, item))
	return item.ID, true
}

func (s *Store) newItem(text string) domain.ChecklistItem {
	return domain.ChecklistItem{
		ID:         s.newID(),
		RecordCode: s.recordCode,
		Text:       text,
		Status:     domain.StatusWaiting,
		Priority:   domain.PriorityNone,
		Expanded:   true,
	}
}

// EditItem opens an edit-in-place session on id seeded with text. Any other
// open session is discarded.
func (s *Store) EditItem(id, text string) bool {
	if s.indexOf(id) < 0 {
		return false
	}
	s.editing = &editSession{id: id, text: text}
	return true
}

// SetEditText replaces the text of the open edit session.
func (s *Store) SetEditText(text string) {
	if s.editing != nil {
		s.editing.text = text
	}
}

// Editing returns the open edit session, if any.
func (s *Store) Editing() (id, text string, ok bool) {
	if s.editing == nil {
		return "", "", false
	}
	return s.editing.id, s.editing.text, true
}

// SaveEdit writes the session text to its item and closes the session.
// Blank text closes the session without saving.
func (s *Store) SaveEdit() bool {
	if s.editing == nil {
		return false
	}
	id, text := s.editing.id, strings.TrimSpace(s.editing.text)
	s.editing = nil

	i := s.indexOf(id)
	if i < 0 || text == "" {
		return false
	}
	next := s.snapshot()
	next[i].Text = text
	s.commit(next)
	return true
}

// CancelEdit closes the edit session without saving.
func (s *Store) CancelEdit() {
	s.editing = nil
}

// Delete removes id and all of its transitive descendants and returns the
// number of items removed.
func (s *Store) Delete(id string) int {
	if s.indexOf(id) < 0 {
		return 0
	}
	doomed := map[string]bool{id: true}
	for _, d := range s.descendants(id) {
		doomed[d] = true
	}

	next := make([]domain.ChecklistItem, 0, len(s.items)-len(doomed))
	for _, it := range s.items {
		if !doomed[it.ID] {
			next = append(next, it)
		}
	}
	if s.editing != nil && doomed[s.editing.id] {
		s.editing = nil
	}
	s.commit(next)
	return len(doomed)
}

// ToggleExpanded flips the display flag of id.
func (s *Store) ToggleExpanded(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	next := s.snapshot()
	next[i].Expanded = !next[i].Expanded
	s.commit(next)
	return true
}

// Reparent moves draggedID under targetID as its last child. It is a no-op
// returning false when the ids are equal or unknown, when draggedID is an
// ancestor of targetID, or when the moved subtree would sit deeper than
// domain.MaxChecklistLevel. The moved weight is trimmed to what the target's
// children have left.
func (s *Store) Reparent(draggedID, targetID string) bool {
	if draggedID == targetID {
		return false
	}
	di, ti := s.indexOf(draggedID), s.indexOf(targetID)
	if di < 0 || ti < 0 {
		return false
	}
	if s.isAncestor(draggedID, targetID) {
		return false
	}
	newLevel := s.items[ti].Level + 1
	if newLevel+s.subtreeHeight(draggedID) > domain.MaxChecklistLevel {
		return false
	}

	moved := s.items[di]
	tid := targetID
	moved.ParentID = &tid
	moved.Level = newLevel
	moved.Weight = s.clampWeight(&moved, moved.Weight)

	next := make([]domain.ChecklistItem, 0, len(s.items))
	for i, it := range s.items {
		if i == di {
			continue
		}
		if i == ti {
			it.Expanded = true
		}
		next = append(next, it)
	}
	s.commit(append(next, moved))
	return true
}

// Promote moves a child item back to the top level, trimming its weight to
// the top-level headroom.
func (s *Store) Promote(id string) bool {
	i := s.indexOf(id)
	if i < 0 || s.items[i].IsRoot() {
		return false
	}
	moved := s.items[i]
	moved.ParentID = nil
	moved.Level = 0
	moved.Weight = s.clampWeight(&moved, moved.Weight)

	next := make([]domain.ChecklistItem, 0, len(s.items))
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.commit(append(next, moved))
	return true
}

// Set applies a single field change to id. Changes to derived fields of a
// level-0 item that has children are rejected.
func (s *Store) Set(id string, c Change) bool {
	i := s.indexOf(id)
	if i < 0 || c == nil {
		return false
	}
	if c.derived() && s.hasChildren(id) {
		return false
	}
	next := s.snapshot()
	if !c.apply(s, &next[i]) {
		return false
	}
	s.commit(next)
	return true
}

// Visible returns items in display order: each level-0 item followed by its
// children when it is expanded.
func (s *Store) Visible() []domain.ChecklistItem {
	children := childIndex(s.items)
	var out []domain.ChecklistItem
	var walk func(i int)
	walk = func(i int) {
		out = append(out, s.items[i])
		if !s.items[i].Expanded {
			return
		}
		for _, k := range children[s.items[i].ID] {
			walk(k)
		}
	}
	for i := range s.items {
		if s.items[i].IsRoot() {
			walk(i)
		}
	}
	return out
}

// Children returns copies of the direct children of id in order.
func (s *Store) Children(id string) []domain.ChecklistItem {
	var out []domain.ChecklistItem
	for _, it := range s.items {
		if it.IsChildOf(id) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) commit(next []domain.ChecklistItem) {
	s.items = renumber(Rollup(next))
	s.dirty = true
}

func (s *Store) snapshot() []domain.ChecklistItem {
	out := make([]domain.ChecklistItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) hasChildren(id string) bool {
	for i := range s.items {
		if s.items[i].IsChildOf(id) {
			return true
		}
	}
	return false
}

// descendants collects every transitive child of id.
func (s *Store) descendants(id string) []string {
	children := childIndex(s.items)
	var out []string
	seen := map[string]bool{id: true}
	var walk func(pid string)
	walk = func(pid string) {
		for _, k := range children[pid] {
			cid := s.items[k].ID
			if seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, cid)
			walk(cid)
		}
	}
	walk(id)
	return out
}

// subtreeHeight is the number of levels below id.
func (s *Store) subtreeHeight(id string) int {
	children := childIndex(s.items)
	var height func(pid string, depth int) int
	height = func(pid string, depth int) int {
		best := depth
		if depth > len(s.items) {
			return best
		}
		for _, k := range children[pid] {
			if h := height(s.items[k].ID, depth+1); h > best {
				best = h
			}
		}
		return best
	}
	return height(id, 0)
}

// isAncestor walks up the parent chain of id looking for ancestorID.
func (s *Store) isAncestor(ancestorID, id string) bool {
	seen := map[string]bool{}
	cur := id
	for {
		i := s.indexOf(cur)
		if i < 0 || s.items[i].ParentID == nil || seen[cur] {
			return false
		}
		seen[cur] = true
		cur = *s.items[i].ParentID
		if cur == ancestorID {
			return true
		}
	}
}

func renumber(items []domain.ChecklistItem) []domain.ChecklistItem {
	for i := range items {
		items[i].OrderIndex = i
	}
	return items
}
