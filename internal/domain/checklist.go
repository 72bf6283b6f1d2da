package domain

// MaxChecklistLevel is the deepest level an item may sit at:
// 0 for initiatives, 1 for their tasks.
const MaxChecklistLevel = 1

// ChecklistItem is one node of a record's plan tree. A nil ParentID marks a
// level-0 item whose Status, Progress, StartDate, DueDate and Priority are
// derived from its children whenever it has any.
type ChecklistItem struct {
	ID         string
	RecordCode string
	ParentID   *string
	Level      int
	OrderIndex int
	Text       string
	Checked    bool
	Expanded   bool
	Status     Status
	StartDate  string
	DueDate    string
	Progress   int
	Priority   Priority
	Assignee   string
	Team       string
	Weight     int
}

// IsRoot reports whether the item is a top-level initiative.
func (c *ChecklistItem) IsRoot() bool {
	return c.ParentID == nil
}

// IsChildOf reports whether the item's direct parent is parentID.
func (c *ChecklistItem) IsChildOf(parentID string) bool {
	return c.ParentID != nil && *c.ParentID == parentID
}

// SetStatus assigns s and keeps Checked in sync.
func (c *ChecklistItem) SetStatus(s Status) {
	c.Status = s
	c.Checked = s.IsClosed()
}

// SetChecked assigns the completion flag and moves Status to 완료 or 대기.
func (c *ChecklistItem) SetChecked(checked bool) {
	c.Checked = checked
	if checked {
		c.Status = StatusDone
	} else {
		c.Status = StatusWaiting
	}
}
