package form

import (
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// Action is one field edit on the form state. The implementations below are
// the complete set; Reduce handles each of them.
type Action interface {
	isAction()
}

type (
	SetTitle       struct{ Value string }
	SetType        struct{ Value string }
	SetCategory    struct{ Value string }
	SetTeam        struct{ Value string }
	SetAssignee    struct{ Value string }
	SetStartDate   struct{ Value string }
	SetDueDate     struct{ Value string }
	SetStatus      struct{ Value domain.Status }
	SetProgress    struct{ Value int }
	SetWeight      struct{ Value int }
	SetDescription struct{ Value string }
	SetResult      struct{ Value string }
)

func (SetTitle) isAction()       {}
func (SetType) isAction()        {}
func (SetCategory) isAction()    {}
func (SetTeam) isAction()        {}
func (SetAssignee) isAction()    {}
func (SetStartDate) isAction()   {}
func (SetDueDate) isAction()     {}
func (SetStatus) isAction()      {}
func (SetProgress) isAction()    {}
func (SetWeight) isAction()      {}
func (SetDescription) isAction() {}
func (SetResult) isAction()      {}

// Reduce returns state with a applied. Numeric fields are clamped to
// [0, 100] here so no out-of-range value ever reaches the state.
func Reduce(state domain.Record, a Action) domain.Record {
	switch a := a.(type) {
	case SetTitle:
		state.Title = a.Value
	case SetType:
		state.Type = strings.TrimSpace(a.Value)
	case SetCategory:
		state.Category = strings.TrimSpace(a.Value)
	case SetTeam:
		state.Team = strings.TrimSpace(a.Value)
	case SetAssignee:
		state.Assignee = strings.TrimSpace(a.Value)
	case SetStartDate:
		state.StartDate = strings.TrimSpace(a.Value)
	case SetDueDate:
		state.DueDate = strings.TrimSpace(a.Value)
	case SetStatus:
		state.Status = a.Value
	case SetProgress:
		state.Progress = domain.ClampPercent(a.Value)
	case SetWeight:
		state.Weight = domain.ClampPercent(a.Value)
	case SetDescription:
		state.Description = a.Value
	case SetResult:
		state.Result = a.Value
	}
	return state
}
