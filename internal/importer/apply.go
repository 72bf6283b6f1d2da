package importer

import (
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/checklist"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/form"
)

// Apply replays a validated schema onto sess the way a user would fill the
// dialog: basic fields are dispatched, checklist items are added in file
// order and comments are buffered oldest first. The caller saves sess.
func Apply(sess *form.Session, schema *ImportSchema) error {
	for _, a := range recordActions(&schema.Record) {
		if err := sess.Dispatch(a); err != nil {
			return err
		}
	}

	if len(schema.Checklist) > 0 {
		store := sess.Checklist()
		if store == nil {
			return fmt.Errorf("%s records have no checklist", sess.State().Kind)
		}
		if err := applyItems(store, schema.Checklist); err != nil {
			return err
		}
	}

	for i, c := range schema.Comments {
		if _, ok := sess.AddComment(c); !ok {
			return fmt.Errorf("comments[%d] must not be blank", i)
		}
	}
	return nil
}

func recordActions(r *RecordImport) []form.Action {
	var actions []form.Action
	text := []struct {
		value string
		act   func(string) form.Action
	}{
		{r.Title, func(v string) form.Action { return form.SetTitle{Value: v} }},
		{r.Type, func(v string) form.Action { return form.SetType{Value: v} }},
		{r.Category, func(v string) form.Action { return form.SetCategory{Value: v} }},
		{r.Team, func(v string) form.Action { return form.SetTeam{Value: v} }},
		{r.Assignee, func(v string) form.Action { return form.SetAssignee{Value: v} }},
		{r.StartDate, func(v string) form.Action { return form.SetStartDate{Value: v} }},
		{r.DueDate, func(v string) form.Action { return form.SetDueDate{Value: v} }},
		{r.Description, func(v string) form.Action { return form.SetDescription{Value: v} }},
		{r.Result, func(v string) form.Action { return form.SetResult{Value: v} }},
	}
	for _, f := range text {
		if f.value != "" {
			actions = append(actions, f.act(f.value))
		}
	}
	if r.Status != "" {
		// Validated by ValidateImportSchema.
		st, _ := domain.ParseStatus(r.Status)
		actions = append(actions, form.SetStatus{Value: st})
	}
	if r.Progress != nil {
		actions = append(actions, form.SetProgress{Value: *r.Progress})
	}
	if r.Weight != nil {
		actions = append(actions, form.SetWeight{Value: *r.Weight})
	}
	return actions
}

func applyItems(store *checklist.Store, items []ItemImport) error {
	refMap := make(map[string]string) // ref -> item id

	for i, it := range items {
		prefix := fmt.Sprintf("checklist[%d]", i)

		var id string
		var ok bool
		if it.ParentRef != nil && *it.ParentRef != "" {
			parentID, found := refMap[*it.ParentRef]
			if !found {
				return fmt.Errorf("%s.parent_ref: ref %q not found", prefix, *it.ParentRef)
			}
			id, ok = store.AddChild(parentID, it.Text)
		} else {
			id, ok = store.Add(it.Text)
		}
		if !ok {
			return fmt.Errorf("%s: cannot add %q", prefix, it.Text)
		}
		if it.Ref != "" {
			refMap[it.Ref] = id
		}

		// The item has no children yet, so derived fields are still settable;
		// a parent's values are replaced by the rollup once children arrive.
		for _, c := range itemChanges(it) {
			if !store.Set(id, c) {
				return fmt.Errorf("%s: cannot apply %T", prefix, c)
			}
		}
	}

	for _, it := range items {
		id, ok := refMap[it.Ref]
		if !it.Collapsed || !ok {
			continue
		}
		if cur, _ := store.Get(id); cur.Expanded {
			store.ToggleExpanded(id)
		}
	}
	return nil
}

func itemChanges(it ItemImport) []checklist.Change {
	var changes []checklist.Change
	if it.Status != "" {
		st, _ := domain.ParseStatus(it.Status)
		changes = append(changes, checklist.SetStatus{Status: st})
	}
	if it.Priority != "" {
		pr, _ := domain.ParsePriority(it.Priority)
		changes = append(changes, checklist.SetPriority{Priority: pr})
	}
	if it.StartDate != "" {
		changes = append(changes, checklist.SetStartDate{Date: it.StartDate})
	}
	if it.DueDate != "" {
		changes = append(changes, checklist.SetDueDate{Date: it.DueDate})
	}
	if it.Progress != nil {
		changes = append(changes, checklist.SetProgress{Value: *it.Progress})
	}
	if it.Assignee != "" {
		changes = append(changes, checklist.SetAssignee{Name: it.Assignee})
	}
	if it.Team != "" {
		changes = append(changes, checklist.SetTeam{Name: it.Team})
	}
	if it.Weight != nil {
		changes = append(changes, checklist.SetWeight{Value: *it.Weight})
	}
	return changes
}
