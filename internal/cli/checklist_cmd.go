package cli

import (
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/checklist"
	"github.com/spf13/cobra"
)

func newChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"cl"},
		Short:   "Edit the checklist plan of a KPI or task",
	}

	cmd.AddCommand(
		newChecklistAddCmd(app),
		newChecklistEditCmd(app),
		newChecklistSetCmd(app),
		newChecklistMoveCmd(app),
		newChecklistRemoveCmd(app),
		newChecklistToggleCmd(app),
	)

	return cmd
}

func newChecklistAddCmd(app *App) *cobra.Command {
	var text, parent string

	cmd := &cobra.Command{
		Use:   "add RECORD",
		Short: "Add an item, optionally under a top-level item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, store, err := openChecklist(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			var id string
			var ok bool
			if parent != "" {
				parentID, err := resolveItem(store, parent)
				if err != nil {
					return err
				}
				id, ok = store.AddChild(parentID, text)
				if !ok {
					return fmt.Errorf("cannot add under %s: only top-level items take children", parent)
				}
			} else if id, ok = store.Add(text); !ok {
				return fmt.Errorf("item text must not be blank")
			}

			if err := saveAndReport(cmd, app, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s\n", shortID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Item text")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item ID or prefix")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newChecklistEditCmd(app *App) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit RECORD ITEM",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, store, err := openChecklist(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			id, err := resolveItem(store, args[1])
			if err != nil {
				return err
			}
			store.EditItem(id, text)
			if !store.SaveEdit() {
				return fmt.Errorf("item text must not be blank")
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New item text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newChecklistSetCmd(app *App) *cobra.Command {
	var (
		status           statusValue
		priority         priorityValue
		start, due       dateValue
		progress, weight int
		assignee, team   string
		checked          bool
	)

	cmd := &cobra.Command{
		Use:   "set RECORD ITEM",
		Short: "Change fields of an item",
		Long: "Change fields of an item. Status, checked, dates, progress and priority of a\n" +
			"top-level item with children are derived from those children and cannot be set.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := cmd.Flags().Changed
			var changes []checklist.Change
			if set("status") {
				changes = append(changes, checklist.SetStatus{Status: status.v})
			}
			if set("checked") {
				changes = append(changes, checklist.SetChecked{Checked: checked})
			}
			if set("start") {
				changes = append(changes, checklist.SetStartDate{Date: start.v})
			}
			if set("due") {
				changes = append(changes, checklist.SetDueDate{Date: due.v})
			}
			if set("progress") {
				changes = append(changes, checklist.SetProgress{Value: progress})
			}
			if set("priority") {
				changes = append(changes, checklist.SetPriority{Priority: priority.v})
			}
			if set("assignee") {
				changes = append(changes, checklist.SetAssignee{Name: assignee})
			}
			if set("team") {
				changes = append(changes, checklist.SetTeam{Name: team})
			}
			if set("weight") {
				changes = append(changes, checklist.SetWeight{Value: weight})
			}
			if len(changes) == 0 {
				return fmt.Errorf("nothing to change")
			}

			sess, store, err := openChecklist(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			id, err := resolveItem(store, args[1])
			if err != nil {
				return err
			}
			for _, c := range changes {
				if !store.Set(id, c) {
					return fmt.Errorf("cannot apply %T to item %s", c, shortID(id))
				}
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	cmd.Flags().Var(&status, "status", "Status (대기, 진행, 완료, 취소)")
	cmd.Flags().BoolVar(&checked, "checked", false, "Mark complete (--checked=false to reopen)")
	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().Var(&due, "due", "Due date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percentage (0-100)")
	cmd.Flags().Var(&priority, "priority", "Priority (없음, 낮음, 보통, 높음, 심각 or low/medium/high)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&team, "team", "", "Team")
	cmd.Flags().IntVar(&weight, "weight", 0, "Weight; trimmed to what the sibling group has left")
	return cmd
}

func newChecklistMoveCmd(app *App) *cobra.Command {
	var under string
	var top bool

	cmd := &cobra.Command{
		Use:   "move RECORD ITEM",
		Short: "Move an item under another item or back to the top level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (under == "") == !top {
				return fmt.Errorf("exactly one of --under or --top is required")
			}
			sess, store, err := openChecklist(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			id, err := resolveItem(store, args[1])
			if err != nil {
				return err
			}
			if top {
				if !store.Promote(id) {
					return fmt.Errorf("item %s is already at the top level", shortID(id))
				}
				return saveAndReport(cmd, app, sess)
			}

			target, err := resolveItem(store, under)
			if err != nil {
				return err
			}
			if !store.Reparent(id, target) {
				return fmt.Errorf("cannot move %s under %s: it would create a cycle or exceed the depth limit",
					shortID(id), shortID(target))
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	cmd.Flags().StringVar(&under, "under", "", "Target item ID or prefix")
	cmd.Flags().BoolVar(&top, "top", false, "Move to the top level")
	return cmd
}

func newChecklistRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm RECORD ITEM",
		Short: "Delete an item and everything under it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, store, err := openChecklist(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			id, err := resolveItem(store, args[1])
			if err != nil {
				return err
			}
			n := store.Delete(id)
			if err := saveAndReport(cmd, app, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", n)
			return nil
		},
	}
	return cmd
}

func newChecklistToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle RECORD ITEM",
		Short: "Expand or collapse an item's children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, store, err := openChecklist(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			id, err := resolveItem(store, args[1])
			if err != nil {
				return err
			}
			store.ToggleExpanded(id)
			return saveAndReport(cmd, app, sess)
		},
	}
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
