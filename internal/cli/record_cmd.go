package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/cli/formatter"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/form"
	"github.com/alexanderramin/kpidesk/internal/importer"
	"github.com/spf13/cobra"
)

func newRecordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "record",
		Aliases: []string{"rec"},
		Short:   "Create, inspect and edit records",
	}

	cmd.AddCommand(
		newRecordNewCmd(app),
		newRecordListCmd(app),
		newRecordShowCmd(app),
		newRecordEditCmd(app),
		newRecordRemoveCmd(app),
		newRecordImportCmd(app),
	)

	return cmd
}

// recordFlags are the basic-info fields shared by "new" and "edit".
type recordFlags struct {
	title, recordType, category, team, assignee string
	description, result                         string
	start, due                                  dateValue
	status                                      statusValue
	progress, weight                            int
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title (evaluation content for evaluations)")
	cmd.Flags().StringVar(&f.recordType, "type", "", "Work or evaluation type")
	cmd.Flags().StringVar(&f.category, "category", "", "KPI category")
	cmd.Flags().StringVar(&f.team, "team", "", "Owning team")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "Assignee")
	cmd.Flags().Var(&f.start, "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(&f.due, "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().Var(&f.status, "status", "Status (대기, 진행, 완료, 취소)")
	cmd.Flags().IntVar(&f.progress, "progress", 0, "Progress percentage (0-100)")
	cmd.Flags().IntVar(&f.weight, "weight", 0, "Weight percentage (0-100)")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.result, "result", "", "Result")
}

// apply dispatches every flag the user set. Free-text fields go through
// their debounced inputs so Save exercises the same flush path as typing.
func (f *recordFlags) apply(cmd *cobra.Command, sess *form.Session) error {
	set := cmd.Flags().Changed
	var actions []form.Action
	if set("type") {
		actions = append(actions, form.SetType{Value: f.recordType})
	}
	if set("category") {
		actions = append(actions, form.SetCategory{Value: f.category})
	}
	if set("team") {
		actions = append(actions, form.SetTeam{Value: f.team})
	}
	if set("assignee") {
		actions = append(actions, form.SetAssignee{Value: f.assignee})
	}
	if set("start") {
		actions = append(actions, form.SetStartDate{Value: f.start.v})
	}
	if set("due") {
		actions = append(actions, form.SetDueDate{Value: f.due.v})
	}
	if set("status") {
		actions = append(actions, form.SetStatus{Value: f.status.v})
	}
	if set("progress") {
		actions = append(actions, form.SetProgress{Value: f.progress})
	}
	if set("weight") {
		actions = append(actions, form.SetWeight{Value: f.weight})
	}
	for _, a := range actions {
		if err := sess.Dispatch(a); err != nil {
			return err
		}
	}

	if set("title") {
		sess.BindText(form.FieldTitle).Type(f.title)
	}
	if set("description") {
		sess.BindText(form.FieldDescription).Type(f.description)
	}
	if set("result") {
		sess.BindText(form.FieldResult).Type(f.result)
	}
	return nil
}

func newRecordNewCmd(app *App) *cobra.Command {
	var (
		kind     = kindValue{}
		flags    recordFlags
		comments []string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.New(cmd.Context(), kind.v)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := flags.apply(cmd, sess); err != nil {
				return err
			}
			for _, c := range comments {
				sess.AddComment(c)
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	cmd.Flags().Var(&kind, "kind", "Record kind (evaluation, kpi, task)")
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&comments, "comment", nil, "Feedback to attach (repeatable)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func newRecordListCmd(app *App) *cobra.Command {
	var kind kindValue

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Records.List(cmd.Context(), kind.v)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordList(records, app.now().Now()))
			return nil
		},
	}

	cmd.Flags().Var(&kind, "kind", "Only list records of this kind")
	return cmd
}

func newRecordShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RECORD",
		Short: "Show a record with its checklist rollups and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatRecordDetail(sess.State(), app.now().Now()))
			if store := sess.Checklist(); store != nil {
				collapsed := map[string]bool{}
				for _, it := range store.Visible() {
					if !it.Expanded && len(store.Children(it.ID)) > 0 {
						collapsed[it.ID] = true
					}
				}
				fmt.Fprintf(out, "\n%s\n%s", formatter.Header("Checklist"), formatter.FormatChecklist(store.Visible(), collapsed))
			}
			fmt.Fprintf(out, "\n%s\n%s", formatter.Header("Feedback"), formatter.FormatComments(sess.Comments().View()))
			return nil
		},
	}
	return cmd
}

func newRecordEditCmd(app *App) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "edit RECORD",
		Short: "Update basic fields of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := flags.apply(cmd, sess); err != nil {
				return err
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	flags.register(cmd)
	return cmd
}

func newRecordRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm RECORD",
		Short: "Delete a record with its checklist and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Records.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Records.Delete(cmd.Context(), rec.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", rec.Code)
			return nil
		},
	}
	return cmd
}

func newRecordImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a record with its checklist and feedback from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadImportSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
				return fmt.Errorf("invalid import file: %w", errors.Join(errs...))
			}

			sess, err := app.Editor.New(cmd.Context(), domain.RecordKind(schema.Record.Kind))
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := importer.Apply(sess, schema); err != nil {
				return err
			}
			return saveAndReport(cmd, app, sess)
		},
	}
	return cmd
}
