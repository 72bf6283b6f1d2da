package cli

import (
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCommentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comment",
		Aliases: []string{"c"},
		Short:   "Read and write feedback on a record",
	}

	cmd.AddCommand(
		newCommentListCmd(app),
		newCommentAddCmd(app),
		newCommentEditCmd(app),
		newCommentRemoveCmd(app),
	)

	return cmd
}

func newCommentListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list RECORD",
		Short: "List comments newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatComments(sess.Comments().View()))
			return nil
		},
	}
	return cmd
}

func newCommentAddCmd(app *App) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "add RECORD",
		Short: "Post a comment as the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if _, ok := sess.AddComment(text); !ok {
				return fmt.Errorf("comment must not be blank")
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Comment text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newCommentEditCmd(app *App) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit RECORD COMMENT",
		Short: "Change the text of a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			buf := sess.Comments()
			ref, current, err := resolveComment(buf, args[1])
			if err != nil {
				return err
			}
			buf.StartEdit(ref, current)
			buf.SetEditText(text)
			if !buf.SaveEdit() {
				return fmt.Errorf("comment must not be blank")
			}
			return saveAndReport(cmd, app, sess)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New comment text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newCommentRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm RECORD COMMENT",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Editor.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			buf := sess.Comments()
			ref, _, err := resolveComment(buf, args[1])
			if err != nil {
				return err
			}
			buf.Remove(ref)
			return saveAndReport(cmd, app, sess)
		},
	}
	return cmd
}
