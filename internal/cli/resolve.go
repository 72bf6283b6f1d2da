package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/checklist"
	"github.com/alexanderramin/kpidesk/internal/cli/formatter"
	"github.com/alexanderramin/kpidesk/internal/comments"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/form"
	"github.com/spf13/cobra"
)

// matchID resolves input against ids: exact match first, then a unique prefix.
func matchID(what, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", what)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", what, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", what, input, len(matches))
	}
}

func resolveItem(store *checklist.Store, input string) (string, error) {
	items := store.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return matchID("checklist item", input, ids)
}

// resolveComment finds a visible comment and returns its ref and content.
func resolveComment(buf *comments.Buffer, input string) (domain.CommentRef, string, error) {
	view := buf.View()
	ids := make([]string, 0, len(view))
	for _, e := range view {
		if !e.Ref.IsLocal() {
			ids = append(ids, e.Ref.ID())
		}
	}
	id, err := matchID("comment", input, ids)
	if err != nil {
		return domain.CommentRef{}, "", err
	}
	for _, e := range view {
		if e.Ref.ID() == id && !e.Ref.IsLocal() {
			return e.Ref, e.Comment.Content, nil
		}
	}
	return domain.CommentRef{}, "", fmt.Errorf("comment not found: %q", input)
}

// openChecklist opens ref and returns its checklist store. The caller must
// close the session.
func openChecklist(ctx context.Context, app *App, ref string) (*form.Session, *checklist.Store, error) {
	sess, err := app.Editor.Open(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	store := sess.Checklist()
	if store == nil {
		kind := sess.State().Kind
		sess.Close()
		return nil, nil, fmt.Errorf("%s records have no checklist", kind)
	}
	return sess, store, nil
}

// saveAndReport runs the save sequence and prints its outcome.
func saveAndReport(cmd *cobra.Command, app *App, sess *form.Session) error {
	res, err := app.Editor.Save(cmd.Context(), sess)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSaveResult(res))
	return nil
}
