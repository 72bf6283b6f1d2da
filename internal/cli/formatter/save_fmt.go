package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/form"
)

// FormatSaveResult summarizes a save and lists each secondary write that
// needs to be reconciled by hand.
func FormatSaveResult(res form.SaveResult) string {
	verb := "Saved"
	if res.Created {
		verb = "Created"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", StyleGreen.Render("✔"), verb, Bold(res.Record.Code))

	c := res.Comments
	if c.Created+c.Updated+c.Deleted > 0 {
		b.WriteString(Dim(fmt.Sprintf("  comments: %d added, %d edited, %d removed", c.Created, c.Updated, c.Deleted)) + "\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(StyleYellow.Render("  ⚠ "+w.String()) + "\n")
	}
	if len(res.Warnings) > 0 {
		b.WriteString(Dim("  The record was saved; re-run the failed edits to reconcile.") + "\n")
	}
	return b.String()
}
