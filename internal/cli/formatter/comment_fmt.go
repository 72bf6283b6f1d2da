package formatter

import (
	"strings"

	"github.com/alexanderramin/kpidesk/internal/comments"
)

// FormatComments renders comment entries newest first. Entries that exist
// only locally are marked unsaved.
func FormatComments(entries []comments.Entry) string {
	if len(entries) == 0 {
		return Dim("No comments.")
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		a := e.Comment.Author
		head := Bold(Or(a.Name))
		var org []string
		for _, s := range []string{a.Department, a.Position} {
			if s != "" {
				org = append(org, s)
			}
		}
		if len(org) > 0 {
			head += " " + Dim(strings.Join(org, " / "))
		}
		head += "  " + Dim(e.Timestamp())
		if e.Ref.IsLocal() {
			head += "  " + StyleYellow.Render("(unsaved)")
		} else {
			head += "  " + TruncID(e.Ref.ID())
		}
		b.WriteString(head + "\n")
		b.WriteString("  " + strings.ReplaceAll(e.Comment.Content, "\n", "\n  ") + "\n")
	}
	return b.String()
}
