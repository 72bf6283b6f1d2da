package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// FormatChecklist renders the visible checklist as a tree. collapsed lists
// the ids of parents whose children are hidden.
func FormatChecklist(visible []domain.ChecklistItem, collapsed map[string]bool) string {
	if len(visible) == 0 {
		return Dim("No checklist items.")
	}
	tree := make([]TreeItem, len(visible))
	for i, it := range visible {
		last := true
		if it.ParentID != nil && i+1 < len(visible) && visible[i+1].IsChildOf(*it.ParentID) {
			last = false
		}
		tree[i] = TreeItem{
			Title:     it.Text,
			Level:     it.Level,
			IsLast:    last,
			Collapsed: collapsed[it.ID],
			Status:    it.Status,
			Detail:    itemDetail(it),
		}
	}
	return RenderTree(tree)
}

func itemDetail(it domain.ChecklistItem) string {
	parts := []string{shortID(it.ID), fmt.Sprintf("%d%%", it.Progress)}
	if _, ranked := it.Priority.Rank(); ranked {
		parts = append(parts, string(it.Priority))
	}
	if it.Weight > 0 {
		parts = append(parts, fmt.Sprintf("w%d", it.Weight))
	}
	if it.DueDate != "" {
		parts = append(parts, "due "+it.DueDate)
	}
	if it.Assignee != "" {
		parts = append(parts, it.Assignee)
	}
	return strings.Join(parts, " · ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
