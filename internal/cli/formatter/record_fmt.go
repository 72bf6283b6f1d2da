package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// FormatRecordList renders records as a table keyed by code.
func FormatRecordList(records []*domain.Record, now time.Time) string {
	headers := []string{"CODE", "KIND", "TITLE", "STATUS", "PROGRESS", "DUE", "ASSIGNEE"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			Bold(r.Code),
			KindBadge(r.Kind),
			r.Title,
			StatusPill(r.Status),
			RenderProgress(r.Progress, 10),
			DueStyled(r.DueDate, !r.Status.IsClosed(), now),
			Or(r.Assignee),
		})
	}
	return RenderTable(headers, rows)
}

// FormatRecordDetail renders the basic-info tab of a record.
func FormatRecordDetail(r domain.Record, now time.Time) string {
	typeLabel := "Type"
	if r.Kind == domain.KindKPI {
		typeLabel = "Category"
	}
	typeValue := r.Type
	if r.Kind == domain.KindKPI {
		typeValue = r.Category
	}

	pairs := [][2]string{
		{"Code", Bold(r.Code) + "  " + KindBadge(r.Kind)},
		{typeLabel, Or(typeValue)},
		{"Team", Or(r.Team)},
		{"Assignee", Or(r.Assignee)},
		{"Dates", DateRange(r.StartDate, DueStyled(r.DueDate, !r.Status.IsClosed(), now))},
		{"Status", StatusPill(r.Status)},
		{"Progress", RenderProgress(r.Progress, 20)},
	}
	if r.Weight > 0 {
		pairs = append(pairs, [2]string{"Weight", fmt.Sprintf("%d", r.Weight)})
	}

	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%-9s", p[0])), p[1])
	}
	if r.Description != "" {
		b.WriteString("\n" + r.Description + "\n")
	}
	if r.Result != "" {
		b.WriteString("\n" + Dim("Result") + "\n" + r.Result + "\n")
	}
	return RenderBox(r.Title, strings.TrimRight(b.String(), "\n"))
}
