package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// MergeRecord overlays detail on summary field by field. Detail values win;
// summary values fill anything detail left empty. Either side may be nil.
func MergeRecord(detail, summary *Record) *Record {
	switch {
	case detail == nil && summary == nil:
		return &Record{}
	case detail == nil:
		out := *summary
		return &out
	case summary == nil:
		out := *detail
		return &out
	}

	out := *detail
	out.ID = CoalesceStr(detail.ID, summary.ID)
	out.Kind = RecordKind(CoalesceStr(string(detail.Kind), string(summary.Kind)))
	out.Code = CoalesceStr(detail.Code, summary.Code)
	out.Title = CoalesceStr(detail.Title, summary.Title)
	out.Type = CoalesceStr(detail.Type, summary.Type)
	out.Category = CoalesceStr(detail.Category, summary.Category)
	out.Team = CoalesceStr(detail.Team, summary.Team)
	out.Assignee = CoalesceStr(detail.Assignee, summary.Assignee)
	out.StartDate = CoalesceStr(detail.StartDate, summary.StartDate)
	out.DueDate = CoalesceStr(detail.DueDate, summary.DueDate)
	out.Status = Status(CoalesceStr(string(detail.Status), string(summary.Status)))
	out.Description = CoalesceStr(detail.Description, summary.Description)
	out.Result = CoalesceStr(detail.Result, summary.Result)
	return &out
}
