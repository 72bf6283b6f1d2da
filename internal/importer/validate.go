package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before Apply.
// Returns a slice of all validation errors found. Required form fields are
// left to the save-time validation.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateRecord(&schema.Record)...)

	kind := domain.RecordKind(schema.Record.Kind)
	if len(schema.Checklist) > 0 && domain.ValidRecordKinds[schema.Record.Kind] && !kind.HasChecklist() {
		errs = append(errs, fmt.Errorf("checklist: %s records have no checklist", kind))
	}
	errs = append(errs, validateItems(schema.Checklist)...)

	for i, c := range schema.Comments {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, fmt.Errorf("comments[%d] must not be blank", i))
		}
	}

	return errs
}

func validateRecord(r *RecordImport) []error {
	var errs []error

	if r.Kind == "" {
		errs = append(errs, fmt.Errorf("record.kind is required"))
	} else if !domain.ValidRecordKinds[r.Kind] {
		errs = append(errs, fmt.Errorf("record.kind: invalid value %q", r.Kind))
	}
	if r.Status != "" {
		if _, err := domain.ParseStatus(r.Status); err != nil {
			errs = append(errs, fmt.Errorf("record.status: %w", err))
		}
	}
	errs = append(errs, validateOptionalDate("record.start_date", r.StartDate)...)
	errs = append(errs, validateOptionalDate("record.due_date", r.DueDate)...)
	errs = append(errs, validatePercent("record.progress", r.Progress)...)
	errs = append(errs, validatePercent("record.weight", r.Weight)...)

	return errs
}

func validateItems(items []ItemImport) []error {
	var errs []error
	// ref -> whether the item is top-level
	refs := make(map[string]bool)

	for i, it := range items {
		prefix := fmt.Sprintf("checklist[%d]", i)

		if it.Text == "" {
			errs = append(errs, fmt.Errorf("%s.text is required", prefix))
		}

		topLevel := it.ParentRef == nil || *it.ParentRef == ""
		if !topLevel {
			parentTop, ok := refs[*it.ParentRef]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in checklist)", prefix, *it.ParentRef))
			case !parentTop:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q is not a top-level item", prefix, *it.ParentRef))
			}
		}

		if it.Ref != "" {
			if _, dup := refs[it.Ref]; dup {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, it.Ref))
			} else {
				refs[it.Ref] = topLevel
			}
		}

		if it.Collapsed && it.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required for collapsed items", prefix))
		}

		if it.Status != "" {
			if _, err := domain.ParseStatus(it.Status); err != nil {
				errs = append(errs, fmt.Errorf("%s.status: %w", prefix, err))
			}
		}
		if _, err := domain.ParsePriority(it.Priority); err != nil {
			errs = append(errs, fmt.Errorf("%s.priority: %w", prefix, err))
		}
		errs = append(errs, validateOptionalDate(prefix+".start_date", it.StartDate)...)
		errs = append(errs, validateOptionalDate(prefix+".due_date", it.DueDate)...)
		errs = append(errs, validatePercent(prefix+".progress", it.Progress)...)
		if it.Weight != nil && *it.Weight < 0 {
			errs = append(errs, fmt.Errorf("%s.weight must not be negative", prefix))
		}
	}

	return errs
}

func validateOptionalDate(field, date string) []error {
	if date == "" || domain.IsDate(date) {
		return nil
	}
	return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, date)}
}

func validatePercent(field string, v *int) []error {
	if v == nil || (*v >= 0 && *v <= 100) {
		return nil
	}
	return []error{fmt.Errorf("%s must be between 0 and 100, got %d", field, *v)}
}
