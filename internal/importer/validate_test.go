package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }
func ptrInt(i int) *int       { return &i }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Record: RecordImport{Kind: "task", Title: "Ship release"},
	}
}

func validFullSchema() *ImportSchema {
	return &ImportSchema{
		Record: RecordImport{
			Kind:      "kpi",
			Title:     "Cut p99 latency",
			Category:  "performance",
			Team:      "Platform",
			Assignee:  "Kim",
			StartDate: "2025-06-01",
			DueDate:   "2025-09-30",
			Status:    "진행",
			Weight:    ptrInt(30),
		},
		Checklist: []ItemImport{
			{Ref: "profile", Text: "Profile hot paths", Weight: ptrInt(60)},
			{Ref: "db", ParentRef: ptrStr("profile"), Text: "Database", Status: "완료", Progress: ptrInt(100), Weight: ptrInt(40)},
			{Ref: "cache", ParentRef: ptrStr("profile"), Text: "Cache", Priority: "high", DueDate: "2025-07-15", Progress: ptrInt(50)},
			{Ref: "rollout", Text: "Roll out", Assignee: "Lee", Team: "SRE", Collapsed: true},
		},
		Comments: []string{"kickoff done", "first numbers are in"},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validFullSchema()))
}

func TestValidateImportSchema_RecordErrors(t *testing.T) {
	schema := &ImportSchema{
		Record: RecordImport{
			Kind:      "project",
			Status:    "unknown",
			StartDate: "2025/06/01",
			Progress:  ptrInt(120),
			Weight:    ptrInt(-1),
		},
	}

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 5)
	assert.Contains(t, errs[0].Error(), "record.kind")
	assert.Contains(t, errs[1].Error(), "record.status")
	assert.Contains(t, errs[2].Error(), "record.start_date")
	assert.Contains(t, errs[3].Error(), "record.progress")
	assert.Contains(t, errs[4].Error(), "record.weight")
}

func TestValidateImportSchema_MissingKind(t *testing.T) {
	errs := ValidateImportSchema(&ImportSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "record.kind is required")
}

func TestValidateImportSchema_EvaluationRejectsChecklist(t *testing.T) {
	schema := &ImportSchema{
		Record:    RecordImport{Kind: "evaluation"},
		Checklist: []ItemImport{{Ref: "a", Text: "x"}},
	}

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "have no checklist")
}

func TestValidateImportSchema_ParentRefs(t *testing.T) {
	tests := []struct {
		name  string
		items []ItemImport
		want  string
	}{
		{
			name:  "unknown parent",
			items: []ItemImport{{Ref: "a", ParentRef: ptrStr("missing"), Text: "x"}},
			want:  "not found",
		},
		{
			name: "forward reference",
			items: []ItemImport{
				{Ref: "a", ParentRef: ptrStr("b"), Text: "x"},
				{Ref: "b", Text: "y"},
			},
			want: "must appear earlier",
		},
		{
			name: "grandchild",
			items: []ItemImport{
				{Ref: "a", Text: "x"},
				{Ref: "b", ParentRef: ptrStr("a"), Text: "y"},
				{Ref: "c", ParentRef: ptrStr("b"), Text: "z"},
			},
			want: "not a top-level item",
		},
		{
			name: "duplicate ref",
			items: []ItemImport{
				{Ref: "a", Text: "x"},
				{Ref: "a", Text: "y"},
			},
			want: "duplicate ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := &ImportSchema{Record: RecordImport{Kind: "task"}, Checklist: tt.items}
			errs := ValidateImportSchema(schema)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}

func TestValidateImportSchema_ItemFieldErrors(t *testing.T) {
	schema := &ImportSchema{
		Record: RecordImport{Kind: "task"},
		Checklist: []ItemImport{
			{Text: "", Status: "bogus", Priority: "urgent", DueDate: "tomorrow", Progress: ptrInt(-5), Weight: ptrInt(-1), Collapsed: true},
		},
		Comments: []string{"  "},
	}

	errs := ValidateImportSchema(schema)
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{
		"checklist[0].text is required",
		"checklist[0].ref is required for collapsed items",
		"checklist[0].status",
		"checklist[0].priority",
		"checklist[0].due_date",
		"checklist[0].progress",
		"checklist[0].weight must not be negative",
		"comments[0] must not be blank",
	} {
		assert.Contains(t, joined, want)
	}
}

func TestLoadImportSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")
	data := `{
  "record": {"kind": "task", "title": "Ship", "type": "개발", "progress": 10},
  "checklist": [
    {"ref": "a", "text": "Prepare"},
    {"ref": "b", "parent_ref": "a", "text": "Draft", "priority": "보통"}
  ],
  "comments": ["hello"]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "task", schema.Record.Kind)
	require.NotNil(t, schema.Record.Progress)
	assert.Equal(t, 10, *schema.Record.Progress)
	require.Len(t, schema.Checklist, 2)
	require.NotNil(t, schema.Checklist[1].ParentRef)
	assert.Equal(t, "a", *schema.Checklist[1].ParentRef)
	assert.Equal(t, []string{"hello"}, schema.Comments)
}

func TestLoadImportSchema_Errors(t *testing.T) {
	_, err := LoadImportSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadImportSchema(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}
