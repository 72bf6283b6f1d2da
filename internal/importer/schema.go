// Package importer reads a record, its checklist and its feedback from a
// JSON file and replays them onto a new dialog session.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for record import.
type ImportSchema struct {
	Record    RecordImport `json:"record"`
	Checklist []ItemImport `json:"checklist,omitempty"`
	Comments  []string     `json:"comments,omitempty"`
}

// RecordImport defines the basic-info fields of the record. Empty strings
// keep the defaults a new dialog starts with.
type RecordImport struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Team        string `json:"team,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status,omitempty"`
	Progress    *int   `json:"progress,omitempty"`
	Weight      *int   `json:"weight,omitempty"`
	Description string `json:"description,omitempty"`
	Result      string `json:"result,omitempty"`
}

// ItemImport defines a checklist item. ParentRef must name an earlier
// top-level item.
type ItemImport struct {
	Ref       string  `json:"ref"`
	ParentRef *string `json:"parent_ref,omitempty"`
	Text      string  `json:"text"`
	Status    string  `json:"status,omitempty"`
	Priority  string  `json:"priority,omitempty"`
	StartDate string  `json:"start_date,omitempty"`
	DueDate   string  `json:"due_date,omitempty"`
	Progress  *int    `json:"progress,omitempty"`
	Weight    *int    `json:"weight,omitempty"`
	Assignee  string  `json:"assignee,omitempty"`
	Team      string  `json:"team,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty"`
}

// LoadImportSchema reads and parses a record import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
