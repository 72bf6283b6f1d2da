package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value accepting Korean labels or English aliases.
type statusValue struct{ v domain.Status }

func (s *statusValue) String() string { return string(s.v) }
func (s *statusValue) Type() string   { return "status" }
func (s *statusValue) Set(raw string) error {
	st, err := domain.ParseStatus(raw)
	if err != nil {
		return err
	}
	s.v = st
	return nil
}

type priorityValue struct{ v domain.Priority }

func (p *priorityValue) String() string { return string(p.v) }
func (p *priorityValue) Type() string   { return "priority" }
func (p *priorityValue) Set(raw string) error {
	pr, err := domain.ParsePriority(raw)
	if err != nil {
		return err
	}
	p.v = pr
	return nil
}

type kindValue struct{ v domain.RecordKind }

func (k *kindValue) String() string { return string(k.v) }
func (k *kindValue) Type() string   { return "kind" }
func (k *kindValue) Set(raw string) error {
	kind := domain.RecordKind(strings.ToLower(strings.TrimSpace(raw)))
	if !domain.ValidRecordKinds[string(kind)] {
		return fmt.Errorf("unknown kind %q (want evaluation, kpi or task)", raw)
	}
	k.v = kind
	return nil
}

// dateValue accepts YYYY-MM-DD or an empty string to clear the date.
type dateValue struct{ v string }

func (d *dateValue) String() string { return d.v }
func (d *dateValue) Type() string   { return "date" }
func (d *dateValue) Set(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw != "" && !domain.IsDate(raw) {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
	}
	d.v = raw
	return nil
}

var (
	_ pflag.Value = (*statusValue)(nil)
	_ pflag.Value = (*priorityValue)(nil)
	_ pflag.Value = (*kindValue)(nil)
	_ pflag.Value = (*dateValue)(nil)
)
