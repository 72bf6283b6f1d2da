package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidationError names the first field that blocks a save.
type ValidationError struct {
	Field string // Go field name
	Label string // display label
	Tag   string // failed rule
}

func (e *ValidationError) Error() string {
	if e.Tag == "datetime" {
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", e.Label)
	}
	return fmt.Sprintf("%s is required", e.Label)
}

// Field order in these structs is the order in which missing values are
// reported.
type taskInput struct {
	Title     string `label:"제목" validate:"required"`
	Type      string `label:"업무유형" validate:"required"`
	Team      string `label:"팀" validate:"required"`
	Assignee  string `label:"담당자" validate:"required"`
	Date      string `label:"날짜" validate:"required"`
	StartDate string `label:"시작일" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string `label:"마감일" validate:"omitempty,datetime=2006-01-02"`
}

type kpiInput struct {
	Title     string `label:"제목" validate:"required"`
	Category  string `label:"카테고리" validate:"required"`
	Team      string `label:"팀" validate:"required"`
	Assignee  string `label:"담당자" validate:"required"`
	Date      string `label:"날짜" validate:"required"`
	StartDate string `label:"시작일" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string `label:"마감일" validate:"omitempty,datetime=2006-01-02"`
}

type evaluationInput struct {
	Title     string `label:"평가내용" validate:"required"`
	Type      string `label:"평가유형" validate:"required"`
	Team      string `label:"팀" validate:"required"`
	Assignee  string `label:"담당자" validate:"required"`
	Date      string `label:"날짜" validate:"required"`
	StartDate string `label:"시작일" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string `label:"마감일" validate:"omitempty,datetime=2006-01-02"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// Validate checks the required fields of r for its kind and returns a
// *ValidationError for the first one that is missing or malformed.
func Validate(r domain.Record) error {
	var input any
	date := domain.CoalesceStr(trim(r.StartDate), trim(r.DueDate))
	switch r.Kind {
	case domain.KindTask:
		input = taskInput{trim(r.Title), trim(r.Type), trim(r.Team), trim(r.Assignee), date, trim(r.StartDate), trim(r.DueDate)}
	case domain.KindKPI:
		input = kpiInput{trim(r.Title), trim(r.Category), trim(r.Team), trim(r.Assignee), date, trim(r.StartDate), trim(r.DueDate)}
	case domain.KindEvaluation:
		input = evaluationInput{trim(r.Title), trim(r.Type), trim(r.Team), trim(r.Assignee), date, trim(r.StartDate), trim(r.DueDate)}
	default:
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}

	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	return &ValidationError{Field: first.StructField(), Label: first.Field(), Tag: first.Tag()}
}

func trim(s string) string { return strings.TrimSpace(s) }
