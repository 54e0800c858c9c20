package registration

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		}); err != nil {
			panic("registration: register date rule: " + err.Error())
		}
		validate = v
	})
	return validate
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ValidateStep checks only the fields owned by step.
func ValidateStep(step Step, d Draft) []Issue {
	fields, ok := stepFields[step]
	if !ok {
		return []Issue{{Field: "step", Reason: "unknown step"}}
	}
	return toIssues(engine().StructPartial(d, fields...))
}

// ValidateAll checks every step, as the final submit does.
func ValidateAll(d Draft) []Issue {
	return toIssues(engine().Struct(d))
}

// Check wraps ValidateAll issues in a *ValidationError, or returns nil.
func Check(d Draft) error {
	if issues := ValidateAll(d); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func toIssues(err error) []Issue {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Field: "", Reason: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Field: fe.Field(), Reason: reason(fe)})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field == issues[j].Field {
			return issues[i].Reason < issues[j].Reason
		}
		return issues[i].Field < issues[j].Field
	})
	return issues
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "gt":
		return "must be a positive number"
	case "date":
		return "must be a valid date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}
