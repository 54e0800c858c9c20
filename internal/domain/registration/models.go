package registration

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one page of the three-page registration form.
type Step int

const (
	StepPersonal Step = iota + 1
	StepJob
	StepContact
)

const (
	FirstStep = StepPersonal
	LastStep  = StepContact
)

var stepNames = map[Step]string{
	StepPersonal: "personal",
	StepJob:      "job",
	StepContact:  "contact",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// ParseStep accepts a step number ("1".."3") or name ("personal", "job", "contact").
func ParseStep(raw string) (Step, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(raw); err == nil {
		if step := Step(n); step.Valid() {
			return step, nil
		}
		return 0, fmt.Errorf("unknown step %q", raw)
	}
	for step, name := range stepNames {
		if name == raw {
			return step, nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", raw)
}

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

var Genders = []string{GenderMale, GenderFemale, GenderOther}

// Draft is the form payload collected across the three steps. It carries
// every employee field except the identifier.
type Draft struct {
	FirstName   string `json:"firstName" validate:"min=2"`
	Surname     string `json:"surname" validate:"min=2"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,date"`
	Gender      string `json:"gender" validate:"oneof=Male Female Other"`

	Position   string  `json:"position" validate:"min=2"`
	Department string  `json:"department" validate:"min=2"`
	Salary     float64 `json:"salary" validate:"gt=0"`
	StartDate  string  `json:"startDate" validate:"required,date"`

	Email                 string `json:"email" validate:"required,email"`
	PhoneNumber           string `json:"phoneNumber" validate:"min=10"`
	Address               string `json:"address" validate:"min=5"`
	EmergencyContactName  string `json:"emergencyContactName" validate:"min=2"`
	EmergencyContactPhone string `json:"emergencyContactPhone" validate:"min=10"`
}

// stepFields lists the struct fields each step owns.
var stepFields = map[Step][]string{
	StepPersonal: {"FirstName", "Surname", "DateOfBirth", "Gender"},
	StepJob:      {"Position", "Department", "Salary", "StartDate"},
	StepContact:  {"Email", "PhoneNumber", "Address", "EmergencyContactName", "EmergencyContactPhone"},
}

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every field that failed. It is returned before any
// record is written.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
