package employee

import "hrms/internal/domain/registration"

// Employee is one persisted record. JSON names are the blob format.
type Employee struct {
	ID                    string  `json:"id"`
	FirstName             string  `json:"firstName"`
	Surname               string  `json:"surname"`
	DateOfBirth           string  `json:"dateOfBirth"`
	Gender                string  `json:"gender"`
	Position              string  `json:"position"`
	Department            string  `json:"department"`
	Salary                float64 `json:"salary"`
	StartDate             string  `json:"startDate"`
	Email                 string  `json:"email"`
	PhoneNumber           string  `json:"phoneNumber"`
	Address               string  `json:"address"`
	EmergencyContactName  string  `json:"emergencyContactName"`
	EmergencyContactPhone string  `json:"emergencyContactPhone"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.Surname
}

// FromDraft builds a record from wizard input. id may be empty for a new record.
func FromDraft(id string, d registration.Draft) Employee {
	return Employee{
		ID:                    id,
		FirstName:             d.FirstName,
		Surname:               d.Surname,
		DateOfBirth:           d.DateOfBirth,
		Gender:                d.Gender,
		Position:              d.Position,
		Department:            d.Department,
		Salary:                d.Salary,
		StartDate:             d.StartDate,
		Email:                 d.Email,
		PhoneNumber:           d.PhoneNumber,
		Address:               d.Address,
		EmergencyContactName:  d.EmergencyContactName,
		EmergencyContactPhone: d.EmergencyContactPhone,
	}
}

// Draft is the inverse of FromDraft, used to prefill the edit form.
func (e Employee) Draft() registration.Draft {
	return registration.Draft{
		FirstName:             e.FirstName,
		Surname:               e.Surname,
		DateOfBirth:           e.DateOfBirth,
		Gender:                e.Gender,
		Position:              e.Position,
		Department:            e.Department,
		Salary:                e.Salary,
		StartDate:             e.StartDate,
		Email:                 e.Email,
		PhoneNumber:           e.PhoneNumber,
		Address:               e.Address,
		EmergencyContactName:  e.EmergencyContactName,
		EmergencyContactPhone: e.EmergencyContactPhone,
	}
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// Summary feeds the dashboard card.
type Summary struct {
	Total       int               `json:"total"`
	Departments []DepartmentCount `json:"departments"`
}
