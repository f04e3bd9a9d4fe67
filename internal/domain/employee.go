package domain

import "time"

// EmploymentStatus represents the employment lifecycle of an employee.
type EmploymentStatus string

// Possible employment statuses.
const (
	EmploymentActive   EmploymentStatus = "Active"
	EmploymentInactive EmploymentStatus = "Inactive"
)

// Department is an organizational unit that employees belong to.
type Department struct {
	ID   int
	Name string
}

// Employee is a single worker record. Created once at generation or load
// time, immutable thereafter.
type Employee struct {
	ID               int
	FirstName        string
	LastName         string
	Email            string
	DepartmentID     int
	HireDate         time.Time
	EmploymentStatus EmploymentStatus
}

// FullName returns the display name used in reports.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Validate checks the record against the data model.
func (e Employee) Validate() error {
	if e.ID <= 0 {
		return ErrValidation("employee: id must be positive, got %d", e.ID)
	}
	if e.DepartmentID <= 0 {
		return ErrValidation("employee %d: department_id must be positive", e.ID)
	}
	if e.HireDate.IsZero() {
		return ErrValidation("employee %d: hire_date is required", e.ID)
	}
	switch e.EmploymentStatus {
	case EmploymentActive, EmploymentInactive:
		return nil
	default:
		return ErrValidation("employee %d: unknown employment_status %q", e.ID, e.EmploymentStatus)
	}
}
