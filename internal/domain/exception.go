package domain

import "time"

// ExceptionStatus represents the resolution state of a compliance exception.
type ExceptionStatus string

// Possible exception statuses.
const (
	ExceptionOpen     ExceptionStatus = "Open"
	ExceptionResolved ExceptionStatus = "Resolved"
)

// Severity grades how urgent a compliance exception is.
type Severity string

// Possible severity levels.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ExceptionRecord is a flagged compliance deviation requiring resolution.
//
// Invariant: a Resolved exception always carries a resolved date on or after
// the date it was opened.
type ExceptionRecord struct {
	ID           int
	EmployeeID   int
	Type         string
	OpenedDate   time.Time
	Severity     Severity
	Status       ExceptionStatus
	ResolvedDate *time.Time
}

// Validate checks the record against the data model.
func (r ExceptionRecord) Validate() error {
	if r.ID <= 0 {
		return ErrValidation("exception: id must be positive, got %d", r.ID)
	}
	if r.EmployeeID <= 0 {
		return ErrValidation("exception %d: employee_id must be positive", r.ID)
	}
	if r.Type == "" {
		return ErrValidation("exception %d: exception_type is required", r.ID)
	}
	if r.OpenedDate.IsZero() {
		return ErrValidation("exception %d: exception_date is required", r.ID)
	}
	switch r.Severity {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
	default:
		return ErrValidation("exception %d: unknown severity_level %q", r.ID, r.Severity)
	}
	switch r.Status {
	case ExceptionOpen:
		return nil
	case ExceptionResolved:
		if r.ResolvedDate == nil {
			return ErrValidation("exception %d: resolved without resolved_date", r.ID)
		}
		if r.ResolvedDate.Before(r.OpenedDate) {
			return ErrValidation("exception %d: resolved_date precedes exception_date", r.ID)
		}
		return nil
	default:
		return ErrValidation("exception %d: unknown resolution_status %q", r.ID, r.Status)
	}
}
