package domain

import "time"

// EligibilityRecord states when and for what benefit category an employee is
// eligible. An employee with an active record is an "eligible employee" for
// every rate computation.
type EligibilityRecord struct {
	ID              int
	EmployeeID      int
	StartDate       time.Time
	EndDate         *time.Time
	BenefitCategory string
	Active          bool
}

// Validate checks the record against the data model.
func (r EligibilityRecord) Validate() error {
	if r.ID <= 0 {
		return ErrValidation("eligibility: id must be positive, got %d", r.ID)
	}
	if r.EmployeeID <= 0 {
		return ErrValidation("eligibility %d: employee_id must be positive", r.ID)
	}
	if r.StartDate.IsZero() {
		return ErrValidation("eligibility %d: eligibility_start_date is required", r.ID)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ErrValidation("eligibility %d: eligibility_end_date precedes start date", r.ID)
	}
	return nil
}
