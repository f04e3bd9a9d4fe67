package domain

import "time"

// EnrollmentStatus represents the lifecycle of a benefits enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentEnrolled EnrollmentStatus = "Enrolled"
	EnrollmentPending  EnrollmentStatus = "Pending"
	EnrollmentDeclined EnrollmentStatus = "Declined"
)

// EnrollmentRecord is one employee's election for one benefit plan.
//
// PlanStartDate is set only once the election is Enrolled. The election
// deadline always exists: every enrollment opens a 30-day election window.
type EnrollmentRecord struct {
	ID               int
	EmployeeID       int
	PlanID           int
	EnrollmentDate   time.Time
	ElectionDeadline time.Time
	PlanStartDate    *time.Time
	Status           EnrollmentStatus
}

// Overdue reports whether the election window has lapsed without the
// employee completing enrollment. asOf is the reference date of the run and
// graceDays extends the deadline.
func (r EnrollmentRecord) Overdue(asOf time.Time, graceDays int) bool {
	if r.Status == EnrollmentEnrolled {
		return false
	}
	return r.ElectionDeadline.AddDate(0, 0, graceDays).Before(truncateToDay(asOf))
}

// Validate checks the record against the data model.
func (r EnrollmentRecord) Validate() error {
	if r.ID <= 0 {
		return ErrValidation("enrollment: id must be positive, got %d", r.ID)
	}
	if r.EmployeeID <= 0 {
		return ErrValidation("enrollment %d: employee_id must be positive", r.ID)
	}
	if r.PlanID <= 0 {
		return ErrValidation("enrollment %d: plan_id must be positive", r.ID)
	}
	if r.EnrollmentDate.IsZero() {
		return ErrValidation("enrollment %d: enrollment_date is required", r.ID)
	}
	if r.ElectionDeadline.IsZero() {
		return ErrValidation("enrollment %d: election_deadline is required", r.ID)
	}
	if r.ElectionDeadline.Before(r.EnrollmentDate) {
		return ErrValidation("enrollment %d: election_deadline precedes enrollment_date", r.ID)
	}
	if r.PlanStartDate != nil && r.PlanStartDate.Before(r.EnrollmentDate) {
		return ErrValidation("enrollment %d: plan_start_date precedes enrollment_date", r.ID)
	}
	switch r.Status {
	case EnrollmentEnrolled, EnrollmentPending, EnrollmentDeclined:
		return nil
	default:
		return ErrValidation("enrollment %d: unknown status %q", r.ID, r.Status)
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
