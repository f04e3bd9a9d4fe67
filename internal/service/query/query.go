// Package query is the fixed library of SQL aggregations the tracker runs
// against the registered tables. Every query is read-only and idempotent:
// the same snapshot and reference date always produce the same rows.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Service executes the aggregation library against one registered database.
type Service struct {
	db *sql.DB
}

// NewService creates a query Service over the registered tables.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// StatusCount is one row of the enrollment status summary.
type StatusCount struct {
	Status string
	Count  int
}

// StatusSummary counts enrollments per status, most common first.
func (s *Service) StatusSummary(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT enrollment_status, COUNT(*) AS ct
		FROM benefits_enrollment
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`)
	if err != nil {
		return nil, fmt.Errorf("status summary: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var r StatusCount
		if err := rows.Scan(&r.Status, &r.Count); err != nil {
			return nil, fmt.Errorf("status summary scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OverdueEnrollment is one lapsed election window.
type OverdueEnrollment struct {
	EmployeeID       int
	EmployeeName     string
	DepartmentName   string
	PlanID           int
	EnrollmentDate   time.Time
	ElectionDeadline time.Time
}

// Overdue lists enrollments whose election deadline has lapsed by more than
// the grace period without the employee being Enrolled, earliest deadline
// first.
func (s *Service) Overdue(ctx context.Context, asOf time.Time, graceDays int) ([]OverdueEnrollment, error) {
	cutoff := asOf.AddDate(0, 0, -graceDays).Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       d.department_name, be.plan_id, be.enrollment_date, be.election_deadline
		FROM employees e
		JOIN benefits_enrollment be USING (employee_id)
		JOIN departments d ON e.department_id = d.department_id
		WHERE be.election_deadline < $1
		  AND be.enrollment_status <> 'Enrolled'
		ORDER BY be.election_deadline, e.employee_id, be.plan_id
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("overdue enrollments: %w", err)
	}
	defer rows.Close()

	var out []OverdueEnrollment
	for rows.Next() {
		var r OverdueEnrollment
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeName, &r.DepartmentName,
			&r.PlanID, &r.EnrollmentDate, &r.ElectionDeadline); err != nil {
			return nil, fmt.Errorf("overdue enrollments scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DepartmentStats is one row of the department overview.
type DepartmentStats struct {
	DepartmentName    string
	TotalEmployees    int
	EnrolledEmployees int
	EnrollmentRate    float64 // percent of employees with an Enrolled election, 2 decimals
	OpenExceptions    int
}

// DepartmentOverview rolls enrollment coverage and open exceptions up per
// department, best covered first. Departments without employees report a
// zero rate.
func (s *Service) DepartmentOverview(ctx context.Context) ([]DepartmentStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH enrolled AS (
		    SELECT DISTINCT employee_id
		    FROM benefits_enrollment
		    WHERE enrollment_status = 'Enrolled'
		)
		SELECT d.department_name,
		       COUNT(DISTINCT e.employee_id) AS total_employees,
		       COUNT(DISTINCT en.employee_id) AS enrolled_employees,
		       COALESCE(ROUND(COUNT(DISTINCT en.employee_id) * 100.0
		           / NULLIF(COUNT(DISTINCT e.employee_id), 0), 2), 0) AS enrollment_rate,
		       COUNT(DISTINCT CASE WHEN ce.resolution_status = 'Open' THEN ce.exception_id END) AS open_exceptions
		FROM departments d
		LEFT JOIN employees e ON d.department_id = e.department_id
		LEFT JOIN enrolled en ON e.employee_id = en.employee_id
		LEFT JOIN compliance_exceptions ce ON e.employee_id = ce.employee_id
		GROUP BY 1
		ORDER BY enrollment_rate DESC, d.department_name
	`)
	if err != nil {
		return nil, fmt.Errorf("department overview: %w", err)
	}
	defer rows.Close()

	var out []DepartmentStats
	for rows.Next() {
		var r DepartmentStats
		if err := rows.Scan(&r.DepartmentName, &r.TotalEmployees, &r.EnrolledEmployees,
			&r.EnrollmentRate, &r.OpenExceptions); err != nil {
			return nil, fmt.Errorf("department overview scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExceptionGroup is one exception type/status bucket.
type ExceptionGroup struct {
	Type       string
	Status     string
	Severity   string
	Count      int
	OldestOpen *time.Time // earliest exception_date among still-open rows, nil when none
}

// ExceptionTracking buckets exceptions by type, status, and severity, and
// surfaces the oldest still-open date per bucket.
func (s *Service) ExceptionTracking(ctx context.Context) ([]ExceptionGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exception_type, resolution_status, severity_level,
		       COUNT(*) AS ct,
		       MIN(CASE WHEN resolution_status = 'Open' THEN exception_date END) AS oldest_open
		FROM compliance_exceptions
		GROUP BY 1, 2, 3
		ORDER BY ct DESC, exception_type, resolution_status, severity_level
	`)
	if err != nil {
		return nil, fmt.Errorf("exception tracking: %w", err)
	}
	defer rows.Close()

	var out []ExceptionGroup
	for rows.Next() {
		var (
			r      ExceptionGroup
			oldest sql.NullTime
		)
		if err := rows.Scan(&r.Type, &r.Status, &r.Severity, &r.Count, &oldest); err != nil {
			return nil, fmt.Errorf("exception tracking scan: %w", err)
		}
		if oldest.Valid {
			t := oldest.Time
			r.OldestOpen = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UnenrolledEligible is an actively eligible employee without a single
// Enrolled election.
type UnenrolledEligible struct {
	EmployeeID     int
	EmployeeName   string
	DepartmentName string
	EligibleSince  time.Time
}

// EligibilityVerification lists employees who hold an active eligibility
// record but no Enrolled enrollment, the population most at risk of
// missing coverage.
func (s *Service) EligibilityVerification(ctx context.Context) ([]UnenrolledEligible, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       d.department_name, el.eligibility_start_date
		FROM employees e
		JOIN employee_eligibility el ON e.employee_id = el.employee_id AND el.is_active
		JOIN departments d ON e.department_id = d.department_id
		WHERE NOT EXISTS (
		    SELECT 1 FROM benefits_enrollment be
		    WHERE be.employee_id = e.employee_id
		      AND be.enrollment_status = 'Enrolled'
		)
		ORDER BY el.eligibility_start_date, e.employee_id
	`)
	if err != nil {
		return nil, fmt.Errorf("eligibility verification: %w", err)
	}
	defer rows.Close()

	var out []UnenrolledEligible
	for rows.Next() {
		var r UnenrolledEligible
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeName, &r.DepartmentName, &r.EligibleSince); err != nil {
			return nil, fmt.Errorf("eligibility verification scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
