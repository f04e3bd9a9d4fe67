// Package report writes the run artifacts: CSV files per table and query,
// the HTML summary report, and the standalone charts.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/kpi"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/query"
)

const dateLayout = "2006-01-02"

// Emitter writes artifacts below a data directory and a reports directory.
type Emitter struct {
	dataDir    string
	reportsDir string
}

// NewEmitter creates both output directories. A directory that cannot be
// created is fatal for the run.
func NewEmitter(dataDir, reportsDir string) (*Emitter, error) {
	for _, dir := range []string{dataDir, reportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return &Emitter{dataDir: dataDir, reportsDir: reportsDir}, nil
}

// DataDir returns the directory table and query CSVs are written to.
func (e *Emitter) DataDir() string { return e.dataDir }

// ReportsDir returns the directory HTML artifacts are written to.
func (e *Emitter) ReportsDir() string { return e.reportsDir }

func (e *Emitter) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(e.dataDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteDataset exports the six input tables, one CSV each, using the same
// file names and column headers the loader accepts.
func (e *Emitter) WriteDataset(ds *domain.Dataset) error {
	rows := make([][]string, 0, len(ds.Departments))
	for _, d := range ds.Departments {
		rows = append(rows, []string{strconv.Itoa(d.ID), d.Name})
	}
	if err := e.writeCSV("departments_data.csv",
		[]string{"department_id", "department_name"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, emp := range ds.Employees {
		rows = append(rows, []string{
			strconv.Itoa(emp.ID), emp.FirstName, emp.LastName, emp.Email,
			strconv.Itoa(emp.DepartmentID), emp.HireDate.Format(dateLayout),
			string(emp.EmploymentStatus),
		})
	}
	if err := e.writeCSV("employees_data.csv",
		[]string{"employee_id", "first_name", "last_name", "email", "department_id", "hire_date", "employment_status"},
		rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, p := range ds.Plans {
		rows = append(rows, []string{
			strconv.Itoa(p.ID), p.Name, p.Type,
			formatFloat(p.PremiumCost), formatFloat(p.EmployerContribution),
		})
	}
	if err := e.writeCSV("plans_data.csv",
		[]string{"plan_id", "plan_name", "plan_type", "premium_cost", "employer_contribution"},
		rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range ds.Enrollments {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), strconv.Itoa(r.EmployeeID), strconv.Itoa(r.PlanID),
			r.EnrollmentDate.Format(dateLayout), r.ElectionDeadline.Format(dateLayout),
			formatDate(r.PlanStartDate), string(r.Status),
		})
	}
	if err := e.writeCSV("enrollment_data.csv",
		[]string{"enrollment_id", "employee_id", "plan_id", "enrollment_date", "election_deadline", "plan_start_date", "enrollment_status"},
		rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range ds.Eligibility {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), strconv.Itoa(r.EmployeeID),
			r.StartDate.Format(dateLayout), formatDate(r.EndDate),
			r.BenefitCategory, strconv.FormatBool(r.Active),
		})
	}
	if err := e.writeCSV("eligibility_data.csv",
		[]string{"eligibility_id", "employee_id", "eligibility_start_date", "eligibility_end_date", "benefit_category", "is_active"},
		rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range ds.Exceptions {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), strconv.Itoa(r.EmployeeID), r.Type,
			r.OpenedDate.Format(dateLayout), string(r.Severity),
			string(r.Status), formatDate(r.ResolvedDate),
		})
	}
	return e.writeCSV("exceptions_data.csv",
		[]string{"exception_id", "employee_id", "exception_type", "exception_date", "severity_level", "resolution_status", "resolved_date"},
		rows)
}

// WriteStatusSummary exports the enrollment status counts.
func (e *Emitter) WriteStatusSummary(counts []query.StatusCount) error {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Status, strconv.Itoa(c.Count)})
	}
	return e.writeCSV("enrollment_status_summary.csv", []string{"enrollment_status", "ct"}, rows)
}

// WriteOverdue exports the overdue enrollment listing.
func (e *Emitter) WriteOverdue(overdue []query.OverdueEnrollment) error {
	rows := make([][]string, 0, len(overdue))
	for _, o := range overdue {
		rows = append(rows, []string{
			strconv.Itoa(o.EmployeeID), o.EmployeeName, o.DepartmentName,
			strconv.Itoa(o.PlanID), o.EnrollmentDate.Format(dateLayout),
			o.ElectionDeadline.Format(dateLayout),
		})
	}
	return e.writeCSV("overdue_enrollments.csv",
		[]string{"employee_id", "employee_name", "department_name", "plan_id", "enrollment_date", "election_deadline"},
		rows)
}

// WriteDepartmentOverview exports the department rollup.
func (e *Emitter) WriteDepartmentOverview(stats []query.DepartmentStats) error {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.DepartmentName, strconv.Itoa(s.TotalEmployees), strconv.Itoa(s.EnrolledEmployees),
			formatPercent(s.EnrollmentRate), strconv.Itoa(s.OpenExceptions),
		})
	}
	return e.writeCSV("department_overview.csv",
		[]string{"department_name", "total_employees", "enrolled_employees", "enrollment_rate", "open_exceptions"},
		rows)
}

// WriteExceptionTracking exports the exception buckets.
func (e *Emitter) WriteExceptionTracking(groups []query.ExceptionGroup) error {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		oldest := ""
		if g.OldestOpen != nil {
			oldest = g.OldestOpen.Format(dateLayout)
		}
		rows = append(rows, []string{g.Type, g.Status, g.Severity, strconv.Itoa(g.Count), oldest})
	}
	return e.writeCSV("exception_tracking.csv",
		[]string{"exception_type", "resolution_status", "severity_level", "ct", "oldest_open"},
		rows)
}

// WriteEligibilityVerification exports eligible-but-unenrolled employees.
func (e *Emitter) WriteEligibilityVerification(eligible []query.UnenrolledEligible) error {
	rows := make([][]string, 0, len(eligible))
	for _, r := range eligible {
		rows = append(rows, []string{
			strconv.Itoa(r.EmployeeID), r.EmployeeName, r.DepartmentName,
			r.EligibleSince.Format(dateLayout),
		})
	}
	return e.writeCSV("eligibility_verification.csv",
		[]string{"employee_id", "employee_name", "department_name", "eligibility_start_date"},
		rows)
}

// WriteKPIs exports the scalar metrics, one metric per row.
func (e *Emitter) WriteKPIs(s kpi.Summary) error {
	rows := [][]string{
		{"Enrollment Rate", formatPercent(s.EnrollmentRate)},
		{"Exception Resolution Rate", formatPercent(s.ExceptionResolutionRate)},
		{"Deadline Adherence Rate", formatPercent(s.DeadlineAdherenceRate)},
		{"Overall Compliance Score", formatPercent(s.ComplianceScore)},
		{"Pending Enrollments", strconv.Itoa(s.PendingEnrollments)},
		{"Open Exceptions", strconv.Itoa(s.OpenExceptions)},
		{"Overdue Enrollments", strconv.Itoa(s.OverdueEnrollments)},
	}
	return e.writeCSV("kpis.csv", []string{"metric", "value"}, rows)
}

// WriteDepartmentBreakdown exports the per-department metric sets.
func (e *Emitter) WriteDepartmentBreakdown(breakdown []kpi.DepartmentSummary) error {
	rows := make([][]string, 0, len(breakdown))
	for _, d := range breakdown {
		rows = append(rows, []string{
			d.Department,
			formatPercent(d.EnrollmentRate), formatPercent(d.ExceptionResolutionRate),
			formatPercent(d.DeadlineAdherenceRate), formatPercent(d.ComplianceScore),
			strconv.Itoa(d.EligibleEmployees), strconv.Itoa(d.EnrolledEmployees),
			strconv.Itoa(d.OpenExceptions),
		})
	}
	return e.writeCSV("department_breakdown.csv",
		[]string{"department_name", "enrollment_rate", "exception_resolution_rate", "deadline_adherence_rate", "compliance_score", "eligible_employees", "enrolled_employees", "open_exceptions"},
		rows)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
