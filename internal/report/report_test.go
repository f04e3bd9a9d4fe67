package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/gen"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/kpi"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/query"
)

var asOf = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func newTestEmitter(t *testing.T) (*Emitter, string, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	reportsDir := filepath.Join(root, "reports")
	e, err := NewEmitter(dataDir, reportsDir)
	require.NoError(t, err)
	return e, dataDir, reportsDir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewEmitterCreatesDirectories(t *testing.T) {
	_, dataDir, reportsDir := newTestEmitter(t)
	for _, dir := range []string{dataDir, reportsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestNewEmitterFailsOnUnwritablePath(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewEmitter(filepath.Join(blocker, "data"), filepath.Join(root, "reports"))
	require.Error(t, err)
}

func TestWriteDatasetRoundTripHeaders(t *testing.T) {
	e, dataDir, _ := newTestEmitter(t)
	ds, err := gen.Generate(gen.Options{Seed: 42, Employees: 25, Exceptions: 5, AsOf: asOf})
	require.NoError(t, err)

	require.NoError(t, e.WriteDataset(ds))

	rows := readCSV(t, filepath.Join(dataDir, "employees_data.csv"))
	require.Len(t, rows, 26, "header plus one row per employee")
	assert.Equal(t,
		[]string{"employee_id", "first_name", "last_name", "email", "department_id", "hire_date", "employment_status"},
		rows[0])

	rows = readCSV(t, filepath.Join(dataDir, "enrollment_data.csv"))
	assert.Equal(t, len(ds.Enrollments)+1, len(rows))

	for _, name := range []string{
		"departments_data.csv", "plans_data.csv", "eligibility_data.csv", "exceptions_data.csv",
	} {
		_, err := os.Stat(filepath.Join(dataDir, name))
		assert.NoError(t, err, name)
	}
}

func TestWriteKPIs(t *testing.T) {
	e, dataDir, _ := newTestEmitter(t)

	require.NoError(t, e.WriteKPIs(kpi.Summary{
		EnrollmentRate:          99.16,
		ExceptionResolutionRate: 35,
		DeadlineAdherenceRate:   75,
		ComplianceScore:         69.72,
		PendingEnrollments:      12,
		OpenExceptions:          13,
		OverdueEnrollments:      9,
	}))

	rows := readCSV(t, filepath.Join(dataDir, "kpis.csv"))
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"metric", "value"}, rows[0])
	assert.Equal(t, []string{"Enrollment Rate", "99.16"}, rows[1])
	assert.Equal(t, []string{"Exception Resolution Rate", "35.00"}, rows[2])
	assert.Equal(t, []string{"Overall Compliance Score", "69.72"}, rows[4])
	assert.Equal(t, []string{"Open Exceptions", "13"}, rows[6])
}

func TestWriteQueryArtifacts(t *testing.T) {
	e, dataDir, _ := newTestEmitter(t)

	require.NoError(t, e.WriteStatusSummary([]query.StatusCount{
		{Status: "Enrolled", Count: 80}, {Status: "Pending", Count: 15},
	}))
	require.NoError(t, e.WriteOverdue([]query.OverdueEnrollment{{
		EmployeeID: 2, EmployeeName: "Bob Jones", DepartmentName: "Engineering",
		PlanID: 1, EnrollmentDate: asOf.AddDate(0, 0, -90), ElectionDeadline: asOf.AddDate(0, 0, -60),
	}}))
	require.NoError(t, e.WriteDepartmentOverview([]query.DepartmentStats{{
		DepartmentName: "Engineering", TotalEmployees: 2, EnrolledEmployees: 1,
		EnrollmentRate: 50, OpenExceptions: 1,
	}}))
	require.NoError(t, e.WriteExceptionTracking([]query.ExceptionGroup{{
		Type: "Late Election", Status: "Open", Severity: "High", Count: 2,
	}}))
	require.NoError(t, e.WriteEligibilityVerification([]query.UnenrolledEligible{{
		EmployeeID: 3, EmployeeName: "Carol Davis", DepartmentName: "Sales", EligibleSince: asOf.AddDate(-1, 0, 0),
	}}))

	rows := readCSV(t, filepath.Join(dataDir, "enrollment_status_summary.csv"))
	assert.Equal(t, []string{"Enrolled", "80"}, rows[1])

	rows = readCSV(t, filepath.Join(dataDir, "overdue_enrollments.csv"))
	assert.Equal(t, "Bob Jones", rows[1][1])
	assert.Equal(t, "2026-06-02", rows[1][5])

	rows = readCSV(t, filepath.Join(dataDir, "department_overview.csv"))
	assert.Equal(t, "50.00", rows[1][3])

	rows = readCSV(t, filepath.Join(dataDir, "exception_tracking.csv"))
	assert.Equal(t, []string{"Late Election", "Open", "High", "2", ""}, rows[1])

	rows = readCSV(t, filepath.Join(dataDir, "eligibility_verification.csv"))
	assert.Equal(t, "Carol Davis", rows[1][1])
}

func TestWriteDepartmentBreakdown(t *testing.T) {
	e, dataDir, _ := newTestEmitter(t)

	require.NoError(t, e.WriteDepartmentBreakdown([]kpi.DepartmentSummary{
		{Department: "Engineering", Summary: kpi.Summary{EnrollmentRate: 50, ComplianceScore: 41.67, EligibleEmployees: 2, EnrolledEmployees: 1}},
		{Department: "Sales", Summary: kpi.Summary{}},
	}))

	rows := readCSV(t, filepath.Join(dataDir, "department_breakdown.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "Engineering", rows[1][0])
	assert.Equal(t, "41.67", rows[1][4])
	assert.Equal(t, "0.00", rows[2][1])
}

func TestWriteReport(t *testing.T) {
	e, _, reportsDir := newTestEmitter(t)

	require.NoError(t, e.WriteReport(ReportData{
		RunID: "test-run",
		AsOf:  asOf,
		Overall: kpi.Summary{
			EnrollmentRate: 99.16, ExceptionResolutionRate: 35,
			DeadlineAdherenceRate: 75, ComplianceScore: 69.72,
			PendingEnrollments: 12, OpenExceptions: 13,
		},
		Breakdown: []kpi.DepartmentSummary{{Department: "Engineering", Summary: kpi.Summary{ComplianceScore: 55}}},
		Statuses:  []query.StatusCount{{Status: "Enrolled", Count: 80}},
		Overview:  []query.DepartmentStats{{DepartmentName: "Engineering", TotalEmployees: 2, EnrolledEmployees: 1, EnrollmentRate: 50}},
	}))

	data, err := os.ReadFile(filepath.Join(reportsDir, ReportFile))
	require.NoError(t, err)
	page := string(data)

	assert.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, "Employee Benefits Compliance Tracker")
	assert.Contains(t, page, "99.16%")
	assert.Contains(t, page, "69.72%")
	assert.Contains(t, page, "Engineering")
	assert.Contains(t, page, "No overdue enrollments.")
	assert.Contains(t, page, "test-run")
}

func TestWriteReportTruncatesOverdueList(t *testing.T) {
	e, _, reportsDir := newTestEmitter(t)

	overdue := make([]query.OverdueEnrollment, 40)
	for i := range overdue {
		overdue[i] = query.OverdueEnrollment{
			EmployeeID: i + 1, EmployeeName: "Sam Jones", DepartmentName: "Operations",
			PlanID: 1, EnrollmentDate: asOf.AddDate(0, 0, -90), ElectionDeadline: asOf.AddDate(0, 0, -60),
		}
	}
	require.NoError(t, e.WriteReport(ReportData{RunID: "x", AsOf: asOf, Overdue: overdue}))

	data, err := os.ReadFile(filepath.Join(reportsDir, ReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Showing 25 of 40")
}

func TestWriteCharts(t *testing.T) {
	e, _, reportsDir := newTestEmitter(t)

	require.NoError(t, e.WriteStatusChart([]query.StatusCount{
		{Status: "Enrolled", Count: 80}, {Status: "Pending", Count: 15}, {Status: "Declined", Count: 5},
	}))
	require.NoError(t, e.WriteDeptChart([]query.DepartmentStats{
		{DepartmentName: "Engineering", EnrollmentRate: 82.5},
		{DepartmentName: "Sales", EnrollmentRate: 60},
	}))

	pie, err := os.ReadFile(filepath.Join(reportsDir, StatusChartFile))
	require.NoError(t, err)
	assert.Contains(t, string(pie), "<svg")
	assert.Contains(t, string(pie), "Enrolled")
	assert.Contains(t, string(pie), "80")

	bar, err := os.ReadFile(filepath.Join(reportsDir, DeptChartFile))
	require.NoError(t, err)
	assert.Contains(t, string(bar), "<svg")
	assert.Contains(t, string(bar), "Engineering")
	assert.Contains(t, string(bar), "82.50%")
}

func TestWriteChartsEmptyInputs(t *testing.T) {
	e, _, reportsDir := newTestEmitter(t)

	require.NoError(t, e.WriteStatusChart(nil))
	require.NoError(t, e.WriteDeptChart(nil))

	pie, err := os.ReadFile(filepath.Join(reportsDir, StatusChartFile))
	require.NoError(t, err)
	assert.Contains(t, string(pie), "No enrollments to chart.")
}

func TestWriteSingleSliceChartIsFullCircle(t *testing.T) {
	e, _, reportsDir := newTestEmitter(t)

	require.NoError(t, e.WriteStatusChart([]query.StatusCount{{Status: "Enrolled", Count: 10}}))
	pie, err := os.ReadFile(filepath.Join(reportsDir, StatusChartFile))
	require.NoError(t, err)
	assert.Contains(t, string(pie), "<circle")
}
