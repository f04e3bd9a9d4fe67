package kpi

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/gen"
)

var asOf = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// fixture builds a single-department dataset with the given counts.
// enrolled employees each carry one Enrolled election; overdue adds Pending
// elections with lapsed deadlines on top.
func fixture(t *testing.T, eligible, enrolled, overdue, exceptions, resolved int) *domain.Dataset {
	t.Helper()
	require.LessOrEqual(t, enrolled, eligible)
	require.LessOrEqual(t, resolved, exceptions)

	ds := &domain.Dataset{
		AsOf:        asOf,
		Departments: []domain.Department{{ID: 1, Name: "Operations"}},
		Plans:       []domain.BenefitPlan{{ID: 1, Name: "Basic Medical", Type: "Medical"}},
	}

	for i := 1; i <= eligible; i++ {
		ds.Employees = append(ds.Employees, domain.Employee{
			ID: i, FirstName: "Sam", LastName: "Jones", Email: fmt.Sprintf("user%d@example.com", i),
			DepartmentID: 1, HireDate: asOf.AddDate(-1, 0, 0), EmploymentStatus: domain.EmploymentActive,
		})
		ds.Eligibility = append(ds.Eligibility, domain.EligibilityRecord{
			ID: i, EmployeeID: i, StartDate: asOf.AddDate(-1, 0, 0),
			BenefitCategory: "All_Benefits", Active: true,
		})
	}

	nextID := 1
	for i := 1; i <= enrolled; i++ {
		start := asOf.AddDate(0, 0, -30)
		ds.Enrollments = append(ds.Enrollments, domain.EnrollmentRecord{
			ID: nextID, EmployeeID: i, PlanID: 1,
			EnrollmentDate:   asOf.AddDate(0, 0, -90),
			ElectionDeadline: asOf.AddDate(0, 0, -60),
			PlanStartDate:    &start,
			Status:           domain.EnrollmentEnrolled,
		})
		nextID++
	}
	for i := 1; i <= overdue; i++ {
		ds.Enrollments = append(ds.Enrollments, domain.EnrollmentRecord{
			ID: nextID, EmployeeID: 1 + (i-1)%eligible, PlanID: 1,
			EnrollmentDate:   asOf.AddDate(0, 0, -90),
			ElectionDeadline: asOf.AddDate(0, 0, -60),
			Status:           domain.EnrollmentPending,
		})
		nextID++
	}

	for i := 1; i <= exceptions; i++ {
		rec := domain.ExceptionRecord{
			ID: i, EmployeeID: 1 + (i-1)%eligible, Type: "Late Election",
			OpenedDate: asOf.AddDate(0, 0, -10), Severity: domain.SeverityMedium,
			Status: domain.ExceptionOpen,
		}
		if i <= resolved {
			resolvedAt := asOf.AddDate(0, 0, -5)
			rec.Status = domain.ExceptionResolved
			rec.ResolvedDate = &resolvedAt
		}
		ds.Exceptions = append(ds.Exceptions, rec)
	}

	require.NoError(t, ds.Validate())
	return ds
}

func mustCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultWeights, 0)
	require.NoError(t, err)
	return c
}

func TestRateZeroDenominator(t *testing.T) {
	assert.Zero(t, Rate(0, 0))
	assert.Zero(t, Rate(5, 0), "a zero denominator is defined as 0, not an error")
}

func TestRateRounding(t *testing.T) {
	assert.Equal(t, 35.00, Rate(7, 20))
	assert.Equal(t, 33.33, Rate(1, 3))
	assert.Equal(t, 66.67, Rate(2, 3))
	assert.Equal(t, 100.0, Rate(3, 3))
}

func TestExceptionResolutionRateKnownCounts(t *testing.T) {
	// 20 exceptions, 7 resolved.
	ds := fixture(t, 10, 5, 0, 20, 7)
	s := mustCalculator(t).Summarize(ds)

	assert.Equal(t, 35.00, s.ExceptionResolutionRate)
	assert.Equal(t, 20, s.TotalExceptions)
	assert.Equal(t, 7, s.ResolvedExceptions)
	assert.Equal(t, 13, s.OpenExceptions)
}

func TestSummarizeEmptyDataset(t *testing.T) {
	ds := &domain.Dataset{AsOf: asOf}
	require.NoError(t, ds.Validate())

	s := mustCalculator(t).Summarize(ds)
	assert.Zero(t, s.EnrollmentRate)
	assert.Zero(t, s.ExceptionResolutionRate)
	assert.Zero(t, s.DeadlineAdherenceRate)
	assert.Zero(t, s.ComplianceScore)
}

func TestSummarizeKnownCounts(t *testing.T) {
	ds := fixture(t, 20, 15, 5, 20, 7)
	s := mustCalculator(t).Summarize(ds)

	assert.Equal(t, 75.00, s.EnrollmentRate)             // 15/20
	assert.Equal(t, 35.00, s.ExceptionResolutionRate)    // 7/20
	assert.Equal(t, 75.00, s.DeadlineAdherenceRate)      // (20-5)/20
	assert.InDelta(t, (75.0+35.0+75.0)/3, s.ComplianceScore, 0.005)
	assert.Equal(t, 5, s.OverdueEnrollments)
	assert.Equal(t, 5, s.PendingEnrollments)
}

func TestGracePeriodSuppressesOverdue(t *testing.T) {
	ds := fixture(t, 10, 5, 3, 0, 0)

	c, err := NewCalculator(DefaultWeights, 61) // deadlines lapsed 60 days ago
	require.NoError(t, err)
	s := c.Summarize(ds)

	assert.Zero(t, s.OverdueEnrollments)
	assert.Equal(t, 100.0, s.DeadlineAdherenceRate)
}

func TestEnrollmentRateLargePopulation(t *testing.T) {
	// 500 employees, 95% eligible, 471 of them enrolled.
	ds := fixture(t, 475, 471, 0, 0, 0)
	for i := 476; i <= 500; i++ {
		ds.Employees = append(ds.Employees, domain.Employee{
			ID: i, FirstName: "Sam", LastName: "Jones", Email: fmt.Sprintf("user%d@example.com", i),
			DepartmentID: 1, HireDate: asOf.AddDate(-1, 0, 0), EmploymentStatus: domain.EmploymentInactive,
		})
	}
	require.NoError(t, ds.Validate())

	s := mustCalculator(t).Summarize(ds)
	assert.Equal(t, 475, s.EligibleEmployees)
	assert.InDelta(t, 99.16, s.EnrollmentRate, 0.005, "471/475 within rounding tolerance")
}

func TestScoreBoundsAcrossDepartments(t *testing.T) {
	ds, err := gen.Generate(gen.Options{Seed: 42, Employees: 150, Exceptions: 20, AsOf: asOf})
	require.NoError(t, err)

	c := mustCalculator(t)
	overall := c.Summarize(ds)
	assert.GreaterOrEqual(t, overall.ComplianceScore, 0.0)
	assert.LessOrEqual(t, overall.ComplianceScore, 100.0)

	for _, d := range c.ByDepartment(ds) {
		assert.GreaterOrEqual(t, d.ComplianceScore, 0.0, d.Department)
		assert.LessOrEqual(t, d.ComplianceScore, 100.0, d.Department)
		for _, rate := range []float64{d.EnrollmentRate, d.ExceptionResolutionRate, d.DeadlineAdherenceRate} {
			assert.GreaterOrEqual(t, rate, 0.0, d.Department)
			assert.LessOrEqual(t, rate, 100.0, d.Department)
		}
	}
}

func TestDepartmentBreakdownReconcilesWithOverall(t *testing.T) {
	ds, err := gen.Generate(gen.Options{Seed: 42, Employees: 150, Exceptions: 20, AsOf: asOf})
	require.NoError(t, err)

	c := mustCalculator(t)
	overall := c.Summarize(ds)
	breakdown := c.ByDepartment(ds)

	var eligible, enrolled int
	var weighted float64
	for _, d := range breakdown {
		eligible += d.EligibleEmployees
		enrolled += d.EnrolledEmployees
		weighted += d.EnrollmentRate * float64(d.EligibleEmployees)
	}

	assert.Equal(t, overall.EligibleEmployees, eligible)
	assert.Equal(t, overall.EnrolledEmployees, enrolled)
	// Per-department rates are rounded, so the eligible-weighted mean only
	// reconciles within rounding tolerance.
	assert.InDelta(t, overall.EnrollmentRate, weighted/float64(eligible), 0.01)
}

func TestByDepartmentSortedByName(t *testing.T) {
	ds, err := gen.Generate(gen.Options{Seed: 42, Employees: 150, Exceptions: 20, AsOf: asOf})
	require.NoError(t, err)

	breakdown := mustCalculator(t).ByDepartment(ds)
	require.Len(t, breakdown, 5)
	for i := 1; i < len(breakdown); i++ {
		assert.Less(t, breakdown[i-1].Department, breakdown[i].Department)
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights.Validate())
	require.NoError(t, Weights{Enrollment: 0.5, ExceptionResolution: 0.25, DeadlineAdherence: 0.25}.Validate())

	assert.Error(t, Weights{Enrollment: 0.5, ExceptionResolution: 0.5, DeadlineAdherence: 0.5}.Validate())
	assert.Error(t, Weights{Enrollment: -0.5, ExceptionResolution: 1, DeadlineAdherence: 0.5}.Validate())
	assert.Error(t, Weights{}.Validate())
}

func TestCustomWeightsShiftScore(t *testing.T) {
	ds := fixture(t, 20, 15, 5, 20, 7)

	c, err := NewCalculator(Weights{Enrollment: 1, ExceptionResolution: 0, DeadlineAdherence: 0}, 0)
	require.NoError(t, err)
	s := c.Summarize(ds)
	assert.Equal(t, s.EnrollmentRate, s.ComplianceScore)
}

func TestNewCalculatorRejectsNegativeGrace(t *testing.T) {
	_, err := NewCalculator(DefaultWeights, -1)
	require.Error(t, err)
}
