package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func validDataset() *Dataset {
	return &Dataset{
		AsOf:        date(2026, 8, 1),
		Departments: []Department{{ID: 1, Name: "Engineering"}},
		Employees: []Employee{{
			ID: 1, FirstName: "Jane", LastName: "Smith", Email: "user1@example.com",
			DepartmentID: 1, HireDate: date(2020, 1, 6), EmploymentStatus: EmploymentActive,
		}},
		Plans: []BenefitPlan{{ID: 1, Name: "Basic Medical", Type: "Medical", PremiumCost: 300, EmployerContribution: 150}},
		Enrollments: []EnrollmentRecord{{
			ID: 1, EmployeeID: 1, PlanID: 1,
			EnrollmentDate:   date(2026, 5, 1),
			ElectionDeadline: date(2026, 5, 31),
			PlanStartDate:    datePtr(2026, 6, 30),
			Status:           EnrollmentEnrolled,
		}},
		Eligibility: []EligibilityRecord{{
			ID: 1, EmployeeID: 1, StartDate: date(2020, 1, 6),
			BenefitCategory: "All_Benefits", Active: true,
		}},
		Exceptions: []ExceptionRecord{{
			ID: 1, EmployeeID: 1, Type: "Late Election",
			OpenedDate: date(2026, 7, 1), Severity: SeverityHigh,
			Status: ExceptionResolved, ResolvedDate: datePtr(2026, 7, 10),
		}},
	}
}

func TestDatasetValidateOK(t *testing.T) {
	require.NoError(t, validDataset().Validate())
}

func TestDatasetValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Dataset)
	}{
		{"missing reference date", func(d *Dataset) { d.AsOf = time.Time{} }},
		{"unknown department", func(d *Dataset) { d.Employees[0].DepartmentID = 99 }},
		{"duplicate employee id", func(d *Dataset) { d.Employees = append(d.Employees, d.Employees[0]) }},
		{"enrollment for unknown employee", func(d *Dataset) { d.Enrollments[0].EmployeeID = 99 }},
		{"enrollment for unknown plan", func(d *Dataset) { d.Enrollments[0].PlanID = 99 }},
		{"deadline before enrollment date", func(d *Dataset) {
			d.Enrollments[0].ElectionDeadline = date(2026, 4, 1)
		}},
		{"plan start before enrollment date", func(d *Dataset) {
			d.Enrollments[0].PlanStartDate = datePtr(2026, 4, 1)
		}},
		{"bad enrollment status", func(d *Dataset) { d.Enrollments[0].Status = "Maybe" }},
		{"eligibility end before start", func(d *Dataset) {
			d.Eligibility[0].EndDate = datePtr(2019, 1, 1)
		}},
		{"exception for unknown employee", func(d *Dataset) { d.Exceptions[0].EmployeeID = 99 }},
		{"resolved without resolved date", func(d *Dataset) { d.Exceptions[0].ResolvedDate = nil }},
		{"resolved before opened", func(d *Dataset) {
			d.Exceptions[0].ResolvedDate = datePtr(2026, 6, 1)
		}},
		{"bad severity", func(d *Dataset) { d.Exceptions[0].Severity = "Huge" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := validDataset()
			tt.mutate(ds)
			err := ds.Validate()
			require.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestEnrollmentOverdue(t *testing.T) {
	rec := EnrollmentRecord{
		ID: 1, EmployeeID: 1, PlanID: 1,
		EnrollmentDate:   date(2026, 5, 1),
		ElectionDeadline: date(2026, 5, 31),
		Status:           EnrollmentPending,
	}

	assert.False(t, rec.Overdue(date(2026, 5, 31), 0), "deadline day itself is not overdue")
	assert.True(t, rec.Overdue(date(2026, 6, 1), 0))
	assert.False(t, rec.Overdue(date(2026, 6, 1), 1), "grace period extends the deadline")
	assert.True(t, rec.Overdue(date(2026, 6, 2), 1))

	rec.Status = EnrollmentEnrolled
	assert.False(t, rec.Overdue(date(2026, 6, 1), 0), "enrolled is never overdue")

	rec.Status = EnrollmentDeclined
	assert.True(t, rec.Overdue(date(2026, 6, 1), 0), "declined past deadline counts as overdue")
}
