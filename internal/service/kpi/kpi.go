// Package kpi derives the compliance metrics from a materialized dataset.
// Everything here is pure computation: no I/O, no clock reads, no state.
package kpi

import (
	"math"
	"sort"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
)

// Weights are the contribution of each rate to the overall compliance
// score. They must be non-negative and sum to 1.
type Weights struct {
	Enrollment          float64 `yaml:"enrollment"`
	ExceptionResolution float64 `yaml:"exception_resolution"`
	DeadlineAdherence   float64 `yaml:"deadline_adherence"`
}

// DefaultWeights weighs the three rates equally.
var DefaultWeights = Weights{
	Enrollment:          1.0 / 3.0,
	ExceptionResolution: 1.0 / 3.0,
	DeadlineAdherence:   1.0 / 3.0,
}

const weightSumTolerance = 1e-9

// Validate checks the weights form a convex combination.
func (w Weights) Validate() error {
	if w.Enrollment < 0 || w.ExceptionResolution < 0 || w.DeadlineAdherence < 0 {
		return domain.ErrValidation("compliance weights must not be negative: %+v", w)
	}
	sum := w.Enrollment + w.ExceptionResolution + w.DeadlineAdherence
	if math.Abs(sum-1) > weightSumTolerance {
		return domain.ErrValidation("compliance weights must sum to 1, got %v", sum)
	}
	return nil
}

// Summary holds the scalar compliance metrics for one population.
type Summary struct {
	EnrollmentRate          float64 // percent, 2 decimals
	ExceptionResolutionRate float64 // percent, 2 decimals
	DeadlineAdherenceRate   float64 // percent, 2 decimals
	ComplianceScore         float64 // weighted average of the three rates, 2 decimals

	EligibleEmployees  int
	EnrolledEmployees  int
	TotalEnrollments   int
	PendingEnrollments int
	OverdueEnrollments int
	TotalExceptions    int
	OpenExceptions     int
	ResolvedExceptions int
}

// DepartmentSummary is the metric set for one department.
type DepartmentSummary struct {
	Department string
	Summary
}

// Calculator computes summaries under a fixed weighting and grace period.
type Calculator struct {
	weights   Weights
	graceDays int
}

// NewCalculator validates the weights and returns a Calculator.
func NewCalculator(w Weights, graceDays int) (*Calculator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if graceDays < 0 {
		return nil, domain.ErrValidation("grace period must not be negative, got %d days", graceDays)
	}
	return &Calculator{weights: w, graceDays: graceDays}, nil
}

// Summarize computes the overall metric set for the dataset.
func (c *Calculator) Summarize(ds *domain.Dataset) Summary {
	return c.summarize(ds, nil)
}

// ByDepartment computes the metric set per department, sorted by name.
// Employees, enrollments, eligibility, and exceptions are attributed to the
// employee's department.
func (c *Calculator) ByDepartment(ds *domain.Dataset) []DepartmentSummary {
	empDept := ds.EmployeeDepartment()

	out := make([]DepartmentSummary, 0, len(ds.Departments))
	for _, dept := range ds.Departments {
		keep := func(employeeID int) bool { return empDept[employeeID] == dept.ID }
		out = append(out, DepartmentSummary{
			Department: dept.Name,
			Summary:    c.summarize(ds, keep),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// summarize computes the metrics over the subset of records whose employee
// passes keep. A nil keep means the whole population.
func (c *Calculator) summarize(ds *domain.Dataset, keep func(employeeID int) bool) Summary {
	if keep == nil {
		keep = func(int) bool { return true }
	}

	var s Summary

	eligible := make(map[int]bool)
	for _, r := range ds.Eligibility {
		if r.Active && keep(r.EmployeeID) {
			eligible[r.EmployeeID] = true
		}
	}
	s.EligibleEmployees = len(eligible)

	enrolled := make(map[int]bool)
	for _, r := range ds.Enrollments {
		if !keep(r.EmployeeID) {
			continue
		}
		s.TotalEnrollments++
		switch r.Status {
		case domain.EnrollmentEnrolled:
			enrolled[r.EmployeeID] = true
		case domain.EnrollmentPending:
			s.PendingEnrollments++
		}
		if r.Overdue(ds.AsOf, c.graceDays) {
			s.OverdueEnrollments++
		}
	}
	s.EnrolledEmployees = len(enrolled)

	for _, r := range ds.Exceptions {
		if !keep(r.EmployeeID) {
			continue
		}
		s.TotalExceptions++
		if r.Status == domain.ExceptionResolved {
			s.ResolvedExceptions++
		} else {
			s.OpenExceptions++
		}
	}

	s.EnrollmentRate = Rate(s.EnrolledEmployees, s.EligibleEmployees)
	s.ExceptionResolutionRate = Rate(s.ResolvedExceptions, s.TotalExceptions)
	s.DeadlineAdherenceRate = Rate(s.TotalEnrollments-s.OverdueEnrollments, s.TotalEnrollments)
	s.ComplianceScore = round2(c.weights.Enrollment*s.EnrollmentRate +
		c.weights.ExceptionResolution*s.ExceptionResolutionRate +
		c.weights.DeadlineAdherence*s.DeadlineAdherenceRate)

	return s
}

// Rate returns part/whole as a percentage rounded to 2 decimals. A zero
// denominator yields 0 rather than an error.
func Rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
