// Package gen produces the synthetic HR-benefits dataset used when no input
// CSVs are supplied. Generation is fully determined by the seed and the
// reference date: the same pair yields byte-identical tables.
package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
)

// Fixed reference data. Employees are spread over these by the seeded RNG.
var (
	departmentNames = []string{"Human Resources", "Finance", "Engineering", "Sales", "Operations"}

	firstNames = []string{"John", "Jane", "Michael", "Sarah", "Robert", "Emily", "James", "Lisa"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}

	exceptionTypes = []string{"Missed Enrollment", "Late Election", "Missing Documentation", "Incorrect Data"}

	severities = []domain.Severity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow}
)

// Options controls the synthetic dataset shape.
type Options struct {
	Seed       int64
	Employees  int
	Exceptions int
	AsOf       time.Time // reference date; all relative dates hang off this
}

// Generate builds a complete, internally consistent dataset.
func Generate(opts Options) (*domain.Dataset, error) {
	if opts.Employees <= 0 {
		return nil, domain.ErrValidation("generator: employee count must be positive, got %d", opts.Employees)
	}
	if opts.Exceptions < 0 {
		return nil, domain.ErrValidation("generator: exception count must not be negative, got %d", opts.Exceptions)
	}
	if opts.AsOf.IsZero() {
		return nil, domain.ErrValidation("generator: reference date is required")
	}

	r := rand.New(rand.NewSource(opts.Seed))
	asOf := time.Date(opts.AsOf.Year(), opts.AsOf.Month(), opts.AsOf.Day(), 0, 0, 0, 0, time.UTC)

	ds := &domain.Dataset{AsOf: asOf}

	for i, name := range departmentNames {
		ds.Departments = append(ds.Departments, domain.Department{ID: i + 1, Name: name})
	}

	ds.Plans = []domain.BenefitPlan{
		{ID: 1, Name: "Basic Medical", Type: "Medical", PremiumCost: 300, EmployerContribution: 150},
		{ID: 2, Name: "Premium Medical", Type: "Medical", PremiumCost: 600, EmployerContribution: 400},
		{ID: 3, Name: "Dental Plus", Type: "Dental", PremiumCost: 75, EmployerContribution: 40},
		{ID: 4, Name: "Vision Coverage", Type: "Vision", PremiumCost: 50, EmployerContribution: 25},
		{ID: 5, Name: "401k Plan", Type: "Retirement", PremiumCost: 150, EmployerContribution: 100},
	}

	hireStart := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	// Weekly cohorts cycle within the hire window so no hire date lands
	// after the reference date, whatever the employee count.
	cohorts := int(asOf.Sub(hireStart).Hours()/(24*7)) + 1
	for i := 1; i <= opts.Employees; i++ {
		status := domain.EmploymentActive
		if r.Float64() >= 0.85 {
			status = domain.EmploymentInactive
		}
		hire := asOf
		if cohorts > 0 {
			hire = hireStart.AddDate(0, 0, 7*((i-1)%cohorts))
		}
		ds.Employees = append(ds.Employees, domain.Employee{
			ID:               i,
			FirstName:        firstNames[r.Intn(len(firstNames))],
			LastName:         lastNames[r.Intn(len(lastNames))],
			Email:            email(i),
			DepartmentID:     ds.Departments[r.Intn(len(ds.Departments))].ID,
			HireDate:         hire,
			EmploymentStatus: status,
		})
	}

	genEnrollments(r, ds)
	genEligibility(ds, asOf)
	genExceptions(r, ds, asOf, opts.Exceptions)

	return ds, nil
}

func genEnrollments(r *rand.Rand, ds *domain.Dataset) {
	for _, emp := range ds.Employees {
		if emp.EmploymentStatus != domain.EmploymentActive {
			continue
		}
		// Each active employee elects 2-4 distinct plans.
		count := 2 + r.Intn(3)
		perm := r.Perm(len(ds.Plans))
		for _, pi := range perm[:count] {
			enrollDate := ds.AsOf.AddDate(0, 0, -(30 + r.Intn(335)))
			deadline := enrollDate.AddDate(0, 0, 30)
			status := pickEnrollmentStatus(r)

			rec := domain.EnrollmentRecord{
				ID:               len(ds.Enrollments) + 1,
				EmployeeID:       emp.ID,
				PlanID:           ds.Plans[pi].ID,
				EnrollmentDate:   enrollDate,
				ElectionDeadline: deadline,
				Status:           status,
			}
			if status == domain.EnrollmentEnrolled {
				start := enrollDate.AddDate(0, 0, 60)
				rec.PlanStartDate = &start
			}
			ds.Enrollments = append(ds.Enrollments, rec)
		}
	}
}

func pickEnrollmentStatus(r *rand.Rand) domain.EnrollmentStatus {
	switch v := r.Float64(); {
	case v < 0.80:
		return domain.EnrollmentEnrolled
	case v < 0.95:
		return domain.EnrollmentPending
	default:
		return domain.EnrollmentDeclined
	}
}

func genEligibility(ds *domain.Dataset, asOf time.Time) {
	for _, emp := range ds.Employees {
		rec := domain.EligibilityRecord{
			ID:              emp.ID,
			EmployeeID:      emp.ID,
			StartDate:       emp.HireDate,
			BenefitCategory: "All_Benefits",
			Active:          emp.EmploymentStatus == domain.EmploymentActive,
		}
		if !rec.Active {
			end := asOf.AddDate(0, 0, 30)
			rec.EndDate = &end
		}
		ds.Eligibility = append(ds.Eligibility, rec)
	}
}

func genExceptions(r *rand.Rand, ds *domain.Dataset, asOf time.Time, count int) {
	if count > len(ds.Employees) {
		count = len(ds.Employees)
	}
	perm := r.Perm(len(ds.Employees))
	for _, ei := range perm[:count] {
		opened := asOf.AddDate(0, 0, -r.Intn(90))
		rec := domain.ExceptionRecord{
			ID:         len(ds.Exceptions) + 1,
			EmployeeID: ds.Employees[ei].ID,
			Type:       exceptionTypes[r.Intn(len(exceptionTypes))],
			OpenedDate: opened,
			Severity:   severities[r.Intn(len(severities))],
			Status:     domain.ExceptionOpen,
		}
		if r.Float64() >= 0.6 {
			resolved := opened.AddDate(0, 0, 1+r.Intn(30))
			rec.Status = domain.ExceptionResolved
			rec.ResolvedDate = &resolved
		}
		ds.Exceptions = append(ds.Exceptions, rec)
	}
}

func email(i int) string {
	return fmt.Sprintf("user%d@example.com", i)
}
