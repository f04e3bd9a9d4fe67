package domain

import "time"

// Dataset is the full read-only snapshot the pipeline operates on: six
// tables plus the reference date used for all "today" comparisons. Nothing
// downstream reads the wall clock; overdue math and report timestamps use
// AsOf so a run is reproducible.
type Dataset struct {
	Departments []Department
	Employees   []Employee
	Plans       []BenefitPlan
	Enrollments []EnrollmentRecord
	Eligibility []EligibilityRecord
	Exceptions  []ExceptionRecord

	AsOf time.Time
}

// Validate checks every record and the referential integrity between
// tables. Any violation is a fatal precondition for the run.
func (d *Dataset) Validate() error {
	if d.AsOf.IsZero() {
		return ErrValidation("dataset: reference date is required")
	}

	deptIDs := make(map[int]bool, len(d.Departments))
	for _, dept := range d.Departments {
		if dept.ID <= 0 {
			return ErrValidation("department: id must be positive, got %d", dept.ID)
		}
		if dept.Name == "" {
			return ErrValidation("department %d: name is required", dept.ID)
		}
		if deptIDs[dept.ID] {
			return ErrValidation("department %d: duplicate id", dept.ID)
		}
		deptIDs[dept.ID] = true
	}

	empIDs := make(map[int]bool, len(d.Employees))
	for _, emp := range d.Employees {
		if err := emp.Validate(); err != nil {
			return err
		}
		if empIDs[emp.ID] {
			return ErrValidation("employee %d: duplicate id", emp.ID)
		}
		if !deptIDs[emp.DepartmentID] {
			return ErrValidation("employee %d: unknown department_id %d", emp.ID, emp.DepartmentID)
		}
		empIDs[emp.ID] = true
	}

	planIDs := make(map[int]bool, len(d.Plans))
	for _, p := range d.Plans {
		if err := p.Validate(); err != nil {
			return err
		}
		if planIDs[p.ID] {
			return ErrValidation("plan %d: duplicate id", p.ID)
		}
		planIDs[p.ID] = true
	}

	for _, r := range d.Enrollments {
		if err := r.Validate(); err != nil {
			return err
		}
		if !empIDs[r.EmployeeID] {
			return ErrValidation("enrollment %d: unknown employee_id %d", r.ID, r.EmployeeID)
		}
		if !planIDs[r.PlanID] {
			return ErrValidation("enrollment %d: unknown plan_id %d", r.ID, r.PlanID)
		}
	}

	for _, r := range d.Eligibility {
		if err := r.Validate(); err != nil {
			return err
		}
		if !empIDs[r.EmployeeID] {
			return ErrValidation("eligibility %d: unknown employee_id %d", r.ID, r.EmployeeID)
		}
	}

	for _, r := range d.Exceptions {
		if err := r.Validate(); err != nil {
			return err
		}
		if !empIDs[r.EmployeeID] {
			return ErrValidation("exception %d: unknown employee_id %d", r.ID, r.EmployeeID)
		}
	}

	return nil
}

// DepartmentByID returns a lookup from department id to department.
func (d *Dataset) DepartmentByID() map[int]Department {
	m := make(map[int]Department, len(d.Departments))
	for _, dept := range d.Departments {
		m[dept.ID] = dept
	}
	return m
}

// EmployeeDepartment returns a lookup from employee id to department id.
func (d *Dataset) EmployeeDepartment() map[int]int {
	m := make(map[int]int, len(d.Employees))
	for _, emp := range d.Employees {
		m[emp.ID] = emp.DepartmentID
	}
	return m
}
