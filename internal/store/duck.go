// Package store registers the dataset in an embedded in-memory DuckDB
// database and loads datasets back out of it. The database lives only for
// the duration of one run; the query layer treats it as read-only.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
)

// Table names as exposed to the SQL layer.
const (
	TableDepartments = "departments"
	TableEmployees   = "employees"
	TablePlans       = "benefits_plans"
	TableEnrollment  = "benefits_enrollment"
	TableEligibility = "employee_eligibility"
	TableExceptions  = "compliance_exceptions"
)

// Open opens a fresh in-memory DuckDB database.
func Open() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return db, nil
}

const schemaDDL = `
CREATE TABLE departments (
    department_id   INTEGER PRIMARY KEY,
    department_name VARCHAR NOT NULL
);
CREATE TABLE employees (
    employee_id       INTEGER PRIMARY KEY,
    first_name        VARCHAR NOT NULL,
    last_name         VARCHAR NOT NULL,
    email             VARCHAR NOT NULL,
    department_id     INTEGER NOT NULL,
    hire_date         DATE NOT NULL,
    employment_status VARCHAR NOT NULL
);
CREATE TABLE benefits_plans (
    plan_id               INTEGER PRIMARY KEY,
    plan_name             VARCHAR NOT NULL,
    plan_type             VARCHAR NOT NULL,
    premium_cost          DOUBLE NOT NULL,
    employer_contribution DOUBLE NOT NULL
);
CREATE TABLE benefits_enrollment (
    enrollment_id     INTEGER PRIMARY KEY,
    employee_id       INTEGER NOT NULL,
    plan_id           INTEGER NOT NULL,
    enrollment_date   DATE NOT NULL,
    election_deadline DATE NOT NULL,
    plan_start_date   DATE,
    enrollment_status VARCHAR NOT NULL
);
CREATE TABLE employee_eligibility (
    eligibility_id         INTEGER PRIMARY KEY,
    employee_id            INTEGER NOT NULL,
    eligibility_start_date DATE NOT NULL,
    eligibility_end_date   DATE,
    benefit_category       VARCHAR NOT NULL,
    is_active              BOOLEAN NOT NULL
);
CREATE TABLE compliance_exceptions (
    exception_id      INTEGER PRIMARY KEY,
    employee_id       INTEGER NOT NULL,
    exception_type    VARCHAR NOT NULL,
    exception_date    DATE NOT NULL,
    severity_level    VARCHAR NOT NULL,
    resolution_status VARCHAR NOT NULL,
    resolved_date     DATE
);
`

// CreateSchema creates the six benefit tables.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertDataset bulk-inserts the dataset in one transaction.
func InsertDataset(ctx context.Context, db *sql.DB, ds *domain.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertAll(ctx, tx, ds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, ds *domain.Dataset) error {
	for _, d := range ds.Departments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO departments VALUES ($1, $2)`, d.ID, d.Name); err != nil {
			return fmt.Errorf("insert department %d: %w", d.ID, err)
		}
	}
	for _, e := range ds.Employees {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO employees VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.FirstName, e.LastName, e.Email, e.DepartmentID, dateArg(e.HireDate), string(e.EmploymentStatus)); err != nil {
			return fmt.Errorf("insert employee %d: %w", e.ID, err)
		}
	}
	for _, p := range ds.Plans {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO benefits_plans VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Name, p.Type, p.PremiumCost, p.EmployerContribution); err != nil {
			return fmt.Errorf("insert plan %d: %w", p.ID, err)
		}
	}
	for _, r := range ds.Enrollments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO benefits_enrollment VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.ID, r.EmployeeID, r.PlanID, dateArg(r.EnrollmentDate), dateArg(r.ElectionDeadline),
			nullableDate(r.PlanStartDate), string(r.Status)); err != nil {
			return fmt.Errorf("insert enrollment %d: %w", r.ID, err)
		}
	}
	for _, r := range ds.Eligibility {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO employee_eligibility VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, r.EmployeeID, dateArg(r.StartDate), nullableDate(r.EndDate), r.BenefitCategory, r.Active); err != nil {
			return fmt.Errorf("insert eligibility %d: %w", r.ID, err)
		}
	}
	for _, r := range ds.Exceptions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO compliance_exceptions VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.ID, r.EmployeeID, r.Type, dateArg(r.OpenedDate), string(r.Severity),
			string(r.Status), nullableDate(r.ResolvedDate)); err != nil {
			return fmt.Errorf("insert exception %d: %w", r.ID, err)
		}
	}
	return nil
}

// dateArg binds a date as its ISO string so DATE columns take it without a
// timestamp cast.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return dateArg(*t)
}

// ReadDataset hydrates a dataset back out of the registered tables. Used
// after a CSV load so the domain invariants can be checked and so the KPI
// layer works from the same snapshot regardless of the data source.
func ReadDataset(ctx context.Context, db *sql.DB, asOf time.Time) (*domain.Dataset, error) {
	ds := &domain.Dataset{AsOf: asOf}

	rows, err := db.QueryContext(ctx,
		`SELECT department_id, department_name FROM departments ORDER BY department_id`)
	if err != nil {
		return nil, fmt.Errorf("read departments: %w", err)
	}
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan department: %w", err)
		}
		ds.Departments = append(ds.Departments, d)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT employee_id, first_name, last_name, email, department_id, hire_date, employment_status
		 FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, fmt.Errorf("read employees: %w", err)
	}
	for rows.Next() {
		var (
			e      domain.Employee
			status string
		)
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.DepartmentID, &e.HireDate, &status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.EmploymentStatus = domain.EmploymentStatus(status)
		ds.Employees = append(ds.Employees, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT plan_id, plan_name, plan_type, premium_cost, employer_contribution
		 FROM benefits_plans ORDER BY plan_id`)
	if err != nil {
		return nil, fmt.Errorf("read plans: %w", err)
	}
	for rows.Next() {
		var p domain.BenefitPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.PremiumCost, &p.EmployerContribution); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		ds.Plans = append(ds.Plans, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT enrollment_id, employee_id, plan_id, enrollment_date, election_deadline, plan_start_date, enrollment_status
		 FROM benefits_enrollment ORDER BY enrollment_id`)
	if err != nil {
		return nil, fmt.Errorf("read enrollments: %w", err)
	}
	for rows.Next() {
		var (
			r      domain.EnrollmentRecord
			start  sql.NullTime
			status string
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.PlanID, &r.EnrollmentDate, &r.ElectionDeadline, &start, &status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		if start.Valid {
			t := start.Time
			r.PlanStartDate = &t
		}
		r.Status = domain.EnrollmentStatus(status)
		ds.Enrollments = append(ds.Enrollments, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT eligibility_id, employee_id, eligibility_start_date, eligibility_end_date, benefit_category, is_active
		 FROM employee_eligibility ORDER BY eligibility_id`)
	if err != nil {
		return nil, fmt.Errorf("read eligibility: %w", err)
	}
	for rows.Next() {
		var (
			r   domain.EligibilityRecord
			end sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.StartDate, &end, &r.BenefitCategory, &r.Active); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan eligibility: %w", err)
		}
		if end.Valid {
			t := end.Time
			r.EndDate = &t
		}
		ds.Eligibility = append(ds.Eligibility, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT exception_id, employee_id, exception_type, exception_date, severity_level, resolution_status, resolved_date
		 FROM compliance_exceptions ORDER BY exception_id`)
	if err != nil {
		return nil, fmt.Errorf("read exceptions: %w", err)
	}
	for rows.Next() {
		var (
			r                domain.ExceptionRecord
			severity, status string
			resolved         sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Type, &r.OpenedDate, &severity, &status, &resolved); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan exception: %w", err)
		}
		r.Severity = domain.Severity(severity)
		r.Status = domain.ExceptionStatus(status)
		if resolved.Valid {
			t := resolved.Time
			r.ResolvedDate = &t
		}
		ds.Exceptions = append(ds.Exceptions, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return ds, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate rows: %w", err)
	}
	return rows.Close()
}
