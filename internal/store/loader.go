package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
)

// Input file names, matching the artifacts the tracker itself emits so a
// previous run's data directory can be fed back in as input.
const (
	FileDepartments = "departments_data.csv"
	FileEmployees   = "employees_data.csv"
	FilePlans       = "plans_data.csv"
	FileEnrollment  = "enrollment_data.csv"
	FileEligibility = "eligibility_data.csv"
	FileExceptions  = "exceptions_data.csv"
)

// csvColumn types passed to read_csv so DuckDB never has to guess. A file
// whose rows cannot be cast to these types fails the load.
var csvSources = []struct {
	table   string
	file    string
	columns string
}{
	{TableDepartments, FileDepartments,
		`'department_id': 'INTEGER', 'department_name': 'VARCHAR'`},
	{TableEmployees, FileEmployees,
		`'employee_id': 'INTEGER', 'first_name': 'VARCHAR', 'last_name': 'VARCHAR', 'email': 'VARCHAR', 'department_id': 'INTEGER', 'hire_date': 'DATE', 'employment_status': 'VARCHAR'`},
	{TablePlans, FilePlans,
		`'plan_id': 'INTEGER', 'plan_name': 'VARCHAR', 'plan_type': 'VARCHAR', 'premium_cost': 'DOUBLE', 'employer_contribution': 'DOUBLE'`},
	{TableEnrollment, FileEnrollment,
		`'enrollment_id': 'INTEGER', 'employee_id': 'INTEGER', 'plan_id': 'INTEGER', 'enrollment_date': 'DATE', 'election_deadline': 'DATE', 'plan_start_date': 'DATE', 'enrollment_status': 'VARCHAR'`},
	{TableEligibility, FileEligibility,
		`'eligibility_id': 'INTEGER', 'employee_id': 'INTEGER', 'eligibility_start_date': 'DATE', 'eligibility_end_date': 'DATE', 'benefit_category': 'VARCHAR', 'is_active': 'BOOLEAN'`},
	{TableExceptions, FileExceptions,
		`'exception_id': 'INTEGER', 'employee_id': 'INTEGER', 'exception_type': 'VARCHAR', 'exception_date': 'DATE', 'severity_level': 'VARCHAR', 'resolution_status': 'VARCHAR', 'resolved_date': 'DATE'`},
}

// LoadCSVDir creates the six tables from CSV files in dir. All six files
// must be present; a missing or malformed file aborts the load.
func LoadCSVDir(ctx context.Context, db *sql.DB, dir string) error {
	for _, src := range csvSources {
		path := filepath.Join(dir, src.file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.ErrNotFound("input file %s not found in %s", src.file, dir)
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}

		stmt := fmt.Sprintf(
			`CREATE TABLE %s AS SELECT * FROM read_csv(%s, header = true, columns = {%s})`,
			src.table, sqlQuote(path), src.columns,
		)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return domain.ErrValidation("load %s: %v", src.file, err)
		}
	}
	return nil
}

// sqlQuote renders a string as a single-quoted SQL literal. read_csv takes
// its path as a constant argument, so it cannot be bound as a parameter.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
