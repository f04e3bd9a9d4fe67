// Package app wires the pipeline: load or generate the dataset, register it
// in DuckDB, run the aggregation library, compute the KPIs, and emit the
// artifacts. One deterministic batch pass; the first error aborts the run.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/config"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/domain"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/gen"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/report"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/kpi"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/query"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/store"
)

// App runs one tracker pass.
type App struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates an App. The configuration must already be validated.
func New(cfg *config.Config, log *slog.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Run executes the full pipeline.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := a.log.With("run_id", runID)

	calc, err := kpi.NewCalculator(a.cfg.Weights, a.cfg.GraceDays)
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := a.materialize(ctx, db, log)
	if err != nil {
		return err
	}
	log.Info("dataset ready",
		"employees", len(ds.Employees),
		"enrollments", len(ds.Enrollments),
		"exceptions", len(ds.Exceptions),
		"as_of", ds.AsOf.Format("2006-01-02"))

	svc := query.NewService(db)

	statuses, err := svc.StatusSummary(ctx)
	if err != nil {
		return err
	}
	overdue, err := svc.Overdue(ctx, ds.AsOf, a.cfg.GraceDays)
	if err != nil {
		return err
	}
	overview, err := svc.DepartmentOverview(ctx)
	if err != nil {
		return err
	}
	exceptions, err := svc.ExceptionTracking(ctx)
	if err != nil {
		return err
	}
	unenrolled, err := svc.EligibilityVerification(ctx)
	if err != nil {
		return err
	}
	log.Info("queries complete", "overdue", len(overdue), "unenrolled_eligible", len(unenrolled))

	overall := calc.Summarize(ds)
	breakdown := calc.ByDepartment(ds)
	log.Info("kpis computed",
		"enrollment_rate", overall.EnrollmentRate,
		"exception_resolution_rate", overall.ExceptionResolutionRate,
		"deadline_adherence_rate", overall.DeadlineAdherenceRate,
		"compliance_score", overall.ComplianceScore)

	emitter, err := report.NewEmitter(a.cfg.DataDir(), a.cfg.ReportsDir())
	if err != nil {
		return err
	}

	if err := emitter.WriteDataset(ds); err != nil {
		return err
	}
	if err := emitter.WriteStatusSummary(statuses); err != nil {
		return err
	}
	if err := emitter.WriteOverdue(overdue); err != nil {
		return err
	}
	if err := emitter.WriteDepartmentOverview(overview); err != nil {
		return err
	}
	if err := emitter.WriteExceptionTracking(exceptions); err != nil {
		return err
	}
	if err := emitter.WriteEligibilityVerification(unenrolled); err != nil {
		return err
	}
	if err := emitter.WriteKPIs(overall); err != nil {
		return err
	}
	if err := emitter.WriteDepartmentBreakdown(breakdown); err != nil {
		return err
	}

	if err := emitter.WriteReport(report.ReportData{
		RunID:     runID,
		AsOf:      ds.AsOf,
		Overall:   overall,
		Breakdown: breakdown,
		Statuses:  statuses,
		Overview:  overview,
		Overdue:   overdue,
	}); err != nil {
		return err
	}

	if a.cfg.Charts {
		if err := emitter.WriteStatusChart(statuses); err != nil {
			return err
		}
		if err := emitter.WriteDeptChart(overview); err != nil {
			return err
		}
	}

	log.Info("artifacts written", "data_dir", emitter.DataDir(), "reports_dir", emitter.ReportsDir())
	return nil
}

// materialize produces the validated dataset and leaves it registered in
// the database: loaded from input CSVs when an input directory is
// configured, generated otherwise.
func (a *App) materialize(ctx context.Context, db *sql.DB, log *slog.Logger) (*domain.Dataset, error) {
	if a.cfg.InputDir != "" {
		if _, err := os.Stat(a.cfg.InputDir); err != nil {
			return nil, domain.ErrNotFound("input directory %s: %v", a.cfg.InputDir, err)
		}
		log.Info("loading input CSVs", "input_dir", a.cfg.InputDir)
		if err := store.LoadCSVDir(ctx, db, a.cfg.InputDir); err != nil {
			return nil, err
		}
		ds, err := store.ReadDataset(ctx, db, a.cfg.AsOf)
		if err != nil {
			return nil, err
		}
		if err := ds.Validate(); err != nil {
			return nil, fmt.Errorf("input data invalid: %w", err)
		}
		return ds, nil
	}

	log.Info("generating synthetic dataset",
		"seed", a.cfg.Seed, "employees", a.cfg.Employees, "exceptions", a.cfg.Exceptions)
	ds, err := gen.Generate(gen.Options{
		Seed:       a.cfg.Seed,
		Employees:  a.cfg.Employees,
		Exceptions: a.cfg.Exceptions,
		AsOf:       a.cfg.AsOf,
	})
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("generated data invalid: %w", err)
	}
	if err := store.CreateSchema(ctx, db); err != nil {
		return nil, err
	}
	if err := store.InsertDataset(ctx, db, ds); err != nil {
		return nil, err
	}
	return ds, nil
}
