package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/kpi"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/query"
)

// ReportFile is the name of the HTML summary report.
const ReportFile = "compliance_report.html"

// overdueDisplayLimit caps the overdue table in the HTML report; the full
// listing is always in the CSV.
const overdueDisplayLimit = 25

// ReportData is everything the HTML summary renders.
type ReportData struct {
	RunID     string
	AsOf      time.Time
	Overall   kpi.Summary
	Breakdown []kpi.DepartmentSummary
	Statuses  []query.StatusCount
	Overview  []query.DepartmentStats
	Overdue   []query.OverdueEnrollment
}

const reportCSS = `
body { font-family: Arial, sans-serif; margin: 24px; }
h1, h2 { color: #0b245b; }
.kpi { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
.card { background: #0b245b; color: #fff; padding: 16px; border-radius: 8px; }
table { border-collapse: collapse; width: 100%; margin-top: 12px; }
th, td { border: 1px solid #ddd; padding: 8px; }
th { background: #f0f2f5; text-align: left; }
footer { margin-top: 24px; color: #667; font-size: 12px; }
`

// WriteReport renders the HTML summary into the reports directory.
func (e *Emitter) WriteReport(data ReportData) error {
	path := filepath.Join(e.reportsDir, ReportFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := reportPage(data).Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func reportPage(data ReportData) gomponents.Node {
	overdue := data.Overdue
	if len(overdue) > overdueDisplayLimit {
		overdue = overdue[:overdueDisplayLimit]
	}

	return html.Doctype(html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.TitleEl(gomponents.Text("Benefits Compliance Tracker — Report")),
			html.StyleEl(gomponents.Raw(reportCSS)),
		),
		html.Body(
			html.H1(gomponents.Text("Employee Benefits Compliance Tracker")),
			html.P(gomponents.Text("Reference date: "+data.AsOf.Format("2006-01-02"))),
			html.H2(gomponents.Text("Key Metrics")),
			kpiCards(data.Overall),
			html.H2(gomponents.Text("Enrollment Status Summary")),
			statusTable(data.Statuses),
			html.H2(gomponents.Text("Department Overview")),
			overviewTable(data.Overview),
			html.H2(gomponents.Text("Department Compliance Breakdown")),
			breakdownTable(data.Breakdown),
			html.H2(gomponents.Text("Overdue Enrollments")),
			overdueTable(overdue, len(data.Overdue)),
			html.Footer(gomponents.Text("Run "+data.RunID)),
		),
	))
}

func kpiCards(s kpi.Summary) gomponents.Node {
	card := func(label, value string) gomponents.Node {
		return html.Div(html.Class("card"),
			html.Strong(gomponents.Text(label)), html.Br(), gomponents.Text(value))
	}
	return html.Div(html.Class("kpi"),
		card("Enrollment Rate", percent(s.EnrollmentRate)),
		card("Exception Resolution", percent(s.ExceptionResolutionRate)),
		card("Deadline Adherence", percent(s.DeadlineAdherenceRate)),
		card("Compliance Score", percent(s.ComplianceScore)),
		card("Pending Enrollments", strconv.Itoa(s.PendingEnrollments)),
		card("Open Exceptions", strconv.Itoa(s.OpenExceptions)),
	)
}

func statusTable(counts []query.StatusCount) gomponents.Node {
	rows := make([]gomponents.Node, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(c.Status)),
			html.Td(gomponents.Text(strconv.Itoa(c.Count))),
		))
	}
	return dataTable([]string{"Status", "Count"}, rows)
}

func overviewTable(stats []query.DepartmentStats) gomponents.Node {
	rows := make([]gomponents.Node, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(s.DepartmentName)),
			html.Td(gomponents.Text(strconv.Itoa(s.TotalEmployees))),
			html.Td(gomponents.Text(strconv.Itoa(s.EnrolledEmployees))),
			html.Td(gomponents.Text(percent(s.EnrollmentRate))),
			html.Td(gomponents.Text(strconv.Itoa(s.OpenExceptions))),
		))
	}
	return dataTable([]string{"Department", "Employees", "Enrolled", "Enrollment Rate", "Open Exceptions"}, rows)
}

func breakdownTable(breakdown []kpi.DepartmentSummary) gomponents.Node {
	rows := make([]gomponents.Node, 0, len(breakdown))
	for _, d := range breakdown {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(d.Department)),
			html.Td(gomponents.Text(percent(d.EnrollmentRate))),
			html.Td(gomponents.Text(percent(d.ExceptionResolutionRate))),
			html.Td(gomponents.Text(percent(d.DeadlineAdherenceRate))),
			html.Td(gomponents.Text(percent(d.ComplianceScore))),
		))
	}
	return dataTable([]string{"Department", "Enrollment", "Exception Resolution", "Deadline Adherence", "Score"}, rows)
}

func overdueTable(overdue []query.OverdueEnrollment, total int) gomponents.Node {
	if total == 0 {
		return html.P(gomponents.Text("No overdue enrollments."))
	}
	rows := make([]gomponents.Node, 0, len(overdue))
	for _, o := range overdue {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(o.EmployeeName)),
			html.Td(gomponents.Text(o.DepartmentName)),
			html.Td(gomponents.Text(strconv.Itoa(o.PlanID))),
			html.Td(gomponents.Text(o.EnrollmentDate.Format("2006-01-02"))),
			html.Td(gomponents.Text(o.ElectionDeadline.Format("2006-01-02"))),
		))
	}
	table := dataTable([]string{"Employee", "Department", "Plan", "Enrolled", "Deadline"}, rows)
	if total > len(overdue) {
		return gomponents.Group([]gomponents.Node{
			table,
			html.P(gomponents.Text(fmt.Sprintf("Showing %d of %d; see overdue_enrollments.csv for the full list.", len(overdue), total))),
		})
	}
	return table
}

func dataTable(headers []string, rows []gomponents.Node) gomponents.Node {
	ths := make([]gomponents.Node, 0, len(headers))
	for _, h := range headers {
		ths = append(ths, html.Th(gomponents.Text(h)))
	}
	return html.Table(
		html.THead(html.Tr(gomponents.Group(ths))),
		html.TBody(gomponents.Group(rows)),
	)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
