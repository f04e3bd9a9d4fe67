package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/query"
)

// Chart file names in the reports directory.
const (
	StatusChartFile = "chart_enrollment_status.html"
	DeptChartFile   = "chart_dept_enrollment_rate.html"
)

var chartPalette = []string{"#0b245b", "#2563eb", "#38bdf8", "#94a3b8", "#f59e0b", "#dc2626"}

// WriteStatusChart renders the enrollment status distribution as a
// standalone HTML pie chart.
func (e *Emitter) WriteStatusChart(counts []query.StatusCount) error {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	var body []gomponents.Node
	if total == 0 {
		body = append(body, html.P(gomponents.Text("No enrollments to chart.")))
	} else {
		body = append(body, pieSVG(counts, total), pieLegend(counts, total))
	}

	return e.writeChart(StatusChartFile, "Enrollment Status Distribution", body)
}

func pieSVG(counts []query.StatusCount, total int) gomponents.Node {
	const (
		size = 320.0
		r    = 140.0
	)
	cx, cy := size/2, size/2

	slices := make([]gomponents.Node, 0, len(counts))
	angle := -math.Pi / 2 // start at 12 o'clock
	for i, c := range counts {
		if c.Count == 0 {
			continue
		}
		color := chartPalette[i%len(chartPalette)]
		if c.Count == total {
			slices = append(slices, gomponents.El("circle",
				gomponents.Attr("cx", coord(cx)), gomponents.Attr("cy", coord(cy)),
				gomponents.Attr("r", coord(r)), gomponents.Attr("fill", color)))
			break
		}

		sweep := 2 * math.Pi * float64(c.Count) / float64(total)
		x0, y0 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
		x1, y1 := cx+r*math.Cos(angle+sweep), cy+r*math.Sin(angle+sweep)
		largeArc := "0"
		if sweep > math.Pi {
			largeArc = "1"
		}
		d := fmt.Sprintf("M %s %s L %s %s A %s %s 0 %s 1 %s %s Z",
			coord(cx), coord(cy), coord(x0), coord(y0),
			coord(r), coord(r), largeArc, coord(x1), coord(y1))
		slices = append(slices, gomponents.El("path",
			gomponents.Attr("d", d), gomponents.Attr("fill", color)))
		angle += sweep
	}

	return html.SVG(
		gomponents.Attr("viewBox", fmt.Sprintf("0 0 %s %s", coord(size), coord(size))),
		gomponents.Attr("width", coord(size)), gomponents.Attr("height", coord(size)),
		gomponents.Group(slices),
	)
}

func pieLegend(counts []query.StatusCount, total int) gomponents.Node {
	items := make([]gomponents.Node, 0, len(counts))
	for i, c := range counts {
		color := chartPalette[i%len(chartPalette)]
		share := float64(c.Count) / float64(total) * 100
		items = append(items, html.Li(
			html.Span(html.Class("swatch"), gomponents.Attr("style", "background:"+color)),
			gomponents.Text(fmt.Sprintf("%s — %d (%.1f%%)", c.Status, c.Count, share)),
		))
	}
	return html.Ul(html.Class("legend"), gomponents.Group(items))
}

// WriteDeptChart renders enrollment rate by department as a standalone HTML
// bar chart.
func (e *Emitter) WriteDeptChart(stats []query.DepartmentStats) error {
	var body []gomponents.Node
	if len(stats) == 0 {
		body = append(body, html.P(gomponents.Text("No departments to chart.")))
	} else {
		body = append(body, barSVG(stats))
	}
	return e.writeChart(DeptChartFile, "Enrollment Rate by Department", body)
}

func barSVG(stats []query.DepartmentStats) gomponents.Node {
	const (
		barWidth   = 80.0
		barGap     = 30.0
		plotHeight = 280.0
		marginTop  = 30.0
		marginLeft = 20.0
		labelSpace = 50.0
	)
	width := marginLeft*2 + float64(len(stats))*(barWidth+barGap)
	height := marginTop + plotHeight + labelSpace

	bars := make([]gomponents.Node, 0, len(stats)*3)
	for i, s := range stats {
		x := marginLeft + float64(i)*(barWidth+barGap)
		h := plotHeight * s.EnrollmentRate / 100
		y := marginTop + plotHeight - h

		bars = append(bars,
			gomponents.El("rect",
				gomponents.Attr("x", coord(x)), gomponents.Attr("y", coord(y)),
				gomponents.Attr("width", coord(barWidth)), gomponents.Attr("height", coord(h)),
				gomponents.Attr("fill", chartPalette[0])),
			gomponents.El("text",
				gomponents.Attr("x", coord(x+barWidth/2)), gomponents.Attr("y", coord(y-6)),
				gomponents.Attr("text-anchor", "middle"), gomponents.Attr("font-size", "13"),
				gomponents.Text(percent(s.EnrollmentRate))),
			gomponents.El("text",
				gomponents.Attr("x", coord(x+barWidth/2)), gomponents.Attr("y", coord(marginTop+plotHeight+20)),
				gomponents.Attr("text-anchor", "middle"), gomponents.Attr("font-size", "12"),
				gomponents.Text(s.DepartmentName)),
		)
	}

	// Baseline
	bars = append(bars, gomponents.El("line",
		gomponents.Attr("x1", coord(marginLeft)), gomponents.Attr("y1", coord(marginTop+plotHeight)),
		gomponents.Attr("x2", coord(width-marginLeft)), gomponents.Attr("y2", coord(marginTop+plotHeight)),
		gomponents.Attr("stroke", "#334155")))

	return html.SVG(
		gomponents.Attr("viewBox", fmt.Sprintf("0 0 %s %s", coord(width), coord(height))),
		gomponents.Attr("width", coord(width)), gomponents.Attr("height", coord(height)),
		gomponents.Group(bars),
	)
}

const chartCSS = `
body { font-family: Arial, sans-serif; margin: 24px; }
h1 { color: #0b245b; }
.legend { list-style: none; padding: 0; }
.legend li { margin: 4px 0; }
.swatch { display: inline-block; width: 12px; height: 12px; margin-right: 8px; }
`

func (e *Emitter) writeChart(name, title string, body []gomponents.Node) error {
	path := filepath.Join(e.reportsDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	page := html.Doctype(html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.TitleEl(gomponents.Text(title)),
			html.StyleEl(gomponents.Raw(chartCSS)),
		),
		html.Body(
			html.H1(gomponents.Text(title)),
			gomponents.Group(body),
		),
	))
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
