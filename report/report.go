package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// Run describes one completed comparison for the summary reports.
type Run struct {
	SourceA    string           `json:"source_a"`
	SourceB    string           `json:"source_b"`
	Sheet      string           `json:"sheet,omitempty"`
	KeyColumns []string         `json:"key_columns"`
	ColumnsA   []string         `json:"columns_a"`
	ColumnsB   []string         `json:"columns_b"`
	Summary    core.DiffSummary `json:"summary"`
	Warnings   []string         `json:"warnings,omitempty"`
	Output     string           `json:"output,omitempty"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
}

// NewRun builds the report of a comparison between tables a and b.
func NewRun(a, b *core.Table, result *core.DiffResult, start time.Time) Run {
	return Run{
		SourceA:    a.Source,
		SourceB:    b.Source,
		Sheet:      a.Sheet,
		KeyColumns: result.KeyColumns,
		ColumnsA:   a.Columns,
		ColumnsB:   b.Columns,
		Summary:    result.Summary,
		Warnings:   result.Warnings,
		StartTime:  start,
		EndTime:    time.Now(),
	}
}

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// ReportGenerator defines the methods for generating reports.
type ReportGenerator interface {
	GenerateSummaryReport(run Run) ([]byte, error)
	SaveReportToFile(run Run, filePath string) error
}

// GeneratorFor returns the generator matching the extension of filePath.
func GeneratorFor(filePath string) (ReportGenerator, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return &JSONReportGenerator{}, nil
	case ".html", ".htm":
		return &HTMLReportGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: report %q", core.ErrUnsupportedType, filepath.Ext(filePath))
	}
}

// SaveReport saves the report in the format matching the extension of filePath.
func SaveReport(run Run, filePath string) error {
	generator, err := GeneratorFor(filePath)
	if err != nil {
		return err
	}
	return generator.SaveReportToFile(run, filePath)
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONReportGenerator generates JSON reports.
type JSONReportGenerator struct{}

// GenerateSummaryReport serializes the run to JSON.
func (j *JSONReportGenerator) GenerateSummaryReport(run Run) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}

// SaveReportToFile saves the JSON report to a file.
func (j *JSONReportGenerator) SaveReportToFile(run Run, filePath string) error {
	data, err := j.GenerateSummaryReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// ReportFromFilePath loads a JSON report from a file.
func ReportFromFilePath(filePath string) (Run, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Run{}, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// -----------------------------
// HTML Report Generator
// -----------------------------

// HTMLReportGenerator generates HTML reports.
type HTMLReportGenerator struct{}

// HTML template for the report.
const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Spreadsheet Diff Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f4f4f4; }
        .warn { color: #b8860b; }
    </style>
</head>
<body>
    <h1>Spreadsheet Diff Report</h1>
    <p><strong>File A:</strong> {{.SourceA}}</p>
    <p><strong>File B:</strong> {{.SourceB}}</p>
    {{if .Sheet}}<p><strong>Sheet:</strong> {{.Sheet}}</p>{{end}}
    <p><strong>Key:</strong> {{if .KeyColumns}}{{join .KeyColumns}}{{else}}row position{{end}}</p>

    <h2>Rows</h2>
    <table>
        <tr>
            <th>Rows in A</th>
            <th>Rows in B</th>
            <th>Only in A</th>
            <th>Only in B</th>
            <th>Modified rows</th>
            <th>Modified cells</th>
        </tr>
        <tr>
            <td>{{.Summary.TotalSource}}</td>
            <td>{{.Summary.TotalTarget}}</td>
            <td>{{.Summary.Deleted}}</td>
            <td>{{.Summary.Added}}</td>
            <td>{{.Summary.Modified}}</td>
            <td>{{.Summary.ModifiedCells}}</td>
        </tr>
    </table>

    <h2>Modified cells by column</h2>
    <table>
        <tr>
            <th>Column</th>
            <th>Changed cells</th>
        </tr>
        {{range $col, $n := .Summary.Columns}}
        <tr>
            <td>{{$col}}</td>
            <td>{{$n}}</td>
        </tr>
        {{else}}
        <tr><td colspan="2">None</td></tr>
        {{end}}
    </table>

    <h2>Columns</h2>
    <p><strong>A:</strong> {{join .ColumnsA}}</p>
    <p><strong>B:</strong> {{join .ColumnsB}}</p>

    {{if .Warnings}}
    <h2>Warnings</h2>
    <ul>
        {{range .Warnings}}<li class="warn">{{.}}</li>{{end}}
    </ul>
    {{end}}

    <footer>
        <p>Generated on {{.EndTime}}</p>
    </footer>
</body>
</html>
`

var funcs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
}

// GenerateSummaryReport generates an HTML report from the run.
func (h *HTMLReportGenerator) GenerateSummaryReport(run Run) ([]byte, error) {
	tmpl, err := template.New("report").Funcs(funcs).Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, run)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SaveReportToFile saves the HTML report to a file.
func (h *HTMLReportGenerator) SaveReportToFile(run Run, filePath string) error {
	data, err := h.GenerateSummaryReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
