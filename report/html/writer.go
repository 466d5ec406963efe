package html

import (
	_ "embed" // use go embed to import template
	"html/template"
	"io"

	"github.com/securego/gosonar"
)

//go:embed template.html
var templateContent string

// WriteReport write a report in html format to the output writer
func WriteReport(w io.Writer, data *gosonar.ReportInfo) error {
	t, e := template.New("gosonar").Funcs(template.FuncMap{
		"severityClass": severityClass,
	}).Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, data)
}

func severityClass(severity string) string {
	switch severity {
	case gosonar.SeverityBlocker, gosonar.SeverityCritical:
		return "is-danger"
	case gosonar.SeverityMajor:
		return "is-warning"
	case gosonar.SeverityMinor:
		return "is-info"
	default:
		return "is-light"
	}
}
