package text

import (
	_ "embed" // use go embed to import template
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/gookit/color"
	"github.com/securego/gosonar"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	errorTheme   = color.New(color.FgLightWhite, color.BgRed)
	warningTheme = color.New(color.FgBlack, color.BgYellow)
	defaultTheme = color.New(color.FgWhite, color.BgBlack)

	//go:embed template.txt
	templateContent string
)

// WriteReport write a (colorized) report in text format
func WriteReport(w io.Writer, data *gosonar.ReportInfo, enableColor bool) error {
	t, e := template.
		New("gosonar").
		Funcs(plainTextFuncMap(enableColor)).
		Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, data)
}

func plainTextFuncMap(enableColor bool) template.FuncMap {
	funcs := template.FuncMap{
		"title":      cases.Title(language.English).String,
		"location":   location,
		"severities": severities,
	}
	if enableColor {
		funcs["highlight"] = highlight
		funcs["danger"] = color.Danger.Render
		funcs["notice"] = color.Notice.Render
		funcs["success"] = color.Success.Render
		return funcs
	}

	// by default those functions return the given content untouched
	funcs["highlight"] = func(t string, severity string) string {
		return t
	}
	funcs["danger"] = fmt.Sprint
	funcs["notice"] = fmt.Sprint
	funcs["success"] = fmt.Sprint
	return funcs
}

// highlight returns content t colored based on the issue severity
func highlight(t string, severity string) string {
	switch severity {
	case gosonar.SeverityBlocker, gosonar.SeverityCritical:
		return errorTheme.Sprint(t)
	case gosonar.SeverityMajor:
		return warningTheme.Sprint(t)
	default:
		return defaultTheme.Sprint(t)
	}
}

// location renders the component of an issue and its lines
func location(issue *gosonar.Issue) string {
	if r := issue.TextRange; r != nil && r.EndLine > r.StartLine {
		return fmt.Sprintf("%s:%d-%d", issue.Component, r.StartLine, r.EndLine)
	}
	if issue.Line > 0 {
		return fmt.Sprintf("%s:%d", issue.Component, issue.Line)
	}
	return issue.Component
}

type severityCount struct {
	Severity string
	Count    int
}

// severities returns the counts per severity, the most severe first
func severities(m *gosonar.Metrics) []severityCount {
	counts := make([]severityCount, 0, len(m.BySeverity))
	for severity, count := range m.BySeverity {
		counts = append(counts, severityCount{Severity: strings.ToLower(severity), Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		return gosonar.SeverityRank(strings.ToUpper(counts[i].Severity)) > gosonar.SeverityRank(strings.ToUpper(counts[j].Severity))
	})
	return counts
}
