package csv

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/securego/gosonar"
)

var header = []string{"key", "component", "line", "rule", "severity", "type", "status", "message", "effort", "tags"}

// WriteReport write a report in csv format to the output writer
func WriteReport(w io.Writer, data *gosonar.ReportInfo) error {
	out := csv.NewWriter(w)
	defer out.Flush()
	if err := out.Write(header); err != nil {
		return err
	}
	for _, issue := range data.Issues {
		line := ""
		if issue.Line > 0 {
			line = strconv.Itoa(issue.Line)
		}
		err := out.Write([]string{
			issue.Key,
			issue.Component,
			line,
			issue.Rule,
			issue.Severity,
			issue.Type,
			issue.Status,
			issue.Message,
			issue.Effort,
			strings.Join(issue.Tags, " "),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
