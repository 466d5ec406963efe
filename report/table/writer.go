package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/securego/gosonar"
)

// WriteReport write the issues as a table to the output writer
func WriteReport(w io.Writer, data *gosonar.ReportInfo) error {
	if gate := data.QualityGate; gate != nil {
		if _, err := fmt.Fprintf(w, "Quality gate: %s\n", gate.Status); err != nil {
			return err
		}
		conditions := tablewriter.NewWriter(w)
		conditions.Header("METRIC", "COMPARATOR", "THRESHOLD", "ACTUAL", "STATUS")
		for _, c := range gate.Conditions {
			if err := conditions.Append([]string{c.MetricKey, c.Comparator, c.ErrorThreshold, c.ActualValue, c.Status}); err != nil {
				return err
			}
		}
		if err := conditions.Render(); err != nil {
			return err
		}
	}

	issues := tablewriter.NewWriter(w)
	issues.Header("SEVERITY", "TYPE", "FILE", "LINE", "RULE", "MESSAGE")
	for _, issue := range data.Issues {
		line := ""
		if issue.Line > 0 {
			line = strconv.Itoa(issue.Line)
		}
		row := []string{issue.Severity, issue.Type, gosonar.ComponentPath(issue.Component), line, issue.Rule, issue.Message}
		if err := issues.Append(row); err != nil {
			return err
		}
	}
	if err := issues.Render(); err != nil {
		return err
	}
	if data.Stats != nil {
		_, err := fmt.Fprintf(w, "%d issues in %d files, %d min of effort\n", data.Stats.NumFound, data.Stats.NumFiles, data.Stats.NumEffort)
		return err
	}
	return nil
}
