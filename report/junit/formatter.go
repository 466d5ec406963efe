package junit

import (
	"fmt"
	"html"

	"github.com/securego/gosonar"
)

const gateSuiteName = "Quality Gate"

func generatePlaintext(issue *gosonar.Issue) string {
	line := ""
	if issue.Line > 0 {
		line = fmt.Sprintf(":%d", issue.Line)
	}
	return "Results:\n" +
		"[" + issue.Component + line + "] - " +
		html.EscapeString(issue.Message) + " (Severity: " + issue.Severity +
		", Type: " + issue.Type + ", Key: " + issue.Key + ")"
}

func conditionName(condition *gosonar.ProjectStatusCondition) string {
	return fmt.Sprintf("%s %s %s", condition.MetricKey, condition.Comparator, condition.ErrorThreshold)
}

// GenerateReport converts SonarQube data to a JUnit Report. Issues are grouped
// by rule, quality gate conditions become test cases failing on ERROR.
func GenerateReport(data *gosonar.ReportInfo) Report {
	var xmlReport Report
	testsuites := map[string]int{}

	for _, issue := range data.Issues {
		index, ok := testsuites[issue.Rule]
		if !ok {
			xmlReport.Testsuites = append(xmlReport.Testsuites, NewTestsuite(issue.Rule))
			index = len(xmlReport.Testsuites) - 1
			testsuites[issue.Rule] = index
		}
		failure := NewFailure("Found 1 issue. See stacktrace for details.", generatePlaintext(issue))
		testcase := NewTestcase(issue.Component, failure)

		xmlReport.Testsuites[index].Testcases = append(xmlReport.Testsuites[index].Testcases, testcase)
		xmlReport.Testsuites[index].Tests++
		xmlReport.Testsuites[index].Failures++
	}

	if gate := data.QualityGate; gate != nil {
		suite := NewTestsuite(gateSuiteName)
		for _, condition := range gate.Conditions {
			var failure *Failure
			if condition.Status == gosonar.QualityGateError {
				failure = NewFailure("Condition failed",
					fmt.Sprintf("%s: actual value %s", conditionName(condition), html.EscapeString(condition.ActualValue)))
				suite.Failures++
			}
			suite.Testcases = append(suite.Testcases, NewTestcase(conditionName(condition), failure))
			suite.Tests++
		}
		xmlReport.Testsuites = append(xmlReport.Testsuites, suite)
	}

	return xmlReport
}
