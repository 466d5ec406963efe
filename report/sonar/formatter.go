package sonar

import (
	"github.com/securego/gosonar"
)

const (
	// EffortMinutes is the effort to fix used when an issue has none
	EffortMinutes = 5
	// EngineID identifies the issues imported from a report
	EngineID = "sonarqube"
)

// GenerateReport converts SonarQube issues to the generic issue import format
func GenerateReport(data *gosonar.ReportInfo) (*Report, error) {
	si := &Report{Issues: []*Issue{}}
	for _, issue := range data.Issues {
		filePath := gosonar.ComponentPath(issue.Component)
		if filePath == "" || filePath == issue.Project {
			continue
		}

		primaryLocation := NewLocation(issue.Message, filePath, parseTextRange(issue.TextRange, issue.Line))
		s := NewIssue(EngineID, issue.Rule, primaryLocation, getSonarType(issue.Type), getSonarSeverity(issue.Severity), effort(issue)).
			WithSecondaryLocations(parseSecondaryLocations(issue)...)
		si.Issues = append(si.Issues, s)
	}
	return si, nil
}

func effort(issue *gosonar.Issue) int {
	value := issue.Effort
	if value == "" {
		value = issue.Debt
	}
	if minutes := gosonar.EffortMinutes(value); minutes > 0 {
		return minutes
	}
	return EffortMinutes
}

func parseTextRange(textRange *gosonar.TextRange, line int) *TextRange {
	if textRange != nil && textRange.StartLine > 0 {
		return &TextRange{
			StartLine:   textRange.StartLine,
			EndLine:     textRange.EndLine,
			StartColumn: textRange.StartOffset,
			EndColumn:   textRange.EndOffset,
		}
	}
	if line > 0 {
		return NewTextRange(line, line)
	}
	return nil
}

func parseSecondaryLocations(issue *gosonar.Issue) []*Location {
	var locations []*Location
	for _, flow := range issue.Flows {
		for _, location := range flow.Locations {
			filePath := gosonar.ComponentPath(location.Component)
			if filePath == "" {
				filePath = gosonar.ComponentPath(issue.Component)
			}
			locations = append(locations, NewLocation(location.Msg, filePath, parseTextRange(location.TextRange, 0)))
		}
	}
	return locations
}

func getSonarType(s string) string {
	switch s {
	case "BUG", "VULNERABILITY", "CODE_SMELL":
		return s
	default:
		return "CODE_SMELL"
	}
}

func getSonarSeverity(s string) string {
	switch s {
	case gosonar.SeverityBlocker, gosonar.SeverityCritical, gosonar.SeverityMajor, gosonar.SeverityMinor:
		return s
	default:
		return gosonar.SeverityInfo
	}
}
