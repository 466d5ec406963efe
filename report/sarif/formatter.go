package sarif

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/securego/gosonar"
)

const informationURI = "https://github.com/securego/gosonar/"

// GenerateReport converts SonarQube issues to a Sarif Report
func GenerateReport(data *gosonar.ReportInfo) (*Report, error) {
	type rule struct {
		index int
		rule  *ReportingDescriptor
	}

	rules := make([]*ReportingDescriptor, 0)
	rulesIndices := make(map[string]rule)
	lastRuleIndex := -1

	results := []*Result{}

	for _, issue := range data.Issues {
		r, ok := rulesIndices[issue.Rule]
		if !ok {
			lastRuleIndex++
			r = rule{index: lastRuleIndex, rule: parseSarifRule(issue, data.ServerURL)}
			rulesIndices[issue.Rule] = r
			rules = append(rules, r.rule)
		}

		result := NewResult(r.rule.ID, r.index, getSarifLevel(issue.Severity), issue.Message,
			buildSarifSuppressions(issue), data.Autofix[issue.Key]).
			WithLocations(parseSarifLocation(issue)).
			WithFingerprint("primaryLocationLineHash", issue.Hash)

		results = append(results, result)
	}

	// rule indices must follow the order of the rules array
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	positions := make(map[string]int, len(rules))
	for i, r := range rules {
		positions[r.ID] = i
	}
	for _, result := range results {
		result.RuleIndex = positions[result.RuleID]
	}

	tool := NewTool(buildSarifDriver(rules, data.Version))

	run := NewRun(tool).
		WithResults(results...)

	return NewReport(Version, Schema).
		WithRuns(run), nil
}

// parseSarifRule return SARIF rule field struct
func parseSarifRule(issue *gosonar.Issue, serverURL string) *ReportingDescriptor {
	descriptor := &ReportingDescriptor{
		ID:               issue.Rule,
		Name:             issue.Rule,
		GUID:             uuid3(issue.Rule),
		ShortDescription: NewMultiformatMessageString(issue.Message),
		FullDescription:  NewMultiformatMessageString(issue.Message),
		Help: NewMultiformatMessageString(fmt.Sprintf("%s\nSeverity: %s\nType: %s\n",
			issue.Message, issue.Severity, issue.Type)),
		DefaultConfiguration: &ReportingConfiguration{
			Level: getSarifLevel(issue.Severity),
		},
	}
	if serverURL != "" {
		descriptor.HelpURI = strings.TrimSuffix(serverURL, "/") + "/coding_rules?open=" + issue.Rule + "&rule_key=" + issue.Rule
	}
	if len(issue.Tags) > 0 {
		descriptor.Properties = &PropertyBag{Tags: issue.Tags}
	}
	return descriptor
}

func parseSemanticVersion(version string) string {
	if len(version) == 0 {
		return "devel"
	}
	if strings.HasPrefix(version, "v") {
		return version[1:]
	}
	return version
}

func buildSarifDriver(rules []*ReportingDescriptor, version string) *ToolComponent {
	semanticVersion := parseSemanticVersion(version)
	return NewToolComponent("gosonar", version, informationURI).
		WithSemanticVersion(semanticVersion).
		WithRules(rules...)
}

func uuid3(value string) string {
	return uuid.NewMD5(uuid.Nil, []byte(value)).String()
}

// parseSarifLocation return SARIF location struct
func parseSarifLocation(issue *gosonar.Issue) *Location {
	artifactLocation := NewArtifactLocation(gosonar.ComponentPath(issue.Component))
	return NewLocation(NewPhysicalLocation(artifactLocation, parseSarifRegion(issue)))
}

// parseSarifRegion converts the 0-based offsets of the text range to 1-based columns
func parseSarifRegion(issue *gosonar.Issue) *Region {
	if r := issue.TextRange; r != nil && r.StartLine > 0 {
		endLine := r.EndLine
		if endLine < r.StartLine {
			endLine = r.StartLine
		}
		return NewRegion(r.StartLine, endLine, r.StartOffset+1, r.EndOffset+1)
	}
	if issue.Line > 0 {
		return NewRegion(issue.Line, issue.Line, 0, 0)
	}
	return nil
}

func getSarifLevel(severity string) Level {
	switch severity {
	case gosonar.SeverityBlocker, gosonar.SeverityCritical:
		return Error
	case gosonar.SeverityMajor:
		return Warning
	case gosonar.SeverityMinor, gosonar.SeverityInfo:
		return Note
	default:
		return None
	}
}

// buildSarifSuppressions marks issues resolved as false positive or won't fix
func buildSarifSuppressions(issue *gosonar.Issue) []*Suppression {
	switch issue.Resolution {
	case "FALSE-POSITIVE", "WONTFIX":
		return []*Suppression{NewSuppression("external", issue.Resolution)}
	}
	if issue.Status == "ACCEPTED" {
		return []*Suppression{NewSuppression("external", issue.Status)}
	}
	return nil
}
