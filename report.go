package gosonar

import "strings"

// Issue severities, from the least to the most severe
const (
	SeverityInfo     = "INFO"
	SeverityMinor    = "MINOR"
	SeverityMajor    = "MAJOR"
	SeverityCritical = "CRITICAL"
	SeverityBlocker  = "BLOCKER"
)

var severityRanks = map[string]int{
	SeverityInfo:     0,
	SeverityMinor:    1,
	SeverityMajor:    2,
	SeverityCritical: 3,
	SeverityBlocker:  4,
}

// SeverityRank orders severities, unknown ones rank below INFO
func SeverityRank(severity string) int {
	if rank, ok := severityRanks[severity]; ok {
		return rank
	}
	return -1
}

// Metrics summarizes the issues of a report
type Metrics struct {
	NumFiles   int            `json:"files"`
	NumFound   int            `json:"found"`
	NumEffort  int            `json:"effort"`
	BySeverity map[string]int `json:"severities"`
}

// ReportInfo holds the SonarQube data rendered by the report writers
type ReportInfo struct {
	Issues      []*Issue          `json:"Issues"`
	Components  []*Component      `json:"Components,omitempty" yaml:",omitempty"`
	QualityGate *ProjectStatus    `json:"QualityGate,omitempty" yaml:",omitempty"`
	Autofix     map[string]string `json:"Autofix,omitempty" yaml:",omitempty"`
	Stats       *Metrics          `json:"Stats"`
	ServerURL   string            `json:"ServerURL,omitempty" yaml:",omitempty"`
	Version     string            `json:"Version,omitempty" yaml:",omitempty"`
}

// NewReportInfo instantiate a ReportInfo and computes its metrics
func NewReportInfo(issues []*Issue, components []*Component, gate *ProjectStatus) *ReportInfo {
	return &ReportInfo{
		Issues:      issues,
		Components:  components,
		QualityGate: gate,
		Stats:       NewMetrics(issues),
	}
}

// WithVersion defines the version of the tool that built the report
func (r *ReportInfo) WithVersion(version string) *ReportInfo {
	r.Version = version
	return r
}

// WithServerURL records the server the data was fetched from
func (r *ReportInfo) WithServerURL(url string) *ReportInfo {
	r.ServerURL = url
	return r
}

// NewMetrics counts issues per severity and the distinct files they are in
func NewMetrics(issues []*Issue) *Metrics {
	m := &Metrics{BySeverity: map[string]int{}}
	files := map[string]struct{}{}
	for _, issue := range issues {
		m.NumFound++
		m.BySeverity[issue.Severity]++
		m.NumEffort += EffortMinutes(issue.Effort)
		files[issue.Component] = struct{}{}
	}
	m.NumFiles = len(files)
	return m
}

// ComponentPath returns the file path of a component key, the part after
// the project key: "my-project:src/main.go" gives "src/main.go".
func ComponentPath(component string) string {
	if i := strings.Index(component, ":"); i >= 0 {
		return component[i+1:]
	}
	return component
}
