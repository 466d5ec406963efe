package main

import (
	"sort"

	"github.com/securego/gosonar"
)

type sortBySeverity []*gosonar.Issue

func (s sortBySeverity) Len() int { return len(s) }

func (s sortBySeverity) Less(i, j int) bool {
	if s[i].Severity == s[j].Severity {
		if s[i].Rule == s[j].Rule {
			if s[i].Component == s[j].Component {
				return s[i].Line > s[j].Line
			}
			return s[i].Component > s[j].Component
		}
		return s[i].Rule > s[j].Rule
	}
	return gosonar.SeverityRank(s[i].Severity) > gosonar.SeverityRank(s[j].Severity)
}

func (s sortBySeverity) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// sortIssues sorts the issues by severity in descending order
func sortIssues(issues []*gosonar.Issue) {
	sort.Sort(sortBySeverity(issues))
}
