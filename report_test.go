package gosonar_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/gosonar"
)

var _ = Describe("ReportInfo", func() {
	Describe("NewReportInfo", func() {
		It("should create a report with issues, components and metrics", func() {
			issues := []*gosonar.Issue{
				{Key: "AX-1", Rule: "go:S1192", Component: "project:a.go", Severity: gosonar.SeverityMajor, Effort: "5min"},
				{Key: "AX-2", Rule: "go:S3776", Component: "project:b.go", Severity: gosonar.SeverityCritical, Effort: "1h"},
			}
			components := []*gosonar.Component{{Key: "project:a.go", Name: "a.go"}}
			gate := &gosonar.ProjectStatus{Status: gosonar.QualityGateOK}

			report := gosonar.NewReportInfo(issues, components, gate)
			Expect(report).ShouldNot(BeNil())
			Expect(report.Issues).Should(HaveLen(2))
			Expect(report.Components).Should(HaveLen(1))
			Expect(report.QualityGate).Should(Equal(gate))
			Expect(report.Stats.NumFound).Should(Equal(2))
			Expect(report.Stats.NumFiles).Should(Equal(2))
			Expect(report.Stats.NumEffort).Should(Equal(65))
		})

		It("should handle empty issues", func() {
			report := gosonar.NewReportInfo(nil, nil, nil)
			Expect(report).ShouldNot(BeNil())
			Expect(report.Issues).Should(BeEmpty())
			Expect(report.Stats.NumFound).Should(BeZero())
			Expect(report.Stats.BySeverity).Should(BeEmpty())
		})
	})

	Describe("WithVersion and WithServerURL", func() {
		It("should set the provenance of the report", func() {
			report := gosonar.NewReportInfo(nil, nil, nil).
				WithVersion("1.0.0").
				WithServerURL("https://sonar.example.com")
			Expect(report.Version).Should(Equal("1.0.0"))
			Expect(report.ServerURL).Should(Equal("https://sonar.example.com"))
		})
	})
})

var _ = Describe("NewMetrics", func() {
	It("should count issues per severity and distinct files", func() {
		metrics := gosonar.NewMetrics([]*gosonar.Issue{
			{Component: "p:a.go", Severity: gosonar.SeverityMajor},
			{Component: "p:a.go", Severity: gosonar.SeverityMajor},
			{Component: "p:b.go", Severity: gosonar.SeverityBlocker, Effort: "1d"},
		})
		Expect(metrics.NumFound).Should(Equal(3))
		Expect(metrics.NumFiles).Should(Equal(2))
		Expect(metrics.NumEffort).Should(Equal(480))
		Expect(metrics.BySeverity).Should(Equal(map[string]int{
			gosonar.SeverityMajor:   2,
			gosonar.SeverityBlocker: 1,
		}))
	})
})

var _ = Describe("SeverityRank", func() {
	It("should order severities", func() {
		Expect(gosonar.SeverityRank(gosonar.SeverityInfo)).Should(BeNumerically("<", gosonar.SeverityRank(gosonar.SeverityMinor)))
		Expect(gosonar.SeverityRank(gosonar.SeverityMinor)).Should(BeNumerically("<", gosonar.SeverityRank(gosonar.SeverityMajor)))
		Expect(gosonar.SeverityRank(gosonar.SeverityMajor)).Should(BeNumerically("<", gosonar.SeverityRank(gosonar.SeverityCritical)))
		Expect(gosonar.SeverityRank(gosonar.SeverityCritical)).Should(BeNumerically("<", gosonar.SeverityRank(gosonar.SeverityBlocker)))
	})

	It("should rank unknown severities below INFO", func() {
		Expect(gosonar.SeverityRank("HIGH")).Should(Equal(-1))
	})
})

var _ = Describe("ComponentPath", func() {
	DescribeTable("strips the project key",
		func(component, expected string) {
			Expect(gosonar.ComponentPath(component)).Should(Equal(expected))
		},
		Entry("file", "my-project:src/main.go", "src/main.go"),
		Entry("branch qualified project", "org:project:pkg/a.go", "project:pkg/a.go"),
		Entry("project only", "my-project", "my-project"),
	)
})

var _ = Describe("EffortMinutes", func() {
	DescribeTable("converts SonarQube durations",
		func(effort string, expected int) {
			Expect(gosonar.EffortMinutes(effort)).Should(Equal(expected))
		},
		Entry("minutes", "5min", 5),
		Entry("hours", "2h", 120),
		Entry("days of 8 hours", "1d", 480),
		Entry("combined", "1d2h30min", 630),
		Entry("spaces", "1h 10min", 70),
		Entry("empty", "", 0),
		Entry("malformed", "soon", 0),
		Entry("missing unit", "10", 0),
	)
})
