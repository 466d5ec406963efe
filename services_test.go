package gosonar_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/gosonar"
)

const mockURL = "https://sonar.example.com"

// capture answers body and records the parameters of the last request,
// from the query string or the form body
func capture(params *url.Values, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		if err := req.ParseForm(); err != nil {
			return nil, err
		}
		*params = req.Form
		return httpmock.NewStringResponse(http.StatusOK, body), nil
	}
}

var _ = Describe("Services", func() {
	var (
		transport *httpmock.MockTransport
		client    *gosonar.Client
		ctx       context.Context
		params    url.Values
	)

	BeforeEach(func() {
		ctx = context.Background()
		params = nil
		transport = httpmock.NewMockTransport()
		var err error
		client, err = gosonar.NewClient(mockURL,
			gosonar.WithHTTPClient(&http.Client{Transport: transport}),
			gosonar.WithMaxRetries(0))
		Expect(err).NotTo(HaveOccurred())
	})

	register := func(method, path string, responder httpmock.Responder) {
		transport.RegisterResponder(method, mockURL+path, responder)
	}

	Describe("Issues", func() {
		It("should page through every issue", func() {
			page := 0
			register(http.MethodGet, "/api/issues/search", func(req *http.Request) (*http.Response, error) {
				page++
				Expect(req.URL.Query().Get("p")).To(Equal(fmt.Sprint(page)))
				Expect(req.URL.Query().Get("ps")).To(Equal("500"))
				body := fmt.Sprintf(`{"paging":{"pageIndex":%d,"pageSize":500,"total":501},"issues":[{"key":"AX-%d","rule":"go:S1","component":"p:a.go","project":"p"}]}`, page, page)
				return httpmock.NewStringResponse(http.StatusOK, body), nil
			})

			issues, err := client.Issues.SearchAll(ctx, &gosonar.IssueSearchOptions{ProjectKeys: []string{"p"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(2))
			Expect(transport.GetTotalCallCount()).To(Equal(2))
		})

		It("should stop at the search window", func() {
			register(http.MethodGet, "/api/issues/search", httpmock.NewStringResponder(http.StatusOK,
				`{"p":1,"ps":500,"total":50000,"issues":[{"key":"AX","rule":"go:S1","component":"p:a.go","project":"p"}]}`))

			_, err := client.Issues.SearchAll(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(transport.GetTotalCallCount()).To(Equal(20))
		})

		It("should not ask past the search window when the page size does not divide it", func() {
			register(http.MethodGet, "/api/issues/search", func(req *http.Request) (*http.Response, error) {
				page, _ := strconv.Atoi(req.URL.Query().Get("p"))
				size, _ := strconv.Atoi(req.URL.Query().Get("ps"))
				if page*size > 10000 {
					return httpmock.NewStringResponse(http.StatusBadRequest,
						fmt.Sprintf(`{"errors":[{"msg":"Can return only the first 10000 results. %dth result asked."}]}`, page*size)), nil
				}
				body := fmt.Sprintf(`{"paging":{"pageIndex":%d,"pageSize":%d,"total":50000},"issues":[{"key":"AX-%d","rule":"go:S1","component":"p:a.go","project":"p"}]}`, page, size, page)
				return httpmock.NewStringResponse(http.StatusOK, body), nil
			})

			issues, err := client.Issues.SearchAll(ctx, &gosonar.IssueSearchOptions{ListOptions: gosonar.ListOptions{PageSize: 300}})
			Expect(err).NotTo(HaveOccurred())
			Expect(issues).To(HaveLen(33))
			Expect(transport.GetTotalCallCount()).To(Equal(33))
		})

		It("should unwrap the changed issue", func() {
			register(http.MethodPost, "/api/issues/add_comment", capture(&params,
				`{"issue":{"key":"AX-1","rule":"go:S1","component":"p:a.go","project":"p","comments":[{"key":"c1","login":"admin","markdown":"looks fine"}]},"components":[]}`))

			issue, err := client.Issues.AddComment(ctx, "AX-1", "looks fine")
			Expect(err).NotTo(HaveOccurred())
			Expect(issue.Key).To(Equal("AX-1"))
			Expect(issue.Comments).To(HaveLen(1))
			Expect(params.Get("issue")).To(Equal("AX-1"))
			Expect(params.Get("text")).To(Equal("looks fine"))
		})
	})

	Describe("Projects", func() {
		It("should default the qualifier of projects", func() {
			register(http.MethodGet, "/api/projects/search", httpmock.NewStringResponder(http.StatusOK,
				`{"paging":{"pageIndex":1,"pageSize":500,"total":1},"components":[{"key":"backend","name":"Backend"}]}`))

			projects, err := client.Projects.SearchAll(ctx, &gosonar.ProjectSearchOptions{Query: "back"})
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(1))
			Expect(projects[0].Qualifier).To(Equal("TRK"))
		})

		It("should stop the project walk inside the search window", func() {
			register(http.MethodGet, "/api/projects/search", func(req *http.Request) (*http.Response, error) {
				page, _ := strconv.Atoi(req.URL.Query().Get("p"))
				size, _ := strconv.Atoi(req.URL.Query().Get("ps"))
				if page*size > 10000 {
					return httpmock.NewStringResponse(http.StatusBadRequest, `{"errors":[{"msg":"Can return only the first 10000 results"}]}`), nil
				}
				body := fmt.Sprintf(`{"paging":{"pageIndex":%d,"pageSize":%d,"total":20000},"components":[{"key":"p-%d","name":"P"}]}`, page, size, page)
				return httpmock.NewStringResponse(http.StatusOK, body), nil
			})

			projects, err := client.Projects.SearchAll(ctx, &gosonar.ProjectSearchOptions{ListOptions: gosonar.ListOptions{PageSize: 300}})
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(33))
		})

		It("should validate the parameters before any request", func() {
			_, err := client.Projects.Create(ctx, &gosonar.ProjectCreateOptions{Name: "Backend"})
			Expect(err).To(HaveOccurred())
			Expect(transport.GetTotalCallCount()).To(BeZero())
		})
	})

	Describe("QualityGates", func() {
		It("should read the project status", func() {
			register(http.MethodGet, "/api/qualitygates/project_status", capture(&params,
				`{"projectStatus":{"status":"ERROR","conditions":[{"status":"ERROR","metricKey":"coverage","comparator":"LT","errorThreshold":"80","actualValue":"12"}]}}`))

			status, err := client.QualityGates.ProjectStatus(ctx, &gosonar.ProjectStatusOptions{ProjectKey: "backend", Branch: "main"})
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Passed()).To(BeFalse())
			Expect(status.Conditions[0].MetricKey).To(Equal("coverage"))
			Expect(params.Get("projectKey")).To(Equal("backend"))
			Expect(params.Get("branch")).To(Equal("main"))
		})

		It("should require an analysis, a project ID or a project key", func() {
			_, err := client.QualityGates.ProjectStatus(ctx, &gosonar.ProjectStatusOptions{Branch: "main"})
			Expect(err).To(HaveOccurred())
		})

		It("should accept numeric and string identifiers", func() {
			register(http.MethodGet, "/api/qualitygates/list", httpmock.NewStringResponder(http.StatusOK,
				`{"qualitygates":[{"id":9,"name":"Sonar way","isDefault":true},{"id":"AX-10","name":"Strict"}],"default":9}`))

			list, err := client.QualityGates.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.QualityGates[0].ID).To(Equal(gosonar.ID("9")))
			Expect(list.QualityGates[1].ID).To(Equal(gosonar.ID("AX-10")))
			Expect(list.Default).To(Equal(gosonar.ID("9")))
		})
	})

	Describe("QualityProfiles", func() {
		It("should encode the rule parameters", func() {
			register(http.MethodPost, "/api/qualityprofiles/activate_rule", capture(&params, ""))

			err := client.QualityProfiles.ActivateRule(ctx, &gosonar.ActivateRuleOptions{
				Key:    "AU-1",
				Rule:   "go:S107",
				Params: map[string]string{"max": "7", "ignore": "true"},
				Reset:  gosonar.Bool(false),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(params.Get("params")).To(Equal("ignore=true;max=7"))
			Expect(params.Get("reset")).To(Equal("false"))
		})

		It("should return the XML backup", func() {
			register(http.MethodGet, "/api/qualityprofiles/backup", httpmock.NewStringResponder(http.StatusOK, "<profile/>"))

			backup, err := client.QualityProfiles.Backup(ctx, "go", "Sonar way")
			Expect(err).NotTo(HaveOccurred())
			Expect(backup).To(Equal("<profile/>"))
		})
	})

	Describe("Rules", func() {
		It("should unwrap the created rule", func() {
			register(http.MethodPost, "/api/rules/create", capture(&params, `{"rule":{"key":"go:custom","name":"Custom"}}`))

			rule, err := client.Rules.Create(ctx, &gosonar.RuleCreateOptions{
				CustomKey:           "custom",
				TemplateKey:         "go:S124",
				Name:                "Custom",
				MarkdownDescription: "desc",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rule.Key).To(Equal("go:custom"))
			Expect(params.Get("templateKey")).To(Equal("go:S124"))
		})
	})

	Describe("Settings", func() {
		It("should repeat the multi values", func() {
			register(http.MethodPost, "/api/settings/set", capture(&params, ""))

			err := client.Settings.Set(ctx, &gosonar.SetSettingOptions{
				SettingLocation: gosonar.SettingLocation{Component: "backend"},
				Key:             "sonar.exclusions",
				Values:          []string{"**/vendor/**", "**/*_test.go"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(params["values"]).To(Equal([]string{"**/vendor/**", "**/*_test.go"}))
			Expect(params.Get("component")).To(Equal("backend"))
		})

		It("should need a key to reset", func() {
			Expect(client.Settings.Reset(ctx, nil, nil)).NotTo(Succeed())
		})
	})

	Describe("Sources", func() {
		It("should return the raw source", func() {
			register(http.MethodGet, "/api/sources/raw", httpmock.NewStringResponder(http.StatusOK, "package main\n"))

			raw, err := client.Sources.Raw(ctx, "p:main.go", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(Equal("package main\n"))
		})

		It("should keep the indentation of source lines", func() {
			register(http.MethodGet, "/api/sources/lines", httpmock.NewStringResponder(http.StatusOK,
				`{"sources":[{"line":1,"code":"func main() {"},{"line":2,"code":"\treturn "}]}`))

			lines, err := client.Sources.Lines(ctx, &gosonar.SourceLinesOptions{Key: "p:main.go"})
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(2))
			Expect(lines[1].Code).To(Equal("\treturn "))
		})
	})

	Describe("Measures", func() {
		It("should find a measure by metric", func() {
			register(http.MethodGet, "/api/measures/component", capture(&params,
				`{"component":{"key":"backend","measures":[{"metric":"coverage","value":"81.5"}]}}`))

			resp, err := client.Measures.Component(ctx, &gosonar.ComponentMeasuresOptions{
				Component:  "backend",
				MetricKeys: []string{"coverage", "bugs"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Component.Measure("coverage").Value).To(Equal("81.5"))
			Expect(resp.Component.Measure("bugs")).To(BeNil())
			Expect(params.Get("metricKeys")).To(Equal("coverage,bugs"))
		})
	})

	Describe("Users and tokens", func() {
		It("should unwrap the deactivated user", func() {
			register(http.MethodPost, "/api/users/deactivate", capture(&params, `{"user":{"login":"jdoe","name":"John","active":false}}`))

			user, err := client.Users.Deactivate(ctx, "jdoe", gosonar.Bool(true))
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Login).To(Equal("jdoe"))
			Expect(params.Get("anonymize")).To(Equal("true"))
		})

		It("should generate a token", func() {
			register(http.MethodPost, "/api/user_tokens/generate", capture(&params, `{"login":"jdoe","name":"ci","token":"squ_1"}`))

			token, err := client.UserTokens.Generate(ctx, &gosonar.GenerateTokenOptions{Name: "ci", Type: gosonar.GlobalAnalysisToken})
			Expect(err).NotTo(HaveOccurred())
			Expect(token.Token).To(Equal("squ_1"))
			Expect(params.Get("type")).To(Equal(gosonar.GlobalAnalysisToken))
		})
	})

	Describe("Applications", func() {
		It("should repeat the project and the project branch keys", func() {
			register(http.MethodPost, "/api/applications/create_branch", capture(&params, ""))

			err := client.Applications.CreateBranch(ctx, &gosonar.ApplicationBranchOptions{
				Application:     "portal",
				Branch:          "release",
				Name:            "ignored",
				Projects:        []string{"backend", "frontend"},
				ProjectBranches: []string{"release-1", "release-2"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(params["project"]).To(Equal([]string{"backend", "frontend"}))
			Expect(params["projectBranch"]).To(Equal([]string{"release-1", "release-2"}))
			Expect(params.Get("branch")).To(Equal("release"))
			Expect(params.Has("name")).To(BeFalse())
		})

		It("should join the tags", func() {
			register(http.MethodPost, "/api/applications/set_tags", capture(&params, ""))

			Expect(client.Applications.SetTags(ctx, "portal", []string{"team-a", "critical"})).To(Succeed())
			Expect(params.Get("application")).To(Equal("portal"))
			Expect(params.Get("tags")).To(Equal("team-a,critical"))
		})

		It("should send empty tags to clear them", func() {
			register(http.MethodPost, "/api/applications/set_tags", capture(&params, ""))

			Expect(client.Applications.SetTags(ctx, "portal", nil)).To(Succeed())
			Expect(params.Has("tags")).To(BeTrue())
			Expect(params.Get("tags")).To(BeEmpty())
		})

		It("should unwrap the application", func() {
			register(http.MethodGet, "/api/applications/show", capture(&params,
				`{"application":{"key":"portal","name":"Portal","projects":[{"key":"backend","name":"Backend"}],"branches":[{"name":"main","isMain":true}]}}`))

			app, err := client.Applications.Show(ctx, "portal", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(app.Projects).To(HaveLen(1))
			Expect(app.Branches[0].IsMain).To(BeTrue())
			Expect(params.Has("branch")).To(BeFalse())
		})
	})

	Describe("Components", func() {
		It("should require a qualifier", func() {
			_, err := client.Components.Search(ctx, &gosonar.ComponentSearchOptions{Query: "back"})
			Expect(err).To(HaveOccurred())
			_, err = client.Components.Search(ctx, nil)
			Expect(err).To(HaveOccurred())
			Expect(transport.GetTotalCallCount()).To(BeZero())
		})

		It("should join the qualifiers", func() {
			register(http.MethodGet, "/api/components/search", capture(&params,
				`{"paging":{"pageIndex":1,"pageSize":100,"total":1},"components":[{"key":"backend","qualifier":"TRK"}]}`))

			resp, err := client.Components.Search(ctx, &gosonar.ComponentSearchOptions{Qualifiers: []string{"TRK", "APP"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Components).To(HaveLen(1))
			Expect(params.Get("qualifiers")).To(Equal("TRK,APP"))
		})

		It("should walk the tree of a component", func() {
			register(http.MethodGet, "/api/components/tree", capture(&params,
				`{"paging":{"pageIndex":1,"pageSize":100,"total":1},"baseComponent":{"key":"backend"},"components":[{"key":"backend:main.go","qualifier":"FIL","path":"main.go"}]}`))

			resp, err := client.Components.Tree(ctx, &gosonar.ComponentTreeOptions{Component: "backend", Strategy: "leaves"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.BaseComponent.Key).To(Equal("backend"))
			Expect(resp.Components[0].Path).To(Equal("main.go"))
			Expect(params.Get("strategy")).To(Equal("leaves"))
		})
	})

	Describe("Hotspots", func() {
		It("should post the review of a hotspot", func() {
			register(http.MethodPost, "/api/hotspots/change_status", func(req *http.Request) (*http.Response, error) {
				Expect(req.Header.Get("Content-Type")).To(Equal("application/x-www-form-urlencoded"))
				Expect(req.URL.RawQuery).To(BeEmpty())
				return capture(&params, "")(req)
			})

			Expect(client.Hotspots.ChangeStatus(ctx, "AY-1", "REVIEWED", "SAFE", "not reachable")).To(Succeed())
			Expect(params.Get("hotspot")).To(Equal("AY-1"))
			Expect(params.Get("status")).To(Equal("REVIEWED"))
			Expect(params.Get("resolution")).To(Equal("SAFE"))
			Expect(params.Get("comment")).To(Equal("not reachable"))
		})

		It("should leave the optional fields out", func() {
			register(http.MethodPost, "/api/hotspots/change_status", capture(&params, ""))

			Expect(client.Hotspots.ChangeStatus(ctx, "AY-1", "TO_REVIEW", "", "")).To(Succeed())
			Expect(params.Has("resolution")).To(BeFalse())
			Expect(params.Has("comment")).To(BeFalse())
		})

		It("should search the hotspots of a project", func() {
			register(http.MethodGet, "/api/hotspots/search", capture(&params,
				`{"paging":{"pageIndex":1,"pageSize":100,"total":1},"hotspots":[{"key":"AY-1","component":"backend:main.go","project":"backend","status":"TO_REVIEW"}]}`))

			resp, err := client.Hotspots.Search(ctx, &gosonar.HotspotSearchOptions{ProjectKey: "backend", Status: "TO_REVIEW"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Hotspots).To(HaveLen(1))
			Expect(params.Get("projectKey")).To(Equal("backend"))
		})
	})

	Describe("System", func() {
		It("should map the server errors", func() {
			register(http.MethodGet, "/api/system/info", httpmock.NewStringResponder(http.StatusForbidden, `{"errors":[{"msg":"Insufficient privileges"}]}`))

			_, err := client.System.Info(ctx)
			Expect(gosonar.IsPermissionError(err)).To(BeTrue())
			Expect(errors.Is(err, gosonar.ErrPermission)).To(BeTrue())
		})
	})
})
