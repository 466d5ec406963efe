package gosonar_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/securego/gosonar"
)

type recordedRequest struct {
	method string
	path   string
	query  url.Values
	form   url.Values
	header http.Header
}

type fakeServer struct {
	*httptest.Server
	calls    atomic.Int32
	last     atomic.Pointer[recordedRequest]
	handlers map[string]http.HandlerFunc
}

func newFakeServer() *fakeServer {
	s := &fakeServer{handlers: map[string]http.HandlerFunc{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		s.last.Store(&recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			form:   form,
			header: r.Header.Clone(),
		})
		if h, ok := s.handlers[r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	return s
}

func (s *fakeServer) reply(path string, status int, body string) {
	s.handlers[path] = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (s *fakeServer) lastRequest() *recordedRequest {
	return s.last.Load()
}

var _ = Describe("Client", func() {
	var (
		server *fakeServer
		client *gosonar.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = newFakeServer()
		var err error
		client, err = gosonar.NewClient(server.URL+"/", gosonar.WithToken("squ_abc"), gosonar.WithRetryWait(time.Millisecond, 5*time.Millisecond))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		client.Close()
		server.Close()
	})

	Context("when creating the client", func() {
		It("should reject an empty base URL", func() {
			_, err := gosonar.NewClient("  ")
			Expect(err).To(MatchError("base URL cannot be empty"))
		})

		It("should strip the trailing slash", func() {
			Expect(client.BaseURL()).To(Equal(server.URL))
		})

		It("should reject invalid options", func() {
			_, err := gosonar.NewClient(server.URL, gosonar.WithToken(""))
			Expect(err).To(HaveOccurred())
			_, err = gosonar.NewClient(server.URL, gosonar.WithTimeout(0))
			Expect(err).To(HaveOccurred())
			_, err = gosonar.NewClient(server.URL, gosonar.WithMaxRetries(-1))
			Expect(err).To(HaveOccurred())
			_, err = gosonar.NewClient(server.URL, gosonar.WithRateLimit(0, 1))
			Expect(err).To(HaveOccurred())
			_, err = gosonar.NewClient(server.URL, gosonar.WithRetryWait(time.Second, time.Millisecond))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when sending requests", func() {
		It("should send the headers and the query string of GET requests", func() {
			server.reply("/api/issues/search", http.StatusOK, `{"paging":{"pageIndex":1,"pageSize":100,"total":0},"issues":[]}`)

			_, err := client.Issues.Search(ctx, &gosonar.IssueSearchOptions{
				ListOptions:   gosonar.ListOptions{Page: 2, PageSize: 100},
				ComponentKeys: []string{"backend"},
				Severities:    []string{"MAJOR", "CRITICAL"},
				Resolved:      gosonar.Bool(false),
			})
			Expect(err).NotTo(HaveOccurred())

			req := server.lastRequest()
			Expect(req.method).To(Equal(http.MethodGet))
			Expect(req.header.Get("Accept")).To(Equal("application/json"))
			Expect(req.header.Get("User-Agent")).To(Equal(gosonar.DefaultUserAgent))
			Expect(req.header.Get("Authorization")).To(Equal(basic("squ_abc", "")))
			Expect(req.query.Get("p")).To(Equal("2"))
			Expect(req.query.Get("ps")).To(Equal("100"))
			Expect(req.query.Get("componentKeys")).To(Equal("backend"))
			Expect(req.query.Get("severities")).To(Equal("MAJOR,CRITICAL"))
			Expect(req.query.Get("resolved")).To(Equal("false"))
			Expect(req.query).NotTo(HaveKey("assigned"))
		})

		It("should send form encoded POST requests", func() {
			server.reply("/api/projects/create", http.StatusOK, `{"project":{"key":"backend","name":"Backend","qualifier":"TRK"}}`)

			project, err := client.Projects.Create(ctx, &gosonar.ProjectCreateOptions{Name: "Backend", Project: "backend"})
			Expect(err).NotTo(HaveOccurred())
			Expect(project.Key).To(Equal("backend"))

			req := server.lastRequest()
			Expect(req.method).To(Equal(http.MethodPost))
			Expect(req.header.Get("Content-Type")).To(Equal("application/x-www-form-urlencoded"))
			Expect(req.form.Get("name")).To(Equal("Backend"))
			Expect(req.form.Get("project")).To(Equal("backend"))
		})

		It("should switch credentials at runtime", func() {
			server.reply("/api/system/status", http.StatusOK, `{"id":"1","version":"10.4","status":"UP"}`)

			client.SetAuthenticator(nil)
			_, err := client.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.lastRequest().header.Get("Authorization")).To(BeEmpty())

			client.SetAuthenticator(gosonar.AuthFunc(func(r *http.Request) { r.Header.Set("X-API-Key", "k") }))
			_, err = client.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(server.lastRequest().header.Get("X-API-Key")).To(Equal("k"))
		})
	})

	Context("when decoding responses", func() {
		It("should trim required strings", func() {
			server.reply("/api/system/status", http.StatusOK, `{"id":" 1 ","version":"10.4 ","status":"UP"}`)
			status, err := client.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.ID).To(Equal("1"))
			Expect(status.Version).To(Equal("10.4"))
		})

		It("should fail on a missing required field", func() {
			server.reply("/api/system/status", http.StatusOK, `{"id":"1","status":"UP"}`)
			_, err := client.System.Status(ctx)
			var decodeErr *gosonar.DecodeError
			Expect(err).To(BeAssignableToTypeOf(decodeErr))
			Expect(err.Error()).To(ContainSubstring(`"version"`))
		})

		It("should accept empty bodies", func() {
			server.reply("/api/projects/delete", http.StatusNoContent, "")
			Expect(client.Projects.Delete(ctx, "backend")).To(Succeed())
		})

		It("should return plain text bodies", func() {
			server.reply("/api/system/ping", http.StatusOK, "pong")
			pong, err := client.System.Ping(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pong).To(Equal("pong"))
		})
	})

	Context("when the server fails", func() {
		It("should use the first error message of the body", func() {
			server.reply("/api/projects/delete", http.StatusNotFound, `{"errors":[{"msg":"Project 'x' not found"},{"msg":"second"}]}`)
			err := client.Projects.Delete(ctx, "x")
			Expect(gosonar.IsNotFound(err)).To(BeTrue())
			apiErr, ok := gosonar.AsAPIError(err)
			Expect(ok).To(BeTrue())
			Expect(apiErr.Message).To(Equal("Project 'x' not found"))
			Expect(apiErr.Errors).To(HaveLen(2))
			Expect(err.Error()).To(Equal("[404] Project 'x' not found: second"))
		})

		It("should use the raw body when it is not JSON", func() {
			server.reply("/api/projects/delete", http.StatusForbidden, "Insufficient privileges")
			err := client.Projects.Delete(ctx, "x")
			Expect(gosonar.IsPermissionError(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("[403] Insufficient privileges"))
		})

		It("should fall back to an unknown error", func() {
			server.reply("/api/projects/delete", http.StatusUnauthorized, "")
			err := client.Projects.Delete(ctx, "x")
			Expect(gosonar.IsAuthenticationError(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("[401] Unknown error"))
		})

		It("should retry on server errors", func() {
			var attempts atomic.Int32
			server.handlers["/api/system/status"] = func(w http.ResponseWriter, _ *http.Request) {
				if attempts.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = io.WriteString(w, `{"id":"1","version":"10.4","status":"UP"}`)
			}
			status, err := client.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Status).To(Equal("UP"))
			Expect(attempts.Load()).To(Equal(int32(3)))
		})

		It("should return the last answer once retries are exhausted", func() {
			server.reply("/api/system/status", http.StatusBadGateway, "bad gateway")
			_, err := client.System.Status(ctx)
			apiErr, ok := gosonar.AsAPIError(err)
			Expect(ok).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusBadGateway))
			Expect(server.calls.Load()).To(Equal(int32(gosonar.DefaultMaxRetries + 1)))
		})

		It("should not retry client errors", func() {
			server.reply("/api/projects/delete", http.StatusBadRequest, `{"errors":[{"msg":"invalid"}]}`)
			err := client.Projects.Delete(ctx, "x")
			Expect(gosonar.IsValidationError(err)).To(BeTrue())
			Expect(server.calls.Load()).To(Equal(int32(1)))
		})
	})

	Context("when the transport fails", func() {
		It("should report connection failures", func() {
			closed := httptest.NewServer(http.NotFoundHandler())
			closed.Close()
			c, err := gosonar.NewClient(closed.URL, gosonar.WithMaxRetries(0))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.System.Status(ctx)
			Expect(gosonar.IsConnectionError(err)).To(BeTrue())
		})

		It("should report timeouts", func() {
			server.handlers["/api/system/status"] = func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(200 * time.Millisecond)
			}
			c, err := gosonar.NewClient(server.URL, gosonar.WithMaxRetries(0), gosonar.WithTimeout(20*time.Millisecond))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.System.Status(ctx)
			Expect(gosonar.IsConnectionError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Request timed out after 20ms"))
		})
	})

	Context("with a rate limit", func() {
		It("should stop waiting when the context is done", func() {
			server.reply("/api/system/status", http.StatusOK, `{"id":"1","version":"10.4","status":"UP"}`)
			c, err := gosonar.NewClient(server.URL, gosonar.WithRateLimit(0.001, 1))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err = c.System.Status(cancelled)
			Expect(gosonar.IsConnectionError(err)).To(BeTrue())
		})

		It("should wait on the limiter before every retry", func() {
			var attempts atomic.Int32
			server.handlers["/api/system/status"] = func(w http.ResponseWriter, _ *http.Request) {
				if attempts.Add(1) < 3 {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				_, _ = io.WriteString(w, `{"id":"1","version":"10.4","status":"UP"}`)
			}
			c, err := gosonar.NewClient(server.URL,
				gosonar.WithRateLimit(20, 1),
				gosonar.WithRetryWait(time.Millisecond, 2*time.Millisecond))
			Expect(err).NotTo(HaveOccurred())

			start := time.Now()
			_, err = c.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(attempts.Load()).To(Equal(int32(3)))
			Expect(time.Since(start)).To(BeNumerically(">=", 90*time.Millisecond))
		})
	})

	Context("with metrics", func() {
		It("should count requests on the registry", func() {
			server.reply("/api/system/status", http.StatusOK, `{"id":"1","version":"10.4","status":"UP"}`)
			registry := prometheus.NewRegistry()
			first, err := gosonar.NewClient(server.URL, gosonar.WithMetrics(registry))
			Expect(err).NotTo(HaveOccurred())
			second, err := gosonar.NewClient(server.URL, gosonar.WithMetrics(registry))
			Expect(err).NotTo(HaveOccurred())

			_, err = first.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = second.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(requestsTotal(registry)).To(Equal(float64(2)))
		})

		It("should leave a shared http client untouched", func() {
			server.reply("/api/system/status", http.StatusOK, `{"id":"1","version":"10.4","status":"UP"}`)
			registry := prometheus.NewRegistry()
			shared := &http.Client{}
			first, err := gosonar.NewClient(server.URL, gosonar.WithHTTPClient(shared), gosonar.WithMetrics(registry))
			Expect(err).NotTo(HaveOccurred())
			_, err = gosonar.NewClient(server.URL, gosonar.WithHTTPClient(shared), gosonar.WithMetrics(registry))
			Expect(err).NotTo(HaveOccurred())

			_, err = first.System.Status(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(shared.Transport).To(BeNil())
			Expect(requestsTotal(registry)).To(Equal(float64(1)))
		})
	})
})

func requestsTotal(registry *prometheus.Registry) float64 {
	families, err := registry.Gather()
	Expect(err).NotTo(HaveOccurred())
	var total float64
	for _, family := range families {
		if family.GetName() != "gosonar_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
