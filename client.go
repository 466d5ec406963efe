// (c) Copyright 2016 Hewlett Packard Enterprise Development LP
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gosonar is a typed client for the SonarQube web API.
//
// Every API domain (projects, issues, quality gates...) is exposed as a
// service on the Client:
//
//	client, err := gosonar.NewClient("https://sonar.example.com", gosonar.WithToken(token))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	projects, err := client.Projects.Search(ctx, &gosonar.ProjectSearchOptions{Query: "backend"})
package gosonar

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries on connection errors and 5xx
	DefaultMaxRetries = 3
	// DefaultUserAgent identifies the client to the server
	DefaultUserAgent = "gosonar"
)

type service struct {
	client *Client
}

// Client talks to a SonarQube server. It is safe for concurrent use.
type Client struct {
	mutex sync.RWMutex

	baseURL    string
	auth       Authenticator
	httpClient *retryablehttp.Client
	logger     logrus.FieldLogger
	limiter    *rate.Limiter
	userAgent  string

	timeout      time.Duration
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	insecure     bool
	baseHTTP     *http.Client
	registerer   prometheus.Registerer

	common service

	Applications    *ApplicationsService
	Components      *ComponentsService
	Hotspots        *HotspotsService
	Issues          *IssuesService
	Measures        *MeasuresService
	Projects        *ProjectsService
	QualityGates    *QualityGatesService
	QualityProfiles *QualityProfilesService
	Rules           *RulesService
	Settings        *SettingsService
	Sources         *SourcesService
	System          *SystemService
	Users           *UsersService
	UserTokens      *UserTokensService
}

// NewClient creates a client for the SonarQube instance at baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL:      baseURL,
		logger:       discard,
		userAgent:    DefaultUserAgent,
		timeout:      DefaultTimeout,
		maxRetries:   DefaultMaxRetries,
		retryWaitMin: time.Second,
		retryWaitMax: 30 * time.Second,
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	httpClient, err := c.buildHTTPClient()
	if err != nil {
		return nil, err
	}
	c.httpClient = httpClient

	c.common.client = c
	c.Applications = (*ApplicationsService)(&c.common)
	c.Components = (*ComponentsService)(&c.common)
	c.Hotspots = (*HotspotsService)(&c.common)
	c.Issues = (*IssuesService)(&c.common)
	c.Measures = (*MeasuresService)(&c.common)
	c.Projects = (*ProjectsService)(&c.common)
	c.QualityGates = (*QualityGatesService)(&c.common)
	c.QualityProfiles = (*QualityProfilesService)(&c.common)
	c.Rules = (*RulesService)(&c.common)
	c.Settings = (*SettingsService)(&c.common)
	c.Sources = (*SourcesService)(&c.common)
	c.System = (*SystemService)(&c.common)
	c.Users = (*UsersService)(&c.common)
	c.UserTokens = (*UserTokensService)(&c.common)
	return c, nil
}

func (c *Client) buildHTTPClient() (*retryablehttp.Client, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = c.maxRetries
	retryClient.RetryWaitMin = c.retryWaitMin
	retryClient.RetryWaitMax = c.retryWaitMax
	retryClient.Logger = &leveledLogger{logger: c.logger}
	// hand the last response back so its status can be mapped to an error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if c.limiter != nil {
		retryClient.PrepareRetry = func(req *http.Request) error {
			if err := c.limiter.Wait(req.Context()); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			return nil
		}
	}

	if c.baseHTTP != nil {
		// the caller's client is shared, only a copy gets instrumented
		httpClient := *c.baseHTTP
		retryClient.HTTPClient = &httpClient
	} else {
		retryClient.HTTPClient.Timeout = c.timeout
		if c.insecure {
			transport, ok := retryClient.HTTPClient.Transport.(*http.Transport)
			if !ok {
				return nil, errors.New("cannot disable TLS verification on a custom transport")
			}
			if transport.TLSClientConfig == nil {
				transport.TLSClientConfig = &tls.Config{} // #nosec G402
			}
			transport.TLSClientConfig.InsecureSkipVerify = true // #nosec G402
		}
	}

	if c.registerer != nil {
		transport := retryClient.HTTPClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		instrumented, err := instrumentRoundTripper(c.registerer, transport)
		if err != nil {
			return nil, err
		}
		retryClient.HTTPClient.Transport = instrumented
	}
	return retryClient, nil
}

// BaseURL returns the normalised server URL, without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthenticator replaces the credentials used for subsequent requests.
// A nil value makes the client anonymous.
func (c *Client) SetAuthenticator(auth Authenticator) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.auth = auth
}

func (c *Client) authenticator() Authenticator {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.auth
}

// Close releases idle connections held by the underlying transport
func (c *Client) Close() {
	c.httpClient.HTTPClient.CloseIdleConnections()
}
