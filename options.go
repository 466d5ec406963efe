package gosonar

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ClientOption configures a Client
type ClientOption func(*Client) error

// WithToken authenticates with a user token
func WithToken(token string) ClientOption {
	return func(c *Client) error {
		auth, err := NewTokenAuth(token)
		if err != nil {
			return err
		}
		c.auth = auth
		return nil
	}
}

// WithBasicAuth authenticates with a login and a password
func WithBasicAuth(login, password string) ClientOption {
	return func(c *Client) error {
		auth, err := NewBasicAuth(login, password)
		if err != nil {
			return err
		}
		c.auth = auth
		return nil
	}
}

// WithAuth installs a custom authenticator
func WithAuth(auth Authenticator) ClientOption {
	return func(c *Client) error {
		c.auth = auth
		return nil
	}
}

// WithTimeout sets the timeout of a single HTTP attempt
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = timeout
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) error {
		c.insecure = true
		return nil
	}
}

// WithHTTPClient uses the given http.Client for the transport. Timeout and
// TLS settings are then taken from it as is.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("http client cannot be nil")
		}
		c.baseHTTP = httpClient
		return nil
	}
}

// WithMaxRetries sets how many times a failed request is retried.
// Zero disables retries.
func WithMaxRetries(retries int) ClientOption {
	return func(c *Client) error {
		if retries < 0 {
			return errors.New("retries cannot be negative")
		}
		c.maxRetries = retries
		return nil
	}
}

// WithRetryWait bounds the backoff between two attempts
func WithRetryWait(minWait, maxWait time.Duration) ClientOption {
	return func(c *Client) error {
		if minWait > maxWait {
			return errors.New("minimum retry wait is greater than the maximum")
		}
		c.retryWaitMin = minWait
		c.retryWaitMax = maxWait
		return nil
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithRateLimit caps the number of requests per second sent to the server
func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) error {
		if requestsPerSecond <= 0 || burst <= 0 {
			return errors.New("rate limit and burst must be positive")
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		return nil
	}
}

// WithMetrics registers request metrics on the given registerer
func WithMetrics(registerer prometheus.Registerer) ClientOption {
	return func(c *Client) error {
		c.registerer = registerer
		return nil
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) error {
		c.userAgent = userAgent
		return nil
	}
}
