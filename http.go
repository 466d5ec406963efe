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

package gosonar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	mediaTypeJSON   = "application/json"
)

// get sends a GET request with params in the query string and decodes the
// JSON answer into v. v may be nil when the body is not needed.
func (c *Client) get(ctx context.Context, path string, params interface{}, v interface{}) error {
	body, err := c.call(ctx, http.MethodGet, path, params)
	if err != nil {
		return err
	}
	return decode(path, body, v)
}

// post sends a form encoded POST request and decodes the JSON answer into v.
func (c *Client) post(ctx context.Context, path string, params interface{}, v interface{}) error {
	body, err := c.call(ctx, http.MethodPost, path, params)
	if err != nil {
		return err
	}
	return decode(path, body, v)
}

// getText sends a GET request and returns the body untouched
func (c *Client) getText(ctx context.Context, path string, params interface{}) (string, error) {
	body, err := c.call(ctx, http.MethodGet, path, params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) call(ctx context.Context, method, path string, params interface{}) ([]byte, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("encoding parameters of %s: %w", path, err)
	}

	req, err := c.newRequest(ctx, method, path, values)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ConnectionError{Message: "rate limiter", Err: err}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"params": values.Encode(),
	}).Debug("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.connectionError(err)
	}
	defer resp.Body.Close() // #nosec G307

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.connectionError(err)
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	}).Debug("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, body)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, values url.Values) (*retryablehttp.Request, error) {
	u := c.baseURL + path
	var body interface{}
	if method == http.MethodGet {
		if len(values) > 0 {
			u += "?" + values.Encode()
		}
	} else {
		body = []byte(values.Encode())
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", mediaTypeJSON)
	req.Header.Set("Content-Type", contentTypeForm)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if auth := c.authenticator(); auth != nil {
		auth.Authenticate(req.Request)
	}
	return req, nil
}

func (c *Client) connectionError(err error) error {
	var netErr net.Error
	var opErr *net.OpError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &ConnectionError{Message: fmt.Sprintf("Request timed out after %s", c.timeout), Err: err}
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return &ConnectionError{Message: fmt.Sprintf("Failed to connect to %s", c.baseURL), Err: err}
	default:
		return &ConnectionError{Message: "HTTP error occurred", Err: err}
	}
}

// parseError turns a non 2xx answer into an *APIError. The message is the
// first entry of the "errors" array, the raw body when it is not JSON, or
// "Unknown error".
func parseError(statusCode int, body []byte) error {
	var errResp ErrorResponse
	message := unknownError
	if err := json.Unmarshal(body, &errResp); err == nil {
		if len(errResp.Errors) > 0 && errResp.Errors[0].Msg != "" {
			message = errResp.Errors[0].Msg
		}
	} else if text := string(bytes.TrimSpace(body)); text != "" {
		message = text
	}
	return NewAPIError(statusCode, message, errResp.Errors, body)
}

// postEnvelope posts params and decodes the member key of the answer into v,
// or the whole answer when the member is missing.
func (c *Client) postEnvelope(ctx context.Context, path string, params interface{}, key string, v interface{}) error {
	var raw map[string]json.RawMessage
	if err := c.post(ctx, path, params, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	data, ok := raw[key]
	if !ok {
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return &DecodeError{Endpoint: path, Err: err}
		}
	}
	return decode(path, data, v)
}

// decode fills v from a successful body. Empty and non JSON bodies leave v
// untouched, as some endpoints answer 200 without content.
func decode(path string, body []byte, v interface{}) error {
	if v == nil {
		return nil
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Endpoint: path, Err: err}
	}
	if err := validate(v); err != nil {
		return &DecodeError{Endpoint: path, Err: err}
	}
	return nil
}
