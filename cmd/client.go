// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	httptypes "github.com/canonical/assessment-service/internal/http/types"
)

// apiClient talks to the private JSON API with a bearer token. 503 answers
// are retried honoring Retry-After.
type apiClient struct {
	endpoint string
	token    string
	client   *retryablehttp.Client
}

func newAPIClient(endpoint, token string) (*apiClient, error) {
	if token == "" {
		return nil, fmt.Errorf("a bearer token is required, pass --token or set ASSESSMENT_TOKEN")
	}
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "http://" + endpoint
	}

	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMax = 10 * time.Second
	c.Logger = nil

	return &apiClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		token:    token,
		client:   c,
	}, nil
}

func getClient() (*apiClient, error) {
	return newAPIClient(httpEndpoint, accessToken)
}

// do sends body as JSON and decodes the data field of the response envelope
// into out. Error envelopes are returned as errors carrying the status.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e httptypes.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, e.Message)
		}
		return fmt.Errorf("api error (status %d)", resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := httptypes.Response{Data: out}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
