// Package platform holds the outbound clients to the booking platform's
// core service: the interpreter directory read side and the appointment
// status callbacks. Both speak the platform's internal REST API and
// authenticate with a shared service token.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"interpreting/internal/pkg/errs"
)

// Client is the shared transport of the platform adapters.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a platform client for the given base URL. The token
// is sent as a bearer credential on every request.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if token == "" {
		return nil, errs.NewValueIsRequiredError("token")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 25 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}, nil
}

// doJSON performs one request and decodes the JSON response into out.
// A 404 surfaces as errs.ErrObjectNotFound so callers can branch on the
// sentinel; other non-2xx statuses include the response body in the
// error message. Pass nil for out when no response body is expected.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode platform request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errs.NewObjectNotFoundError("path", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("platform API status=%d, body=%s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
