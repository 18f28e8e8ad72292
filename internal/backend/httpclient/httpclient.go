// Package httpclient implements backend.Client over net/http, using
// hashicorp/go-retryablehttp for transport-level resilience. One Client
// targets exactly one backend URL.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"lokifederation/internal/backend"
	"lokifederation/internal/model"
	"lokifederation/pkg/clienterr"
)

// Client is a backend.Client that targets one Loki-shaped HTTP backend.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	timeout time.Duration
}

// New builds a Client for the given backend URL.
func New(baseURL string, timeout time.Duration, maxRetries int) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.Logger = nil // the facade's structured logger records outcomes instead
	return &Client{baseURL: baseURL, http: rc, timeout: timeout}
}

func (c *Client) Name() string { return c.baseURL }

func (c *Client) Query(ctx context.Context, opts backend.QueryOptions) (model.QueryResponse, error) {
	q := url.Values{}
	q.Set("query", opts.Selector)
	q.Set("direction", string(opts.Direction))
	if opts.Limit != nil {
		q.Set("limit", strconv.FormatInt(int64(*opts.Limit), 10))
	}
	if opts.Time != nil {
		q.Set("time", strconv.FormatInt(*opts.Time, 10))
	}
	var resp model.QueryResponse
	err := c.getJSON(ctx, "/loki/api/v1/query", q, &resp)
	return resp, err
}

func (c *Client) QueryRange(ctx context.Context, opts backend.QueryRangeOptions) (model.QueryResponse, error) {
	q := url.Values{}
	q.Set("query", opts.Selector)
	q.Set("direction", string(opts.Direction))
	q.Set("start", strconv.FormatInt(opts.Start, 10))
	q.Set("end", strconv.FormatInt(opts.End, 10))
	if opts.Limit != nil {
		q.Set("limit", strconv.FormatInt(int64(*opts.Limit), 10))
	}
	if opts.Step != "" {
		q.Set("step", opts.Step)
	}
	if opts.Interval != "" {
		q.Set("interval", opts.Interval)
	}
	var resp model.QueryResponse
	err := c.getJSON(ctx, "/loki/api/v1/query_range", q, &resp)
	return resp, err
}

func (c *Client) Labels(ctx context.Context, opts backend.LabelsOptions) (model.LabelResponse, error) {
	q := timeRangeParams(opts.Start, opts.End)
	var resp model.LabelResponse
	err := c.getJSON(ctx, "/loki/api/v1/labels", q, &resp)
	return resp, err
}

func (c *Client) LabelValues(ctx context.Context, opts backend.LabelValuesOptions) (model.LabelResponse, error) {
	q := timeRangeParams(opts.Start, opts.End)
	var resp model.LabelResponse
	err := c.getJSON(ctx, "/loki/api/v1/label/"+url.PathEscape(opts.Label)+"/values", q, &resp)
	return resp, err
}

func (c *Client) Series(ctx context.Context, opts backend.SeriesOptions) (model.SeriesResponse, error) {
	q := timeRangeParams(opts.Start, opts.End)
	for _, m := range opts.Matches {
		q.Add("match[]", m)
	}
	var resp model.SeriesResponse
	err := c.getJSON(ctx, "/loki/api/v1/series", q, &resp)
	return resp, err
}

func timeRangeParams(start, end *int64) url.Values {
	q := url.Values{}
	if start != nil {
		q.Set("start", strconv.FormatInt(*start, 10))
	}
	if end != nil {
		q.Set("end", strconv.FormatInt(*end, 10))
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return clienterr.Wrap(err, clienterr.Transport, "failed to build request").WithBackend(c.baseURL)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return clienterr.Wrap(err, clienterr.Transport, "request failed").WithBackend(c.baseURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return clienterr.Wrap(err, clienterr.Transport, "failed reading response body").WithBackend(c.baseURL)
	}

	if resp.StatusCode/100 != 2 {
		return clienterr.New(clienterr.Transport, fmt.Sprintf("backend returned status %d", resp.StatusCode)).WithBackend(c.baseURL)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return clienterr.Wrap(err, clienterr.Decode, "malformed JSON response").WithBackend(c.baseURL)
	}
	return nil
}
