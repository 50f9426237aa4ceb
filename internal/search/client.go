package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kyrias/bano/internal/types"
)

// ErrMalformedResponse is returned when a 200 response has no statuses array
var ErrMalformedResponse = errors.New("search response has no statuses")

// Request is one search against the provider
type Request struct {
	Query  string
	Lang   string
	Locale string
	Count  int
}

// Params encodes the request as query parameters. result_type is always recent.
func (r Request) Params() url.Values {
	return url.Values{
		"q":           {r.Query},
		"lang":        {r.Lang},
		"locale":      {r.Locale},
		"count":       {strconv.Itoa(r.Count)},
		"result_type": {"recent"},
	}
}

// StatusError reports a non-200 answer from the search endpoint
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching search results failed (status %d):\n%s", e.StatusCode, e.Body)
}

// Client issues single-page searches. There is no retry and no pagination.
type Client struct {
	client  *http.Client
	verbose bool
}

// New creates a search client. A nil client means http.DefaultClient.
func New(client *http.Client, verbose bool) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, verbose: verbose}
}

// Search runs req against baseURL authorized with token and returns the
// statuses in the order the provider sent them. An empty result is not an error.
func (c *Client) Search(ctx context.Context, baseURL string, req Request, token string) ([]types.Status, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search url %q: %w", baseURL, err)
	}
	q := u.Query()
	for k, v := range req.Params() {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	if c.verbose {
		log.Printf("GET %s", u.Redacted())
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call search endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var reply struct {
		Statuses *[]types.Status `json:"statuses"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if reply.Statuses == nil {
		return nil, ErrMalformedResponse
	}

	return *reply.Statuses, nil
}
