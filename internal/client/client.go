package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"delivery_kitchen/internal/models"
)

const (
	newProblemPath = "/interview/challenge/new"
	solvePath      = "/interview/challenge/solve"
	testIDHeader   = "x-test-id"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// StatusError is returned when the challenge server answers with a non-2xx code.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Code, e.Body)
}

// Client talks to the challenge server: it fetches problems and submits the
// resulting action log.
type Client struct {
	endpoint string
	auth     string
	http     *http.Client
}

// New returns a client for endpoint authenticated with the auth token.
func New(endpoint, auth string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		auth:     auth,
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Problem is a fetched challenge: its id and the orders to place.
type Problem struct {
	ID     string
	Orders []models.Order
}

// Fetch retrieves a problem. An empty name and zero seed let the server pick.
func (c *Client) Fetch(ctx context.Context, name string, seed int64) (Problem, error) {
	q := url.Values{}
	q.Set("auth", c.auth)
	if name != "" {
		q.Set("name", name)
	}
	if seed != 0 {
		q.Set("seed", strconv.FormatInt(seed, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+newProblemPath+"?"+q.Encode(), nil)
	if err != nil {
		return Problem{}, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Problem{}, fmt.Errorf("fetch problem: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("fetch problem", resp); err != nil {
		return Problem{}, err
	}

	var orders []models.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return Problem{}, fmt.Errorf("decode orders: %w", err)
	}
	return Problem{ID: resp.Header.Get(testIDHeader), Orders: orders}, nil
}

type solveOptions struct {
	Rate int64 `json:"rate"` // microseconds
	Min  int64 `json:"min"`  // microseconds
	Max  int64 `json:"max"`  // microseconds
}

type solution struct {
	Options solveOptions    `json:"options"`
	Actions []models.Action `json:"actions"`
}

// Solve submits the action log for a problem and returns the server verdict.
func (c *Client) Solve(ctx context.Context, problemID string, rate, minPickup, maxPickup time.Duration, actions []models.Action) (string, error) {
	if actions == nil {
		actions = []models.Action{}
	}
	body, err := json.Marshal(solution{
		Options: solveOptions{
			Rate: rate.Microseconds(),
			Min:  minPickup.Microseconds(),
			Max:  maxPickup.Microseconds(),
		},
		Actions: actions,
	})
	if err != nil {
		return "", fmt.Errorf("encode solution: %w", err)
	}

	q := url.Values{}
	q.Set("auth", c.auth)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+solvePath+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build solve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(testIDHeader, problemID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit solution: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("submit solution", resp); err != nil {
		return "", err
	}
	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read verdict: %w", err)
	}
	return string(result), nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
