// Package aio is a client for the Adafruit IO REST API feeds the robot publishes to and listens on.
package aio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/series"
	"github.com/wesleyorama2/picarx-dash/pkg/jsonpath"
	"github.com/wesleyorama2/picarx-dash/pkg/jsonschema"
)

const (
	// DefaultBaseURL is the Adafruit IO v2 API root.
	DefaultBaseURL = "https://io.adafruit.com/api/v2"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 5 * time.Second
)

// ErrNoCredentials is returned when the username or key is not configured.
var ErrNoCredentials = errors.New("AIO_USERNAME or AIO_KEY is not set")

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("adafruit io: %s", e.Status)
	}
	return fmt.Sprintf("adafruit io: %s: %s", e.Status, e.Body)
}

// dataSchema describes GET /feeds/{key}/data responses.
var dataSchema = jsonschema.MustCompile("feed-data.json", `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"created_at": { "type": "string" },
			"value": { "type": ["string", "number", "boolean", "null"] }
		},
		"required": ["created_at", "value"]
	}
}`)

// Client talks to Adafruit IO on behalf of one user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	key        string
	throttle   *throttle
	l          *zap.Logger
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: DefaultBaseURL,
		l:       zap.NewNop(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the API root, mainly for tests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the timeout for every request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCredentials sets the username and the X-AIO-Key
func WithCredentials(username, key string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.key = key
	}
}

// WithPublishLimit limits Send to perMinute values per minute, allowing bursts of up to burst values.
// A non-positive perMinute leaves Send unlimited.
func WithPublishLimit(perMinute float64, burst int) ClientOption {
	return func(c *Client) {
		if perMinute <= 0 {
			c.throttle = nil
			return
		}
		c.throttle = newThrottle(perMinute, burst)
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.l = l
	}
}

// LastPoints returns up to limit most recent points of a feed, oldest first.
// Labels are the HH:MM:SS part of created_at; non-numeric values become nil.
func (c *Client) LastPoints(ctx context.Context, feed string, limit int) ([]string, []*float64, error) {
	body, err := c.feedData(ctx, feed, limit)
	if err != nil {
		return nil, nil, err
	}

	n := int(gjson.Get(body, "#").Int())
	labels := make([]string, n)
	values := make([]*float64, n)

	// newest first on the wire
	err = jsonpath.Each(body, "$", func(i int, item gjson.Result) bool {
		j := n - 1 - i
		labels[j] = clockLabel(item.Get("created_at").String())
		values[j] = series.ParseValue(item.Get("value").String())
		return true
	})
	if err != nil {
		return nil, nil, err
	}

	return labels, values, nil
}

// LastValue returns the most recent value of a feed, or an empty string if the feed has no data
// or its last value is null.
func (c *Client) LastValue(ctx context.Context, feed string) (string, error) {
	body, err := c.feedData(ctx, feed, 1)
	if err != nil {
		return "", err
	}

	if gjson.Get(body, "#").Int() == 0 || gjson.Get(body, "0.value").Type == gjson.Null {
		return "", nil
	}

	return jsonpath.Extract(body, "$[0].value")
}

// Send publishes a value to a feed.
func (c *Client) Send(ctx context.Context, feed, value string) error {
	payload, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return err
	}

	if c.throttle != nil {
		if err := c.throttle.wait(ctx); err != nil {
			return fmt.Errorf("publish to %s: %w", feed, err)
		}
	}

	_, err = c.do(ctx, http.MethodPost, c.feedPath(feed), nil, payload)
	if err != nil {
		return err
	}

	c.l.Debug("Published to feed", zap.String("feed", feed), zap.String("value", value))
	return nil
}

func (c *Client) feedData(ctx context.Context, feed string, limit int) (string, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, c.feedPath(feed), query, nil)
	if err != nil {
		return "", err
	}

	if err := dataSchema.Validate(body); err != nil {
		return "", fmt.Errorf("unexpected data from feed %s: %w", feed, err)
	}

	return body, nil
}

func (c *Client) feedPath(feed string) string {
	return "/" + url.PathEscape(c.username) + "/feeds/" + url.PathEscape(feed) + "/data"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) (string, error) {
	if c.username == "" || c.key == "" {
		return "", ErrNoCredentials
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return "", err
	}

	req.Header.Set("X-AIO-Key", c.key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	c.l.Debug("Adafruit IO request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return string(body), nil
}

// clockLabel cuts HH:MM:SS out of an ISO 8601 timestamp.
func clockLabel(createdAt string) string {
	if len(createdAt) >= 19 {
		return createdAt[11:19]
	}
	if len(createdAt) > 11 {
		return createdAt[11:]
	}
	return ""
}
