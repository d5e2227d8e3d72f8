package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Fetcher defines the media API surface used by the poller and the panes.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchList(ctx context.Context, query ListQuery) (ListResponse, error)
	FetchDetailedInfo(ctx context.Context, id string, position Position) (DetailedInfo, error)
	FetchTree(ctx context.Context, position Position) ([]DirectoryNode, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// EpochUnit is the unit of numeric timestamps in /list responses.
type EpochUnit string

const (
	EpochSeconds EpochUnit = "seconds"
	EpochMillis  EpochUnit = "millis"
)

// ParseEpochUnit validates a configured epoch unit. Blank means seconds.
func ParseEpochUnit(s string) (EpochUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "s", "sec", "seconds":
		return EpochSeconds, nil
	case "ms", "milli", "millis", "milliseconds":
		return EpochMillis, nil
	default:
		return "", fmt.Errorf("unknown epoch unit %q", s)
	}
}

// Client talks to the media HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	unit      EpochUnit
}

const (
	defaultAPIBind   = "127.0.0.1:8080"
	defaultUserAgent = "diptych/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string, unit EpochUnit) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	if unit == "" {
		unit = EpochSeconds
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		unit:      unit,
	}, nil
}

// ListQuery configures /list requests.
type ListQuery struct {
	Position   Position
	Collection string
	Filter     string
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	position := q.Position
	if position == "" {
		position = PositionSource
	}
	values.Set("directory", string(position))
	if collection := strings.TrimSpace(q.Collection); collection != "" {
		values.Set("folder", collection)
	}
	if filter := strings.TrimSpace(q.Filter); filter != "" && !strings.EqualFold(filter, "all") {
		values.Set("filter", filter)
	}
	return values
}

// FetchList retrieves the ids and their timestamps in one request. The two
// arrays are returned as sent; pairing them is up to the caller so a length
// mismatch does not lose the ids.
func (c *Client) FetchList(ctx context.Context, query ListQuery) (ListResponse, error) {
	return c.fetchList(ctx, query)
}

func (c *Client) fetchList(ctx context.Context, query ListQuery) (ListResponse, error) {
	if c == nil {
		return ListResponse{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/list", RawQuery: query.values().Encode()}
	var payload ListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return ListResponse{}, err
	}
	for i := range payload.Dates {
		payload.Dates[i] = payload.Dates[i].scaled(c.unit)
	}
	return payload, nil
}

// FetchDetailedInfo retrieves per-item metadata.
func (c *Client) FetchDetailedInfo(ctx context.Context, id string, position Position) (DetailedInfo, error) {
	if c == nil {
		return DetailedInfo{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return DetailedInfo{}, fmt.Errorf("item id required")
	}
	values := url.Values{}
	values.Set("id", id)
	if position != "" {
		values.Set("directory", string(position))
	}
	rel := &url.URL{Path: "/info", RawQuery: values.Encode()}
	var payload DetailedInfo
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return DetailedInfo{}, err
	}
	return payload, nil
}

// FetchTree retrieves the collection tree for a side.
func (c *Client) FetchTree(ctx context.Context, position Position) ([]DirectoryNode, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/tree"}
	if position != "" {
		rel.RawQuery = url.Values{"position": {string(position)}}.Encode()
	}
	var payload []DirectoryNode
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := sonic.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
