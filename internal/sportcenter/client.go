package sportcenter

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

	"github.com/rs/zerolog"

	"github.com/five82/courtcheck/internal/catalog"
)

// Fetcher retrieves raw booking payloads for a date.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchForDate(ctx context.Context, date, location string) FetchResultMap
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

const (
	DefaultEndpoint = "https://booking-tpsc.sporetrofit.com/Location/findAllowBookingList"
	DefaultCategory = "Badminton"
	DefaultPageSize = 200
	requestTimeout  = 15 * time.Second
	maxBodyBytes    = 8 << 20
)

// browserHeaders mimic the booking site's own XHR calls; the API rejects
// requests that do not look like they came from its web page.
var browserHeaders = map[string]string{
	"accept":             "application/json, text/javascript, */*; q=0.01",
	"accept-language":    "zh-TW,zh;q=0.9",
	"content-type":       "application/x-www-form-urlencoded; charset=UTF-8",
	"priority":           "u=1, i",
	"sec-ch-ua":          `"Not)A;Brand";v="8", "Chromium";v="138", "Google Chrome";v="138"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "same-origin",
	"x-requested-with":   "XMLHttpRequest",
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	Endpoint string
	Category string
	PageSize int
	Timeout  time.Duration
	Logger   *zerolog.Logger // nil disables logging
	Now      func() time.Time
}

// Client talks to the sport center booking API.
type Client struct {
	endpoint *url.URL
	category string
	pageSize int
	http     *http.Client
	log      zerolog.Logger
	now      func() time.Time
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	endpoint, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = DefaultCategory
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		endpoint: endpoint,
		category: category,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
		log:      logger,
		now:      now,
	}, nil
}

// Category returns the sport category the client queries.
func (c *Client) Category() string {
	return c.category
}

// WithCategory returns a copy of the client that queries another category.
// An empty category keeps the current one.
func (c *Client) WithCategory(category string) *Client {
	dup := *c
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		dup.category = trimmed
	}
	return &dup
}

// FetchForDate issues one request per location selected by location (a
// display name or code; unknown values select every location) for the
// "YYYY-MM-DD" date. Requests run sequentially. A failing location is
// recorded in the result map and never aborts the others.
func (c *Client) FetchForDate(ctx context.Context, date, location string) FetchResultMap {
	codes := targetCodes(location)
	results := make(FetchResultMap, len(codes))
	if c == nil {
		for _, code := range codes {
			results[code] = FetchResult{Err: &FetchError{Error: "client is nil"}}
		}
		return results
	}

	body := c.formBody()
	for _, code := range codes {
		payload, text, err := c.fetchOne(ctx, code, date, body)
		if err != nil {
			c.log.Warn().Err(err).Str("location", code).Str("date", date).Msg("booking fetch failed")
			results[code] = FetchResult{Err: &FetchError{Error: err.Error(), Text: text}}
			continue
		}
		c.log.Debug().Str("location", code).Str("date", date).Msg("booking fetch ok")
		results[code] = FetchResult{Payload: payload}
	}
	return results
}

func targetCodes(location string) []string {
	code := catalog.ResolveLocation(location)
	if code == catalog.AllLocations {
		return catalog.AllLocationCodes()
	}
	return []string{code}
}

// formBody builds the jqGrid paging form the site expects. nd is a cache
// buster in epoch milliseconds, shared by every request of one call.
func (c *Client) formBody() string {
	nd := strconv.FormatInt(c.now().UnixMilli(), 10)
	return "_search=false&nd=" + nd + "&rows=" + strconv.Itoa(c.pageSize) + "&page=1&sidx=&sord=asc"
}

func (c *Client) requestURL(code, date string) string {
	u := *c.endpoint
	values := url.Values{}
	values.Set("LID", code)
	values.Set("categoryId", c.category)
	values.Set("useDate", date)
	u.RawQuery = values.Encode()
	return u.String()
}

// fetchOne returns the decoded payload, or an error plus whatever body text
// was read before it occurred.
func (c *Client) fetchOne(ctx context.Context, code, date, body string) (payload any, text string, err error) {
	reqURL := c.requestURL(code, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("Referer", reqURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	text = string(raw)
	if err != nil {
		return nil, text, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, text, fmt.Errorf("api %s returned status %d", code, resp.StatusCode)
	}

	payload, err = decodeJSON(raw)
	if err != nil {
		return nil, text, fmt.Errorf("decode response: %w", err)
	}
	return payload, "", nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
