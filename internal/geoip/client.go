package geoip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

const (
	// DefaultEndpoint is the free ip-api.com JSON endpoint.
	DefaultEndpoint = "http://ip-api.com/json"

	// DefaultTimeout bounds one remote lookup.
	DefaultTimeout = 10 * time.Second

	// requestFields asks the API for the full field set: status/message,
	// location, network ownership, and the threat flags.
	requestFields = "query,status,message,continent,continentCode,country,countryCode," +
		"region,regionName,city,district,zip,lat,lon,timezone,offset,currency," +
		"isp,org,as,asname,mobile,proxy,hosting"
)

// Client performs one-shot lookups against a JSON geolocation endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a lookup client. Empty endpoint or zero timeout fall back
// to the defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch performs one remote lookup for key (an address or its subnet
// representative) and decodes the response. A transport failure, a malformed
// payload, or an API-level error status all come back as errors; callers must
// not cache those.
func (c *Client) Fetch(ctx context.Context, key string) (*Record, error) {
	reqURL := fmt.Sprintf("%s/%s?fields=%s", c.endpoint, url.PathEscape(key), requestFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geoip: building request for %s: %w", key, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip: lookup %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip: lookup %s: unexpected status %s", key, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geoip: reading response for %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("geoip: decoding response for %s: %w", key, err)
	}

	if rec.Status != statusSuccess {
		msg := rec.Message
		if msg == "" {
			msg = "lookup failed"
		}
		return nil, fmt.Errorf("geoip: lookup %s: %s", key, msg)
	}

	return &rec, nil
}
