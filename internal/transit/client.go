// Package transit is the HTTP client for the remote transit data service.
package transit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/metrics"
)

// Client is the set of calls the view pipeline makes against the service.
type Client interface {
	Seek(ctx context.Context, stopID string) (*SeekResponse, error)
	VehicleLocations(ctx context.Context, vehicleNumbers []string) ([]VehicleLocation, error)
	VehicleInfo(ctx context.Context, vehicleNumber string) (*VehicleInfo, error)
	Upload(ctx context.Context, filename string, image io.Reader) (*UploadResponse, error)
}

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "stoplens/1.0"
)

// Options configures an HTTPClient. BaseURL is required.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	HTTPClient *http.Client
}

// HTTPClient talks JSON to the transit service.
type HTTPClient struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

var _ Client = (*HTTPClient)(nil)

// New validates opts and returns a client.
func New(opts Options) (*HTTPClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("transit: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("transit: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("transit: unsupported base URL scheme %q", base.Scheme)
	}

	c := &HTTPClient{
		baseURL:   base,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		logger:    logging.Component(opts.Logger, "transit_client"),
		metrics:   opts.Metrics,
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c, nil
}

// Seek looks up the routes and predicted vehicles of a stop.
func (c *HTTPClient) Seek(ctx context.Context, stopID string) (*SeekResponse, error) {
	var out SeekResponse
	if err := c.postJSON(ctx, "seek", seekRequest{Stop: stopID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VehicleLocations returns the positions of the given vehicles. Entries the
// service returns for vehicles that were not asked for are dropped. An empty
// request returns nil without calling the service.
func (c *HTTPClient) VehicleLocations(ctx context.Context, vehicleNumbers []string) ([]VehicleLocation, error) {
	if len(vehicleNumbers) == 0 {
		return nil, nil
	}

	var out vehiclesResponse
	if err := c.postJSON(ctx, "vehicles", vehiclesRequest{VehicleNumbers: vehicleNumbers}, &out); err != nil {
		return nil, err
	}
	return filterRequested(out.Vehicles, vehicleNumbers), nil
}

// VehicleInfo returns the delay and position of a single vehicle.
func (c *HTTPClient) VehicleInfo(ctx context.Context, vehicleNumber string) (*VehicleInfo, error) {
	var out VehicleInfo
	if err := c.postJSON(ctx, "vehicleinfo", vehicleInfoRequest{VehicleNumber: vehicleNumber}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends a stop sign photo as the "image" field of a multipart form.
func (c *HTTPClient) Upload(ctx context.Context, filename string, image io.Reader) (*UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("upload: create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("upload: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload: close form: %w", err)
	}

	var out UploadResponse
	if err := c.do(ctx, "upload", &body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, endpoint string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", endpoint, err)
	}
	return c.do(ctx, endpoint, bytes.NewReader(payload), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, endpoint string, body io.Reader, contentType string, out any) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(start)
		c.metrics.ObserveTransitRequest(endpoint, elapsed)
		attrs := []slog.Attr{slog.String("endpoint", endpoint), slog.Int("status", status), slog.Duration("duration", elapsed)}
		if err != nil {
			logging.LogError(c.logger, "transit request failed", err, attrs...)
			return
		}
		c.logger.LogAttrs(ctx, slog.LevelDebug, "transit_request", attrs...)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(endpoint).String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.TransitError(endpoint, "transport")
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "http_response_body")
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.TransitError(endpoint, "status")
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: string(text)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.TransitError(endpoint, "decode")
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

func filterRequested(locations []VehicleLocation, requested []string) []VehicleLocation {
	want := make(map[string]struct{}, len(requested))
	for _, n := range requested {
		want[strings.TrimSpace(n)] = struct{}{}
	}
	out := make([]VehicleLocation, 0, len(locations))
	for _, l := range locations {
		if _, ok := want[l.VehicleID.String()]; ok {
			out = append(out, l)
		}
	}
	return out
}
