package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Uploader is the subset of the client the upload session depends on.
// Implemented by *Client and by test fakes.
type Uploader interface {
	Upload(ctx context.Context, path string, onProgress func(UploadProgress)) (*RawResponse, error)
}

// ArtifactDeleter is the subset of the client the cleanup coordinator depends on.
type ArtifactDeleter interface {
	DeleteArtifact(ctx context.Context, id string)
}

var (
	_ Uploader        = (*Client)(nil)
	_ ArtifactDeleter = (*Client)(nil)
)

// Client talks to the Vehicle Behavior Detector HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	// DefaultServerURL is used when no server is configured.
	DefaultServerURL = "http://localhost:5000"

	defaultUserAgent = "roadwatch/0.1"

	// Processing is synchronous from the caller's point of view: the upload
	// response only arrives once the whole video has been analyzed.
	requestTimeout = 5 * time.Minute
)

// NewClient builds a Client for the given server URL. An empty URL selects
// the default endpoint.
func NewClient(serverURL string, log zerolog.Logger) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       log,
	}, nil
}

// Upload transmits the video at path as a multipart POST to /upload, invoking
// onProgress for each chunk read from the file. The server's reply is returned
// as data regardless of status code; only transport-level failures (no
// response at all) surface as errors.
func (c *Client) Upload(ctx context.Context, path string, onProgress func(UploadProgress)) (*RawResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}

	var src io.Reader = file
	if info.Size() > 0 {
		// Total unknown means no ticks; the caller treats absence of
		// progress events as indeterminate.
		src = &progressReader{r: file, total: info.Size(), onProgress: onProgress}
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			_ = pw.CloseWithError(fmt.Errorf("create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(fmt.Errorf("stream video: %w", err))
			return
		}
		if err := form.Close(); err != nil {
			_ = pw.CloseWithError(fmt.Errorf("finish form: %w", err))
			return
		}
		_ = pw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload"), pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)

	// The transport stops draining the body once the server replies, which
	// can happen before the file is fully sent (an early 503, for example).
	// Unblock the writer and join it so every progress tick has been
	// delivered before the response is returned.
	_ = pr.Close()
	<-producerDone

	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return readRaw(resp)
}

// ProcessSample asks the server to analyze one of its pre-loaded sample
// videos. The reply shape matches /upload and goes through the same
// normalization.
func (c *Client) ProcessSample(ctx context.Context, sampleID string) (*RawResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(sampleID) == "" {
		return nil, fmt.Errorf("sample id required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/process_sample/"+sampleID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return readRaw(resp)
}

// ListSamples retrieves the sample video catalog.
func (c *Client) ListSamples(ctx context.Context) ([]SampleVideo, error) {
	var samples []SampleVideo
	if err := c.getJSON(ctx, "/sample_videos", &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// Health retrieves the service health report, including whether the ML models
// have finished loading.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var health HealthStatus
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// DeleteArtifact requests removal of a processed video on the server. Cleanup
// is best-effort: failures are logged and never surfaced, and must not block
// or alarm the caller.
func (c *Client) DeleteArtifact(ctx context.Context, id string) {
	if c == nil || strings.TrimSpace(id) == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint("/cleanup_video/"+id), nil)
	if err != nil {
		c.log.Warn().Err(err).Str("artifact", id).Msg("cleanup request build failed")
		return
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("artifact", id).Msg("cleanup request failed")
		return
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Str("artifact", id).Msg("cleanup rejected by server")
		return
	}
	c.log.Debug().Str("artifact", id).Msg("artifact cleanup requested")
}

// ProcessedVideoURL returns the streaming URL for a processed video artifact.
// The media player consumes this directly; it is not JSON.
func (c *Client) ProcessedVideoURL(id string) string {
	return c.endpoint("/processed_video/" + id)
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
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
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	rel := &url.URL{Path: path}
	return c.baseURL.ResolveReference(rel).String()
}

func readRaw(resp *http.Response) (*RawResponse, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// progressReader counts bytes as the multipart writer drains the file and
// reports a tick per chunk. Loaded never decreases, so percentages are
// non-decreasing by construction.
type progressReader struct {
	r          io.Reader
	total      int64
	loaded     int64
	onProgress func(UploadProgress)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		if p.onProgress != nil {
			p.onProgress(UploadProgress{
				BytesLoaded: p.loaded,
				BytesTotal:  p.total,
				Percentage:  int(math.Round(float64(p.loaded) * 100 / float64(p.total))),
			})
		}
	}
	return n, err
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = DefaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
