package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultUserAgent = "bookshelf/1.0 (+cover colour sampler)"
	defaultTimeout   = 15 * time.Second
	// Covers are small; anything past this is not a thumbnail.
	defaultMaxBytes = 8 << 20
)

// ErrTooLarge is returned when a response body exceeds the client's byte limit.
var ErrTooLarge = errors.New("download: response too large")

// Payload is a fetched image body plus the format sniffed from the response.
type Payload struct {
	Data   []byte
	Format string // "jpeg", "png", "gif", "webp" or "" when unknown
}

// Client fetches cover images over HTTP.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	MaxBytes  int64
}

// New returns a Client with the given timeout (zero uses the default).
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: defaultUserAgent,
		MaxBytes:  defaultMaxBytes,
	}
}

// Fetch GETs url and returns its body. Non-200 responses are errors.
func (c *Client) Fetch(ctx context.Context, url string) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("download: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "image/*")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("download: %s: HTTP %d", url, resp.StatusCode)
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Payload{}, fmt.Errorf("download: %w", err)
	}
	if int64(len(data)) > limit {
		return Payload{}, ErrTooLarge
	}

	format := formatFromContentType(resp.Header.Get("Content-Type"))
	if format == "" {
		format = formatFromURL(url)
	}
	return Payload{Data: data, Format: format}, nil
}

func formatFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch {
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return "jpeg"
	case strings.Contains(ct, "gif"):
		return "gif"
	case strings.Contains(ct, "webp"):
		return "webp"
	}
	return ""
}

func formatFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	}
	return ""
}
