package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/upform/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "http://127.0.0.1:5000/upload"

	FieldFile = "file"
	FieldURL  = "url"

	maxResponseBytes = 1 << 20
)

// Kind says which form field a [Payload] fills.
type Kind int

const (
	KindFile Kind = iota
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return FieldFile
	case KindURL:
		return FieldURL
	default:
		return "unknown"
	}
}

// Payload is the single value sent in the form body.
type Payload struct {
	Kind        Kind
	Filename    string
	ContentType string
	Data        []byte
	URL         string
}

// FilePayload builds a payload for the file field.
func FilePayload(name, contentType string, data []byte) Payload {
	return Payload{Kind: KindFile, Filename: name, ContentType: contentType, Data: data}
}

// URLPayload builds a payload for the url field.
func URLPayload(u string) Payload {
	return Payload{Kind: KindURL, URL: u}
}

// Response is the endpoint's answer.
type Response struct {
	StatusCode int
	Message    string
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type responseBody struct {
	Message *string `json:"message"`
}

// Uploader sends a payload and returns the endpoint's answer.
type Uploader interface {
	Upload(ctx context.Context, p Payload) (*Response, error)
}

var _ Uploader = (*Client)(nil)

// Client posts payloads to a fixed endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithRateLimit spaces uploads to at most perSecond per second. Zero disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = shared.WithLogger(l, "component", "upload")
		}
	}
}

// WithTimeout sets the per-request timeout on a copy of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a new upload client for the endpoint.
func NewClient(endpoint string, client *http.Client, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: client,
		logger:     shared.WithLogger(log.Default(), "component", "upload"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL uploads are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Upload performs exactly one POST carrying p.
func (c *Client) Upload(ctx context.Context, p Payload) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: throttle: %v", shared.ErrAPIRequest, err)
		}
	}

	body, contentType, err := encode(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending upload", "field", p.Kind, "endpoint", c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w: %v", shared.ErrAPIRequest, shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrMalformedResponse, err)
	}

	var decoded responseBody
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", shared.ErrMalformedResponse, resp.StatusCode, err)
	}
	if decoded.Message == nil {
		return nil, fmt.Errorf("%w: status %d: missing message", shared.ErrMalformedResponse, resp.StatusCode)
	}

	c.logger.Debug("upload answered", "status", resp.StatusCode)

	return &Response{StatusCode: resp.StatusCode, Message: *decoded.Message}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func encode(p Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	switch p.Kind {
	case KindFile:
		if p.Filename == "" {
			return nil, "", fmt.Errorf("%w: file payload without filename", shared.ErrInvalidInput)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldFile, escapeQuotes(p.Filename)))
		ct := p.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(p.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	case KindURL:
		if err := w.WriteField(FieldURL, p.URL); err != nil {
			return nil, "", fmt.Errorf("failed to write url field: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("%w: unknown payload kind %d", shared.ErrInvalidInput, p.Kind)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
