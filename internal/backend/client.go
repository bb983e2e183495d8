// Package backend talks to the document Q&A backend's upload and ask
// endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/config"
)

// uploadField is the multipart part name the backend reads files from.
const uploadField = "files"

// Progress receives the upload body as it is sent.
type Progress interface {
	Start(total int64, description string)
	io.Writer
	Finish()
}

// Client communicates with the backend HTTP API.
type Client struct {
	baseURL    string
	uploadPath string
	askPath    string
	httpClient *http.Client
	progress   Progress
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithPaths overrides the endpoint paths.
func WithPaths(uploadPath, askPath string) Option {
	return func(c *Client) {
		c.uploadPath = uploadPath
		c.askPath = askPath
	}
}

// WithProgress streams upload bodies through p.
func WithProgress(p Progress) Option {
	return func(c *Client) { c.progress = p }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l.Named("backend") }
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		uploadPath: "/upload",
		askPath:    "/ask",
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a Client from the backend section of the config.
func NewFromConfig(cfg config.BackendConfig, opts ...Option) *Client {
	base := []Option{
		WithPaths(cfg.UploadPath, cfg.AskPath),
		WithTimeout(cfg.Timeout),
	}
	return NewClient(cfg.URL, append(base, opts...)...)
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Upload sends files as one multipart request, one part named "files" per
// file, and decodes the per-file processing results.
func (c *Client) Upload(ctx context.Context, files []File) (*UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreatePart(filePartHeader(f.Name))
		if err != nil {
			return nil, fmt.Errorf("create part for %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	size := int64(body.Len())
	var reader io.Reader = &body
	if c.progress != nil {
		c.progress.Start(size, fmt.Sprintf("Uploading %d file(s)", len(files)))
		defer c.progress.Finish()
		reader = io.TeeReader(&body, c.progress)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.uploadPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.log.Debug("uploading documents", zap.Int("files", len(files)), zap.Int64("bytes", size))

	var raw struct {
		Files *[]FileResult `json:"files"`
	}
	if err := c.do(req, "upload", &raw); err != nil {
		return nil, err
	}
	if raw.Files == nil {
		return nil, fmt.Errorf("upload: %w: missing files list", ErrMalformedResponse)
	}
	return &UploadResponse{Files: *raw.Files}, nil
}

// Ask posts a question scoped to the given documents.
func (c *Client) Ask(ctx context.Context, ask AskRequest) (*AskResponse, error) {
	if ask.Documents == nil {
		ask.Documents = []string{}
	}
	payload, err := json.Marshal(ask)
	if err != nil {
		return nil, fmt.Errorf("marshal question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.askPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("asking question", zap.Int("documents", len(ask.Documents)))

	var raw struct {
		Answer  *string  `json:"answer"`
		Sources []string `json:"sources"`
	}
	if err := c.do(req, "ask", &raw); err != nil {
		return nil, err
	}
	if raw.Answer == nil {
		return nil, fmt.Errorf("ask: %w: missing answer", ErrMalformedResponse)
	}
	return &AskResponse{Answer: *raw.Answer, Sources: raw.Sources}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(endpoint, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func newStatusError(endpoint string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.TrimSpace(string(body))

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
}

// filePartHeader mirrors what a browser sends for a file input.
func filePartHeader(name string) textproto.MIMEHeader {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
