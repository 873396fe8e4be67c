package upload

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jamesprial/marketplace-mcp/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 300 * time.Second
	maxErrorBody   = 4 << 10
	// sniffLen matches the read limit mimetype uses for detection.
	sniffLen = 3072
)

// Uploader sends a file to an upload target.
type Uploader interface {
	Upload(ctx context.Context, target Target, file File, jwt string) (*Result, error)
}

// File is the content of one upload. ContentType is sniffed from the first
// bytes of Content when empty.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Open returns a File reading from the named path. The caller closes the
// returned closer once the upload finishes.
func Open(path string) (File, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("open upload file: %w", err)
	}
	return File{Name: filepath.Base(path), Content: f}, f, nil
}

// Result is the stored location of an uploaded file. It marshals back to the
// backend's "<key>_path" / "<key>_url" shape.
type Result struct {
	Key  string `json:"-"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// MarshalJSON encodes the result with the target's response keys.
func (r Result) MarshalJSON() ([]byte, error) {
	key := r.Key
	if key == "" {
		key = "file"
	}
	return json.Marshal(map[string]string{
		key + "_path": r.Path,
		key + "_url":  r.URL,
	})
}

// Client uploads files to "<backend>/upload/<target>".
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        logrus.FieldLogger
}

var _ Uploader = (*Client)(nil)

// NewClient builds a Client from the backend config. UploadTimeout (seconds)
// bounds each upload; it defaults to five minutes.
func NewClient(cfg config.BackendConfig, logger logrus.FieldLogger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("upload: URL is required")
	}

	timeout := time.Duration(cfg.UploadTimeout) * time.Second
	if cfg.UploadTimeout <= 0 {
		timeout = defaultTimeout
	}

	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL(cfg.URL),
		token:      cfg.Token,
		log:        logger,
	}, nil
}

// baseURL strips trailing slashes and a "/graphql" suffix so a config that
// points at the GraphQL endpoint still resolves the REST endpoints.
func baseURL(raw string) string {
	u := strings.TrimRight(raw, "/")
	return strings.TrimSuffix(u, "/graphql")
}

// Endpoint returns the URL an upload to t is posted to.
func (c *Client) Endpoint(t Target) string {
	return c.baseURL + "/upload/" + t.Path
}

// Upload streams file to the target endpoint. jwt overrides the configured
// backend token; with neither, the upload fails with ErrUnauthorized before
// any request is made.
func (c *Client) Upload(ctx context.Context, target Target, file File, jwt string) (*Result, error) {
	token := jwt
	if token == "" {
		token = c.token
	}
	if token == "" {
		return nil, &Error{Message: "No autorizado", kind: ErrUnauthorized}
	}
	if file.Content == nil {
		return nil, fmt.Errorf("upload %s: file content is nil", target.Path)
	}

	content := bufio.NewReaderSize(file.Content, sniffLen)
	contentType := file.ContentType
	if contentType == "" {
		head, err := content.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("upload %s: read file: %w", target.Path, err)
		}
		contentType = mimetype.Detect(head).String()
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writePart(mw, target.Field, file.Name, contentType, content))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(target), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("upload %s: create request: %w", target.Path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"target":     target.Path,
		"file":       file.Name,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		log.WithError(err).Error("upload request failed")
		return nil, fmt.Errorf("upload %s: request failed: %w", target.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		uerr := statusError(target, resp.StatusCode, strings.TrimSpace(string(body)))
		log.WithField("status", resp.StatusCode).WithError(uerr).Error("upload rejected")
		return nil, uerr
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("upload %s: decode response: %w", target.Path, err)
	}

	result := &Result{
		Key:  target.Key,
		Path: stringField(payload, target.Key+"_path"),
		URL:  stringField(payload, target.Key+"_url"),
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("upload completed")
	return result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writePart writes the single file part and closes the multipart writer.
func writePart(mw *multipart.Writer, field, filename, contentType string, content io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	return mw.Close()
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
