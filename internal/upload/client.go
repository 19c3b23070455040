// Package upload submits a filtered folder selection to the explainer server.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/google/uuid"
)

const (
	// UploadPath is the server endpoint receiving the folder
	UploadPath = "/upload"
	// FolderField is the multipart field name used for every file
	FolderField = "folder"
	// LanguageField carries the language selector
	LanguageField = "language"
	// RequestIDHeader correlates client and server logs
	RequestIDHeader = "X-Request-ID"
)

// ErrNoFiles is returned when there is nothing left to submit
var ErrNoFiles = errors.New("no files to submit")

// ServerError is a failure reported by the server, surfaced to the user verbatim
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Outcome describes a successful submission
type Outcome struct {
	Location  string // Where the server asked the client to navigate next
	FileCount int
	Bytes     int64
	RequestID string
}

// Client submits selections to the server
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient creates an HTTP client with a cookie jar so that the
// session established by an upload is reused by later requests.
func NewHTTPClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
	}
}

// NewClient creates a Client for the server at serverURL. When hc is nil a
// client with a 30 second timeout is used.
func NewClient(serverURL string, hc *http.Client) (*Client, error) {
	base, err := ParseServerURL(serverURL)
	if err != nil {
		return nil, err
	}
	if hc == nil {
		hc = NewHTTPClient(30 * time.Second)
	}
	return &Client{baseURL: base, http: hc}, nil
}

// ParseServerURL validates a server base URL
func ParseServerURL(serverURL string) (*url.URL, error) {
	if strings.TrimSpace(serverURL) == "" {
		return nil, fmt.Errorf("server url cannot be empty")
	}
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", serverURL)
	}
	return u, nil
}

// Submit uploads the retained files of sel together with the language selector.
// The selection is not modified, so a failed submission can be retried as is.
func (c *Client) Submit(ctx context.Context, sel *models.Selection, retained []string, language string) (*Outcome, error) {
	if sel == nil {
		return nil, fmt.Errorf("invalid selection")
	}
	if len(retained) == 0 {
		return nil, ErrNoFiles
	}

	body, contentType, size, err := buildForm(sel, retained, language)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL.JoinPath(UploadPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(RequestIDHeader, requestID)

	utils.Debug("Uploading %d files (%d bytes) to %s [%s]", len(retained), size, endpoint, requestID)

	resp, err := c.noRedirect().Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	outcome := &Outcome{FileCount: len(retained), Bytes: size, RequestID: requestID}

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc, err := resp.Location()
		if err != nil {
			return nil, fmt.Errorf("redirect without location: %w", err)
		}
		outcome.Location = loc.String()
		return outcome, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// The page may answer 200 with an error payload instead of redirecting
		if msg := readErrorPayload(resp.Body); msg != "" {
			utils.Error("Upload rejected [%s]: %d %s", requestID, resp.StatusCode, msg)
			return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
		}
		outcome.Location = resp.Request.URL.String()
		return outcome, nil
	default:
		serr := decodeServerError(resp)
		utils.Error("Upload rejected [%s]: %d %s", requestID, serr.StatusCode, serr.Message)
		return nil, serr
	}
}

// noRedirect returns a copy of the HTTP client that reports redirects instead of following them
func (c *Client) noRedirect() *http.Client {
	hc := *c.http
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &hc
}

// buildForm encodes the retained files as multipart/form-data
func buildForm(sel *models.Selection, retained []string, language string) (io.Reader, string, int64, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(LanguageField, language); err != nil {
		return nil, "", 0, fmt.Errorf("failed to write language field: %w", err)
	}

	var size int64
	for _, rel := range retained {
		n, err := writeFilePart(w, sel, rel)
		if err != nil {
			return nil, "", 0, fmt.Errorf("failed to add %s: %w", rel, err)
		}
		size += n
	}

	if err := w.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), size, nil
}

func writeFilePart(w *multipart.Writer, sel *models.Selection, rel string) (int64, error) {
	f, err := sel.Open(rel)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	part, err := w.CreateFormFile(FolderField, rel)
	if err != nil {
		return 0, err
	}
	return io.Copy(part, f)
}

// decodeServerError extracts the {"error": "..."} payload, falling back to the status text
func decodeServerError(resp *http.Response) *ServerError {
	serr := &ServerError{StatusCode: resp.StatusCode, Message: resp.Status}
	if msg := readErrorPayload(resp.Body); msg != "" {
		serr.Message = msg
	}
	return serr
}

// readErrorPayload returns the "error" field of a JSON body, or "" if there is none
func readErrorPayload(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || json.Unmarshal(data, &payload) != nil {
		return ""
	}
	return payload.Error
}
