// Package job starts the server-side explanation job and retrieves its artifacts.
package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/cheerioskun/explainer/internal/upload"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/google/uuid"
)

const (
	// GeneratePath starts the explanation job
	GeneratePath = "/generate_explanation"

	// FailureNotice is shown to the user whenever generation fails
	FailureNotice = "An error occurred while generating explanations. Please try again."
)

var (
	// ErrGenerationFailed wraps every generation failure
	ErrGenerationFailed = errors.New("generation failed")
	// ErrInFlight is returned while a previous Generate call is still running
	ErrInFlight = errors.New("generation already in progress")
)

// Result is the server's response to a generation request
type Result struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	OverviewPath string `json:"overview_path"`
}

// Trigger issues generation requests. Only one request runs at a time; the
// trigger is disabled while it is in flight and re-enabled on every outcome.
type Trigger struct {
	baseURL *url.URL
	http    *http.Client
	running atomic.Bool
}

// NewTrigger creates a Trigger for the server at serverURL. Pass the client
// used for the upload so the server session carries over.
func NewTrigger(serverURL string, hc *http.Client) (*Trigger, error) {
	base, err := upload.ParseServerURL(serverURL)
	if err != nil {
		return nil, err
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Trigger{baseURL: base, http: hc}, nil
}

// Enabled reports whether a new generation request may be issued
func (t *Trigger) Enabled() bool {
	return !t.running.Load()
}

// Generate starts the job and waits for its result
func (t *Trigger) Generate(ctx context.Context) (*Result, error) {
	if !t.running.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer t.running.Store(false)

	result, err := t.generate(ctx)
	if err != nil {
		utils.Error("Explanation generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return result, nil
}

func (t *Trigger) generate(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL.JoinPath(GeneratePath).String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(upload.RequestIDHeader, uuid.New().String())

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// ArtifactURL resolves an artifact path returned by the server
func (t *Trigger) ArtifactURL(artifactPath string) string {
	return t.baseURL.JoinPath(strings.TrimLeft(artifactPath, "/")).String()
}

// Fetch downloads an artifact produced by the job
func (t *Trigger) Fetch(ctx context.Context, artifactPath string, w io.Writer) (int64, error) {
	if strings.TrimSpace(artifactPath) == "" {
		return 0, fmt.Errorf("artifact path cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.ArtifactURL(artifactPath), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", artifactPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch %s: server returned %s", artifactPath, resp.Status)
	}
	return io.Copy(w, resp.Body)
}
