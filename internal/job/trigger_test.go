package job

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cheerioskun/explainer/internal/upload"
)

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != GeneratePath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if body, _ := io.ReadAll(r.Body); len(body) != 0 {
			t.Errorf("request body = %q, want empty", body)
		}
		if r.Header.Get(upload.RequestIDHeader) == "" {
			t.Error("missing request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success": true, "message": "Explanations generated successfully", "overview_path": "output/project_overview.md"}`)
	}))
	defer srv.Close()

	tr, err := NewTrigger(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewTrigger() error = %v", err)
	}

	result, err := tr.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Success || result.OverviewPath != "output/project_overview.md" {
		t.Errorf("Result = %+v", result)
	}
	if !tr.Enabled() {
		t.Error("trigger not re-enabled after success")
	}
	if got := tr.ArtifactURL(result.OverviewPath); got != srv.URL+"/output/project_overview.md" {
		t.Errorf("ArtifactURL() = %q", got)
	}
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error": "No file structure found"}`)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			tr, _ := NewTrigger(srv.URL, nil)
			_, err := tr.Generate(context.Background())
			if !errors.Is(err, ErrGenerationFailed) {
				t.Errorf("error = %v, want ErrGenerationFailed", err)
			}
			if !tr.Enabled() {
				t.Error("trigger not re-enabled after failure")
			}
		})
	}
}

func TestGenerate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr, _ := NewTrigger(url, nil)
	if _, err := tr.Generate(context.Background()); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("error = %v, want ErrGenerationFailed", err)
	}
	if !tr.Enabled() {
		t.Error("trigger not re-enabled after network error")
	}
}

func TestGenerate_DisabledWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = io.WriteString(w, `{"success": true, "overview_path": "output/project_overview.md"}`)
	}))
	defer srv.Close()

	tr, _ := NewTrigger(srv.URL, nil)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Generate(context.Background())
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}

	if tr.Enabled() {
		t.Error("trigger enabled while request in flight")
	}
	if _, err := tr.Generate(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Errorf("second Generate() error = %v, want ErrInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if !tr.Enabled() {
		t.Error("trigger not re-enabled")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/output/project_overview.md" {
			_, _ = io.WriteString(w, "# Project Overview\n")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	tr, _ := NewTrigger(srv.URL, nil)

	var buf bytes.Buffer
	n, err := tr.Fetch(context.Background(), "output/project_overview.md", &buf)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != "# Project Overview\n" {
		t.Errorf("Fetch() = %d, %q", n, buf.String())
	}

	if _, err := tr.Fetch(context.Background(), "output/missing.md", &buf); err == nil {
		t.Error("Fetch() of missing artifact error = nil")
	}
	if _, err := tr.Fetch(context.Background(), " ", &buf); err == nil {
		t.Error("Fetch() of empty path error = nil")
	}
}
