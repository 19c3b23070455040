package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/spf13/afero"
)

type receivedUpload struct {
	language string
	files    map[string]string
	order    []string
}

func newTestSelection(t *testing.T, files map[string]string) *models.Selection {
	t.Helper()
	fs := afero.NewMemMapFs()
	sel := models.NewSelection("/proj", fs)
	for rel, content := range files {
		if err := afero.WriteFile(fs, sel.GetAbsolutePath(rel), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", rel, err)
		}
		sel.AddFile(models.FileEntry{Path: rel, Size: int64(len(content))})
	}
	return sel
}

// readUpload parses the multipart body keeping the full relative filenames
func readUpload(t *testing.T, r *http.Request) receivedUpload {
	t.Helper()
	got := receivedUpload{files: map[string]string{}}

	mr, err := r.MultipartReader()
	if err != nil {
		t.Errorf("MultipartReader() error = %v", err)
		return got
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Errorf("NextPart() error = %v", err)
			return got
		}
		data, _ := io.ReadAll(part)
		_, params, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		switch params["name"] {
		case LanguageField:
			got.language = string(data)
		case FolderField:
			got.files[params["filename"]] = string(data)
			got.order = append(got.order, params["filename"])
		}
	}
	return got
}

func TestSubmit_RedirectLocation(t *testing.T) {
	var got receivedUpload
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != UploadPath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		requestID = r.Header.Get(RequestIDHeader)
		got = readUpload(t, r)
		http.Redirect(w, r, "/structure", http.StatusFound)
	}))
	defer srv.Close()

	sel := newTestSelection(t, map[string]string{
		"README.md":    "# hi",
		"src/index.js": "console.log(1)",
		"src/.env":     "SECRET=1",
	})

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	outcome, err := c.Submit(context.Background(), sel, []string{"README.md", "src/index.js"}, "fr")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if outcome.Location != srv.URL+"/structure" {
		t.Errorf("Location = %q, want %q", outcome.Location, srv.URL+"/structure")
	}
	if outcome.FileCount != 2 || outcome.Bytes != int64(len("# hi")+len("console.log(1)")) {
		t.Errorf("Outcome = %+v", outcome)
	}
	if got.language != "fr" {
		t.Errorf("language = %q, want fr", got.language)
	}
	if !reflect.DeepEqual(got.order, []string{"README.md", "src/index.js"}) {
		t.Errorf("uploaded files = %v", got.order)
	}
	if got.files["src/index.js"] != "console.log(1)" {
		t.Errorf("src/index.js content = %q", got.files["src/index.js"])
	}
	if requestID == "" || requestID != outcome.RequestID {
		t.Errorf("request id header = %q, outcome = %q", requestID, outcome.RequestID)
	}
}

func TestSubmit_StructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "No valid files to upload or trying to upload the explainer project itself",
		})
	}))
	defer srv.Close()

	sel := newTestSelection(t, map[string]string{"a.txt": "a"})
	c, _ := NewClient(srv.URL, nil)

	_, err := c.Submit(context.Background(), sel, []string{"a.txt"}, "en")

	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *ServerError", err)
	}
	if serr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", serr.StatusCode)
	}
	if serr.Error() != "No valid files to upload or trying to upload the explainer project itself" {
		t.Errorf("message = %q", serr.Error())
	}

	// The selection is untouched and can be resubmitted.
	if len(sel.Files) != 1 || sel.GetFileByPath("a.txt") == nil {
		t.Errorf("selection modified: %+v", sel.Files)
	}
}

func TestSubmit_UnstructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sel := newTestSelection(t, map[string]string{"a.txt": "a"})
	c, _ := NewClient(srv.URL, nil)

	_, err := c.Submit(context.Background(), sel, []string{"a.txt"}, "en")

	var serr *ServerError
	if !errors.As(err, &serr) || serr.Message != "500 Internal Server Error" {
		t.Errorf("error = %v, want status text", err)
	}
}

func TestSubmit_OKWithoutRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sel := newTestSelection(t, map[string]string{"a.txt": "a"})
	c, _ := NewClient(srv.URL+"/", nil)

	outcome, err := c.Submit(context.Background(), sel, []string{"a.txt"}, "en")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if outcome.Location != srv.URL+UploadPath {
		t.Errorf("Location = %q", outcome.Location)
	}
}

func TestSubmit_OKWithErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "No valid files to upload"})
	}))
	defer srv.Close()

	sel := newTestSelection(t, map[string]string{"a.txt": "a"})
	c, _ := NewClient(srv.URL, nil)

	outcome, err := c.Submit(context.Background(), sel, []string{"a.txt"}, "en")

	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("Submit() = %+v, %v; want *ServerError", outcome, err)
	}
	if serr.Message != "No valid files to upload" || serr.StatusCode != http.StatusOK {
		t.Errorf("error = %d %q", serr.StatusCode, serr.Message)
	}
}

func TestSubmit_OKWithJSONBodyWithoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	sel := newTestSelection(t, map[string]string{"a.txt": "a"})
	c, _ := NewClient(srv.URL, nil)

	if _, err := c.Submit(context.Background(), sel, []string{"a.txt"}, "en"); err != nil {
		t.Errorf("Submit() error = %v", err)
	}
}

func TestSubmit_NoFiles(t *testing.T) {
	c, _ := NewClient("http://127.0.0.1:1", nil)
	sel := newTestSelection(t, nil)

	if _, err := c.Submit(context.Background(), sel, nil, "en"); !errors.Is(err, ErrNoFiles) {
		t.Errorf("error = %v, want ErrNoFiles", err)
	}
}

func TestSubmit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	sel := newTestSelection(t, map[string]string{"a.txt": "a"})
	c, _ := NewClient(url, nil)

	_, err := c.Submit(context.Background(), sel, []string{"a.txt"}, "en")
	if err == nil {
		t.Fatal("Submit() error = nil, want network error")
	}
	var serr *ServerError
	if errors.As(err, &serr) {
		t.Errorf("network failure reported as server error: %v", err)
	}
}

func TestParseServerURL(t *testing.T) {
	for _, bad := range []string{"", "   ", "ftp://host", "://nope"} {
		if _, err := ParseServerURL(bad); err == nil {
			t.Errorf("ParseServerURL(%q) error = nil", bad)
		}
	}
	u, err := ParseServerURL("http://localhost:5000/")
	if err != nil || u.String() != "http://localhost:5000" {
		t.Errorf("ParseServerURL() = %v, %v", u, err)
	}
}
