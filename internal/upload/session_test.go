package upload

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestSession_SaveAndLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			return
		}
		c, err := r.Cookie("session")
		if err != nil || c.Value != "abc" {
			http.Error(w, "no session", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	path := "/cache/explainer/session.json"

	first := NewHTTPClient(time.Second)
	resp, err := first.Get(srv.URL + "/login")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if err := SaveSession(fs, path, first, srv.URL); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	second := NewHTTPClient(time.Second)
	ok, err := LoadSession(fs, path, second, srv.URL+"/")
	if err != nil || !ok {
		t.Fatalf("LoadSession() = %v, %v", ok, err)
	}

	resp, err = second.Get(srv.URL + "/generate_explanation")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("restored session rejected: %s", resp.Status)
	}
}

func TestSession_LoadMissingOrOtherServer(t *testing.T) {
	fs := afero.NewMemMapFs()
	hc := NewHTTPClient(time.Second)

	if ok, err := LoadSession(fs, "/nope.json", hc, "http://127.0.0.1:5000"); ok || err != nil {
		t.Errorf("missing file: LoadSession() = %v, %v", ok, err)
	}

	data := []byte(`{"server":"http://other:5000","cookies":[{"name":"session","value":"x"}]}`)
	if err := afero.WriteFile(fs, "/s.json", data, 0600); err != nil {
		t.Fatal(err)
	}
	if ok, err := LoadSession(fs, "/s.json", hc, "http://127.0.0.1:5000"); ok || err != nil {
		t.Errorf("other server: LoadSession() = %v, %v", ok, err)
	}
}

func TestSession_RequiresJar(t *testing.T) {
	if err := SaveSession(afero.NewMemMapFs(), "/s.json", &http.Client{}, "http://127.0.0.1:5000"); err == nil {
		t.Error("SaveSession() without a jar should fail")
	}
}
