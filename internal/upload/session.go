package upload

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// sessionFile is the on-disk form of the cookies the server set
type sessionFile struct {
	Server  string        `json:"server"`
	Cookies []savedCookie `json:"cookies"`
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DefaultSessionPath returns where the server session is kept between runs
func DefaultSessionPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "explainer", "session.json")
}

// SaveSession writes the cookies hc holds for serverURL to path
func SaveSession(fs afero.Fs, path string, hc *http.Client, serverURL string) error {
	if hc == nil || hc.Jar == nil {
		return fmt.Errorf("http client has no cookie jar")
	}
	base, err := ParseServerURL(serverURL)
	if err != nil {
		return err
	}

	sf := sessionFile{Server: base.String()}
	for _, c := range hc.Jar.Cookies(base) {
		sf.Cookies = append(sf.Cookies, savedCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession restores cookies saved for serverURL into hc's jar.
// It reports false when there is no saved session for that server.
func LoadSession(fs afero.Fs, path string, hc *http.Client, serverURL string) (bool, error) {
	if hc == nil || hc.Jar == nil {
		return false, fmt.Errorf("http client has no cookie jar")
	}
	base, err := ParseServerURL(serverURL)
	if err != nil {
		return false, err
	}

	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read session: %w", err)
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return false, fmt.Errorf("failed to decode session %s: %w", path, err)
	}
	if sf.Server != base.String() || len(sf.Cookies) == 0 {
		return false, nil
	}

	cookies := make([]*http.Cookie, 0, len(sf.Cookies))
	for _, c := range sf.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	hc.Jar.SetCookies(base, cookies)
	return true, nil
}
