// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/gameretriever/internal/services"
	"github.com/desertthunder/gameretriever/internal/shared"
)

// MockCatalogSource is a test double for [services.CatalogSource].
//
// Items are handed out in batches of BatchSize (all at once when zero). When AuthFailures is
// positive, that many calls fail with an HTTP 401 [services.APIError] before any data is served.
type MockCatalogSource struct {
	PlatformList []services.Platform
	Games        map[int64][]services.Game
	BatchSize    int

	AuthFailures int
	PlatformsErr error
	GamesErr     error
	GamesErrFor  int64 // platform whose games request fails with GamesErr, 0 for all

	mu            sync.Mutex
	PlatformCalls int
	GameCalls     []int64
}

func (m *MockCatalogSource) fail() error {
	if m.AuthFailures > 0 {
		m.AuthFailures--
		return &services.APIError{StatusCode: http.StatusUnauthorized, Message: "Authorization Failure"}
	}
	return nil
}

func (m *MockCatalogSource) Platforms(ctx context.Context, onBatch func([]services.Platform) error) error {
	m.mu.Lock()
	m.PlatformCalls++
	err := m.fail()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if m.PlatformsErr != nil {
		return m.PlatformsErr
	}
	return batches(m.PlatformList, m.BatchSize, onBatch)
}

func (m *MockCatalogSource) GamesByPlatform(ctx context.Context, platformID int64, onBatch func([]services.Game) error) error {
	m.mu.Lock()
	m.GameCalls = append(m.GameCalls, platformID)
	err := m.fail()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if m.GamesErr != nil && (m.GamesErrFor == 0 || m.GamesErrFor == platformID) {
		return m.GamesErr
	}
	return batches(m.Games[platformID], m.BatchSize, onBatch)
}

// Ping reports false while auth failures remain, without consuming them.
func (m *MockCatalogSource) Ping(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AuthFailures == 0, nil
}

func batches[T any](items []T, size int, onBatch func([]T) error) error {
	if size <= 0 {
		size = len(items)
	}
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		if err := onBatch(items[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// MockAuthenticator is a test double for [services.Authenticator].
type MockAuthenticator struct {
	Token string
	Err   error
	Calls int
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, clientID, clientSecret string) (*shared.Credentials, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &shared.Credentials{ClientID: clientID, AccessToken: m.Token}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
