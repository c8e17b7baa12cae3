package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/gameretriever/internal/services"
	"github.com/desertthunder/gameretriever/internal/shared"
	tu "github.com/desertthunder/gameretriever/internal/testing"
)

func clientWithTransport(t *testing.T, rt http.RoundTripper) *services.IGDBClient {
	t.Helper()

	client, err := services.NewIGDBClient(services.IGDBOpts{
		BaseURL:     "https://igdb.test/v4",
		Credentials: shared.Credentials{ClientID: "client-id", AccessToken: "access-token"},
		HTTPClient:  &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestIGDBClientTransportFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: &tu.FCloser{}}
		client := clientWithTransport(t, tu.NewMockRoundTripper(resp, nil))

		var out []services.Platform
		err := client.Post(ctx, "platforms", "fields name;", &out)
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}

		var apiErr *services.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != http.StatusOK || apiErr.Message != "failed to read response" {
			t.Errorf("unexpected error %+v", apiErr)
		}
		if apiErr.Err == nil || !strings.Contains(apiErr.Err.Error(), "read failed") {
			t.Errorf("expected underlying read error, got %v", apiErr.Err)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		cause := errors.New("connection reset")
		client := clientWithTransport(t, tu.NewMockRoundTripper(nil, cause))

		err := client.Post(ctx, "games", "fields name;", nil)
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("expected the transport error to be wrapped, got %v", err)
		}

		var apiErr *services.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 0 || apiErr.Message != "request failed" {
			t.Errorf("unexpected error %v", err)
		}
	})
}
