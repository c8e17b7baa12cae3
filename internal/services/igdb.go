package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/gameretriever/internal/shared"
)

const (
	DefaultIGDBURL = "https://api.igdb.com/v4"

	endpointPlatforms = "platforms"
	endpointGames     = "games"

	// pingGameID is a long-lived IGDB game requested to check whether the token is accepted.
	pingGameID = 5601
)

// APIError is a failed IGDB request.
type APIError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error // underlying transport or decoding error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return fmt.Sprintf("%v: unauthorized, use 'auth login' to authorize to IGDB: %s", shared.ErrAuthFailed, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: HTTP code %d: %s", shared.ErrFetchFailed, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%v: %s", shared.ErrFetchFailed, e.Message)
	}
}

// Unwrap exposes the matching sentinel and the underlying cause.
func (e *APIError) Unwrap() []error {
	sentinel := shared.ErrFetchFailed
	if e.StatusCode == http.StatusUnauthorized {
		sentinel = shared.ErrAuthFailed
	}
	if e.Err != nil {
		return []error{sentinel, e.Err}
	}
	return []error{sentinel}
}

// IGDBOpts configures an [IGDBClient].
type IGDBOpts struct {
	BaseURL     string
	Credentials shared.Credentials
	RateLimit   float64 // requests per second, <= 0 disables throttling
	HTTPClient  *http.Client
	Logger      *log.Logger
}

// IGDBClient issues authenticated Apicalypse queries against IGDB.
type IGDBClient struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewIGDBClient creates a client bound to opts.Credentials.
//
// The bearer token is attached by an [oauth2.StaticTokenSource] transport wrapping opts.HTTPClient.
func NewIGDBClient(opts IGDBOpts) (*IGDBClient, error) {
	if !opts.Credentials.Valid() {
		return nil, fmt.Errorf("%w: IGDB client requires a client id and access token", shared.ErrNotAuthenticated)
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultIGDBURL
	}

	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Credentials.AccessToken, TokenType: "Bearer"})
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	return &IGDBClient{
		baseURL:    baseURL,
		clientID:   opts.Credentials.ClientID,
		httpClient: oauth2.NewClient(ctx, src),
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}, nil
}

// Post sends query to endpoint and decodes the JSON array response into out.
func (c *IGDBClient) Post(ctx context.Context, endpoint, query string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Message: "rate limiter", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(query))
	if err != nil {
		return &APIError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	c.logger.Debug("IGDB request", "endpoint", endpoint, "query", query)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: "failed to decode response", Err: err}
		}
	}
	return nil
}

// Platforms pages through every IGDB platform.
func (c *IGDBClient) Platforms(ctx context.Context, onBatch func([]Platform) error) error {
	q := Query{Fields: []string{"name", "abbreviation"}, Sort: "id asc"}
	return NewPager[Platform](c, endpointPlatforms, c.logger).Fetch(ctx, q, onBatch)
}

// GamesByPlatform pages through every game released on platformID.
func (c *IGDBClient) GamesByPlatform(ctx context.Context, platformID int64, onBatch func([]Game) error) error {
	q := Query{
		Fields: []string{"name", "url"},
		Where:  "platforms = " + strconv.FormatInt(platformID, 10),
		Sort:   "id asc",
	}
	return NewPager[Game](c, endpointGames, c.logger).Fetch(ctx, q, onBatch)
}

// Ping reports whether IGDB accepts the client's credentials.
//
// An auth failure yields false without error; other failures are returned.
func (c *IGDBClient) Ping(ctx context.Context) (bool, error) {
	q := Query{Fields: []string{"id"}, Where: "id = " + strconv.Itoa(pingGameID)}

	var games []Game
	err := c.Post(ctx, endpointGames, q.Page(1, 0), &games)
	if errors.Is(err, shared.ErrAuthFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// errorMessage extracts a readable message from an IGDB error body.
//
// IGDB answers with either {"message": ...} or [{"title": ..., "cause": ...}].
func errorMessage(body []byte) string {
	var single struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.Message != "" {
		return single.Message
	}

	var list []struct {
		Title string `json:"title"`
		Cause string `json:"cause"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			msg := item.Title
			if item.Cause != "" {
				msg += ": " + item.Cause
			}
			parts = append(parts, msg)
		}
		return strings.Join(parts, "; ")
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "empty response"
}

var _ RemoteCatalog = (*IGDBClient)(nil)
