// Package livescore provides a client for the live scoreboard web endpoint
// that displays the skater on the ice, the last called element and the
// running scores.
package livescore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/rollart/internal/logger"
)

// Announcement introduces a skater and resets the board
type Announcement struct {
	SkaterName string
	Team       string
}

// ElementUpdate is sent after every element entry
type ElementUpdate struct {
	Code         string  // code plus a non-base value label, e.g. 3Lz<
	BaseValue    float64 // base value of the called element
	RunningScore float64 // running total of the program
}

// ScoreUpdate is sent after every score recompute
type ScoreUpdate struct {
	RunningScore float64
	Technical    float64
	Components   float64
	Deductions   float64
	SegmentScore float64
	TotalScore   float64
	Rank         int
	Team         string
	TeamScore    float64
}

// Client defines the interface for scoreboard operations
type Client interface {
	// Announce shows a new skater with zeroed scores
	Announce(ctx context.Context, a Announcement) error
	// PushElement shows the last called element
	PushElement(ctx context.Context, u ElementUpdate) error
	// PushScore shows the current program scores
	PushScore(ctx context.Context, u ScoreUpdate) error
	// BaseURL returns the configured endpoint URL
	BaseURL() string
	// SetBaseURL updates the endpoint URL
	SetBaseURL(url string)
}

// HTTPClient is a real HTTP client for the scoreboard endpoint
type HTTPClient struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new scoreboard HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new scoreboard client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured endpoint URL
func (c *HTTPClient) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL updates the endpoint URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = url
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Announce shows a new skater with zeroed scores
func (c *HTTPClient) Announce(ctx context.Context, a Announcement) error {
	params := url.Values{}
	params.Set("skaterName", a.SkaterName)
	params.Set("skaterTeam", a.Team)
	params.Set("liveScoreEl", "-")
	for _, key := range []string{"liveScoreVal", "liveScoreSk", "finalScoreTechnical", "finalScoreComponents",
		"finalScoreDeduction", "segmentScore", "finalScore"} {
		params.Set(key, "0.0")
	}
	params.Set("rank", "0")
	return c.doRequest(ctx, params)
}

// PushElement shows the last called element
func (c *HTTPClient) PushElement(ctx context.Context, u ElementUpdate) error {
	params := url.Values{}
	params.Set("liveScoreEl", u.Code)
	params.Set("liveScoreVal", formatScore(u.BaseValue))
	params.Set("liveScoreSk", formatScore(u.RunningScore))
	return c.doRequest(ctx, params)
}

// PushScore shows the current program scores and the team running total
func (c *HTTPClient) PushScore(ctx context.Context, u ScoreUpdate) error {
	params := url.Values{}
	params.Set("liveScoreSk", formatScore(u.RunningScore))
	params.Set("finalScoreTechnical", formatScore(u.Technical))
	params.Set("finalScoreComponents", formatScore(u.Components))
	params.Set("finalScoreDeduction", formatScore(u.Deductions))
	params.Set("segmentScore", formatScore(u.SegmentScore))
	params.Set("finalScore", formatScore(u.TotalScore))
	params.Set("rank", strconv.Itoa(u.Rank))
	params.Set("team"+u.Team, formatScore(u.TeamScore))
	return c.doRequest(ctx, params)
}

// doRequest sends one GET request with the given query and checks the status
func (c *HTTPClient) doRequest(ctx context.Context, params url.Values) error {
	baseURL := c.BaseURL()
	if baseURL == "" {
		return ErrNotConfigured
	}

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	apiURL := baseURL + sep + params.Encode()

	c.log.Debug("Livescore request", "method", "GET", "url", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to scoreboard: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Livescore response", "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("scoreboard returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
