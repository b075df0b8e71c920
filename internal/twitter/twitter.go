// Package twitter posts tweets through the v2 API with OAuth 1.0a
// user-context credentials.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/logger"
)

var (
	// ErrDailyLimit is returned when Twitter refuses a tweet with 403, which
	// for this account means the daily posting cap is spent.
	ErrDailyLimit = errors.New("twitter daily tweet limit reached")
	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("twitter rate limit exceeded")
)

// APIError is any other non-2xx answer.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter API returned %d: %s", e.StatusCode, e.Body)
}

// Tweet is a posted tweet.
type Tweet struct {
	ID   string
	Text string
	URL  string
}

// Poster publishes a tweet.
type Poster interface {
	Post(ctx context.Context, text string) (Tweet, error)
}

// Client talks to the Twitter API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	handle     string
	log        *slog.Logger
}

const requestTimeout = 30 * time.Second

// NewClient signs every request with the account's OAuth 1.0a credentials.
func NewClient(cfg config.TwitterConfig, log *slog.Logger) *Client {
	oc := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
	httpClient := oc.Client(context.Background(), token)
	httpClient.Timeout = requestTimeout
	return newClient(httpClient, cfg.BaseURL, cfg.Handle, log)
}

func newClient(httpClient *http.Client, baseURL, handle string, log *slog.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		handle:     handle,
		log:        log.With("component", "twitter"),
	}
}

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Post creates a tweet.
func (c *Client) Post(ctx context.Context, text string) (Tweet, error) {
	body, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return Tweet{}, fmt.Errorf("failed to encode tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return Tweet{}, fmt.Errorf("failed to build tweet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Tweet{}, fmt.Errorf("tweet request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Tweet{}, fmt.Errorf("failed to read tweet response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		c.log.WarnContext(ctx, "Twitter refused tweet", "status", resp.StatusCode, "body", logger.Truncate(string(respBody), 200))
		return Tweet{}, ErrDailyLimit
	case resp.StatusCode == http.StatusTooManyRequests:
		c.log.WarnContext(ctx, "Twitter rate limited", "reset", resp.Header.Get("x-rate-limit-reset"))
		return Tweet{}, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Tweet{}, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var created createTweetResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return Tweet{}, fmt.Errorf("failed to decode tweet response: %w", err)
	}
	if created.Data.ID == "" {
		return Tweet{}, fmt.Errorf("tweet response has no id: %s", logger.Truncate(string(respBody), 200))
	}

	tw := Tweet{
		ID:   created.Data.ID,
		Text: created.Data.Text,
		URL:  c.StatusURL(created.Data.ID),
	}
	c.log.InfoContext(ctx, "Tweet posted", "id", tw.ID, "url", tw.URL)
	return tw, nil
}

// StatusURL is the public link to a tweet.
func (c *Client) StatusURL(id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", c.handle, id)
}
