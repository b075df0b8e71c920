// Package aitable appends post records to AITable datasheets.
package aitable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/logger"
)

// Table is a logical table name; config maps it to a datasheet id.
type Table string

const (
	TelegramPosts  Table = "telegram_posts"
	AdminPosts     Table = "admin_posts"
	ScheduledPosts Table = "scheduled_posts"
)

// Field names shared by the datasheets.
const (
	FieldContent      = "Content"
	FieldPostedAt     = "Posted At"
	FieldChatID       = "Chat ID"
	FieldAdminID      = "Admin ID"
	FieldPlatform     = "Platform"
	FieldCustomPrompt = "Custom Prompt"
	FieldType         = "Type"
	FieldTweetURL     = "Tweet URL"
	FieldSacredTime   = "Sacred Time"
)

// Fields is one record's column values.
type Fields map[string]any

// APIError is a failed AITable call.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aitable API returned %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// Recorder stores records. Implementations never fail their caller.
type Recorder interface {
	Record(ctx context.Context, table Table, fields Fields)
}

// Client is an AITable Fusion API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	tables     map[string]string
	enabled    bool
	log        *slog.Logger
}

// NewClient creates a client. A disabled client drops every record.
func NewClient(cfg config.AITableConfig, log *slog.Logger) *Client {
	return newClient(&http.Client{Timeout: 15 * time.Second}, cfg, log)
}

func newClient(httpClient *http.Client, cfg config.AITableConfig, log *slog.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		tables:     cfg.Tables,
		enabled:    cfg.Enabled,
		log:        log.With("component", "aitable"),
	}
}

type recordsRequest struct {
	Records []record `json:"records"`
}

type record struct {
	Fields Fields `json:"fields"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Record stores fields in table, logging instead of returning failures.
func (c *Client) Record(ctx context.Context, table Table, fields Fields) {
	if err := c.CreateRecord(ctx, table, fields); err != nil {
		c.log.ErrorContext(ctx, "Failed to store record in AITable", "table", table, "error", err)
	}
}

// CreateRecord stores one record. It is a no-op when the client is disabled
// or the table has no datasheet id.
func (c *Client) CreateRecord(ctx context.Context, table Table, fields Fields) error {
	if !c.enabled {
		return nil
	}
	sheet := c.tables[string(table)]
	if sheet == "" {
		c.log.DebugContext(ctx, "No datasheet for table, skipping record", "table", table)
		return nil
	}

	body, err := json.Marshal(recordsRequest{Records: []record{{Fields: fields}}})
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/fusion/v1/datasheets/%s/records", c.baseURL, url.PathEscape(sheet))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build record request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("record request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read record response: %w", err)
	}

	var result apiResponse
	jsonErr := json.Unmarshal(raw, &result)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := result.Message
		if jsonErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Code: result.Code, Message: msg}
	}
	// AITable reports some failures as 200 with success=false.
	if jsonErr == nil && !result.Success {
		return &APIError{StatusCode: resp.StatusCode, Code: result.Code, Message: result.Message}
	}

	c.log.DebugContext(ctx, "Stored record in AITable", "table", table)
	return nil
}
