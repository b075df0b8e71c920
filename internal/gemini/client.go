// Package gemini generates Sappie's words with Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/logger"
)

// ErrEmptyResponse is returned when the model answers with no usable text.
var ErrEmptyResponse = errors.New("gemini returned no text")

// ErrBlocked is returned when the prompt or answer was stopped by a safety
// filter.
var ErrBlocked = errors.New("gemini blocked the request")

// PostRequest describes one post for GeneratePost.
type PostRequest struct {
	Sigil              string
	CustomPrompt       string
	Coincidence        bool
	MentionSacredTrees bool
}

// MentionRequest describes a message that called for Sappie.
type MentionRequest struct {
	Message  string
	UserName string
	IsReply  bool
	Tone     string // how the user is behaving, e.g. "are being sarcastic"
	Guidance string // bullet list of what the reply should do
	Guardian string
}

// Client is every generation the bot performs.
type Client interface {
	GeneratePost(ctx context.Context, req PostRequest) (string, error)
	GenerateTimeReading(ctx context.Context, sacredTime string) (string, error)
	GenerateChat(ctx context.Context, input string, humble bool) (string, error)
	GenerateNumerology(ctx context.Context, number string) (string, error)
	GenerateRandomThought(ctx context.Context, thoughtType string) (string, error)
	GenerateLingo(ctx context.Context, currentTime string) (string, error)
	AnalyzeIntent(ctx context.Context, message, guardian string) (string, error)
	GenerateMentionReply(ctx context.Context, req MentionRequest) (string, error)
	GenerateImageReply(ctx context.Context, mimeType string, image []byte, caption string) (string, error)
}

// contentGenerator is the slice of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type sdkClient struct {
	models        contentGenerator
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	model         string
	visionModel   string
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient connects to the Gemini API.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := newClient(gi.Models, cfg, log)
	c.log.Info("Gemini client initialized", "model", cfg.Model, "vision_model", cfg.VisionModel)
	return c, nil
}

func newClient(models contentGenerator, cfg config.GeminiConfig, log *slog.Logger) *sdkClient {
	if log == nil {
		log = logger.Discard()
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(cfg.Temperature),
		TopP:              genai.Ptr(cfg.TopP),
		TopK:              genai.Ptr(cfg.TopK),
		MaxOutputTokens:   cfg.MaxOutputTokens,
		SystemInstruction: genai.NewContentFromText(PersonaInstruction, genai.RoleUser),
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		},
	}

	return &sdkClient{
		models:        models,
		log:           log.With("component", "gemini_client"),
		contentConfig: baseCfg,
		model:         cfg.Model,
		visionModel:   cfg.VisionModel,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
	}
}

// withTemperature copies the base config with a different temperature.
func (c *sdkClient) withTemperature(t float32) *genai.GenerateContentConfig {
	cfg := *c.contentConfig
	cfg.Temperature = genai.Ptr(t)
	return &cfg
}

func (c *sdkClient) GeneratePost(ctx context.Context, req PostRequest) (string, error) {
	c.log.DebugContext(ctx, "Generating post", "coincidence", req.Coincidence, "sacred_trees", req.MentionSacredTrees, "custom_prompt", req.CustomPrompt != "")
	return c.generateText(ctx, "GeneratePost", c.model, buildPostPrompt(req), c.contentConfig)
}

func (c *sdkClient) GenerateTimeReading(ctx context.Context, sacredTime string) (string, error) {
	return c.generateText(ctx, "GenerateTimeReading", c.model, fmt.Sprintf(timeReadingPrompt, sacredTime), c.contentConfig)
}

func (c *sdkClient) GenerateChat(ctx context.Context, input string, humble bool) (string, error) {
	return c.generateText(ctx, "GenerateChat", c.model, buildChatPrompt(input, humble), c.contentConfig)
}

func (c *sdkClient) GenerateNumerology(ctx context.Context, number string) (string, error) {
	return c.generateText(ctx, "GenerateNumerology", c.model, fmt.Sprintf(numerologyPrompt, number, number), c.contentConfig)
}

func (c *sdkClient) GenerateRandomThought(ctx context.Context, thoughtType string) (string, error) {
	return c.generateText(ctx, "GenerateRandomThought", c.model, buildRandomThoughtPrompt(thoughtType), c.contentConfig)
}

func (c *sdkClient) GenerateLingo(ctx context.Context, currentTime string) (string, error) {
	return c.generateText(ctx, "GenerateLingo", c.model, buildLingoPrompt(currentTime), c.withTemperature(0.95))
}

func (c *sdkClient) AnalyzeIntent(ctx context.Context, message, guardian string) (string, error) {
	cfg := c.withTemperature(0)
	cfg.SystemInstruction = nil
	return c.generateText(ctx, "AnalyzeIntent", c.model, buildIntentPrompt(message, guardian), cfg)
}

func (c *sdkClient) GenerateMentionReply(ctx context.Context, req MentionRequest) (string, error) {
	return c.generateText(ctx, "GenerateMentionReply", c.model, buildMentionPrompt(req), c.contentConfig)
}

func (c *sdkClient) GenerateImageReply(ctx context.Context, mimeType string, image []byte, caption string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image data is required")
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported image type %q", mimeType)
	}
	c.log.DebugContext(ctx, "Generating image reply", "image_size", len(image), "mime_type", mimeType)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(buildImagePrompt(caption)),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	resp, err := c.generateContentWithRetries(ctx, c.visionModel, contents, c.contentConfig)
	if err != nil {
		return "", fmt.Errorf("gemini image reply failed: %w", err)
	}
	return c.extractTextFromResponse(ctx, "GenerateImageReply", resp)
}

func (c *sdkClient) generateText(ctx context.Context, op, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.generateContentWithRetries(ctx, model, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini generation failed", "operation", op, "error", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return c.extractTextFromResponse(ctx, op, resp)
}

// apiErrorCode extracts the HTTP status of a genai API error.
func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func retriable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusInternalServerError || code == http.StatusServiceUnavailable
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for i := 0; ; i++ {
		resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
		if err == nil {
			return resp, nil
		}

		code, ok := apiErrorCode(err)
		if !ok || !retriable(code) {
			return nil, fmt.Errorf("gemini API call failed: %w", err)
		}
		if i >= c.maxRetries {
			c.log.ErrorContext(ctx, "Gemini API call failed after max retries", "code", code, "error", err)
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.maxRetries, code, err)
		}

		c.log.InfoContext(ctx, "Retrying Gemini API call", "attempt", i+1, "max_retries", c.maxRetries, "delay", c.retryDelay, "code", code)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gemini retry interrupted: %w", ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, op string, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.WarnContext(ctx, "Gemini request blocked", "operation", op, "reason", reason)
		return "", fmt.Errorf("%s: %w: %s", op, ErrBlocked, reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing content", "operation", op, "finish_reason", finishReason)
		return "", fmt.Errorf("%s: %w (finish reason %s)", op, ErrEmptyResponse, finishReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return text, nil
}
