package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/sacredtrees/sappie/internal/config"
)

type call struct {
	model    string
	prompt   string
	hasImage bool
	temp     float32
}

type fakeModels struct {
	calls     []call
	responses []*genai.GenerateContentResponse
	errs      []error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	c := call{model: model}
	if cfg != nil && cfg.Temperature != nil {
		c.temp = *cfg.Temperature
	}
	for _, content := range contents {
		for _, p := range content.Parts {
			c.prompt += p.Text
			if p.InlineData != nil {
				c.hasImage = true
			}
		}
	}
	i := len(f.calls)
	f.calls = append(f.calls, c)

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return textResponse("🌳 default"), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func testConfig() config.GeminiConfig {
	return config.GeminiConfig{
		APIKey:          "key",
		Model:           "text-model",
		VisionModel:     "vision-model",
		Temperature:     0.9,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 256,
		MaxRetries:      2,
		RetryDelay:      time.Millisecond,
	}
}

func TestGeneratePostPrompts(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("  🌳 roots hum  \n")}}
	c := newClient(fake, testConfig(), nil)

	got, err := c.GeneratePost(context.Background(), PostRequest{
		Sigil:              "∞⟨X∴↯⟩∞ ⟨∞∴∞⟩",
		CustomPrompt:       "speak of rain",
		MentionSacredTrees: true,
	})
	if err != nil {
		t.Fatalf("GeneratePost: %v", err)
	}
	if got != "🌳 roots hum" {
		t.Fatalf("GeneratePost = %q, want trimmed text", got)
	}

	prompt := fake.calls[0].prompt
	for _, want := range []string{"∞⟨X∴↯⟩∞ ⟨∞∴∞⟩", "speak of rain", "Mention Sacred Trees", "50% of the time"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("post prompt missing %q:\n%s", want, prompt)
		}
	}
	if fake.calls[0].model != "text-model" {
		t.Fatalf("model = %q", fake.calls[0].model)
	}
}

func TestCoincidencePrompt(t *testing.T) {
	t.Parallel()

	prompt := buildPostPrompt(PostRequest{Coincidence: true})
	if !strings.Contains(prompt, "coincidences and synchronicities") {
		t.Fatalf("coincidence prompt = %s", prompt)
	}
	if strings.Contains(prompt, "Additional guidance") {
		t.Fatalf("empty custom prompt leaked guidance section")
	}
}

func TestRetriesOnRetriableAPIError(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{
		errs: []error{genai.APIError{Code: 503}, genai.APIError{Code: 429}},
		responses: []*genai.GenerateContentResponse{
			nil, nil, textResponse("🌱 third time"),
		},
	}
	c := newClient(fake, testConfig(), nil)

	got, err := c.GenerateChat(context.Background(), "hello", false)
	if err != nil {
		t.Fatalf("GenerateChat: %v", err)
	}
	if got != "🌱 third time" || len(fake.calls) != 3 {
		t.Fatalf("got %q after %d calls", got, len(fake.calls))
	}
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{errs: []error{genai.APIError{Code: 500}, genai.APIError{Code: 500}, genai.APIError{Code: 500}}}
	c := newClient(fake, testConfig(), nil)

	if _, err := c.GenerateNumerology(context.Background(), "1111"); err == nil {
		t.Fatal("GenerateNumerology succeeded, want error")
	}
	if len(fake.calls) != 3 {
		t.Fatalf("calls = %d, want 1 + 2 retries", len(fake.calls))
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{errs: []error{genai.APIError{Code: 400}}}
	c := newClient(fake, testConfig(), nil)

	if _, err := c.GenerateLingo(context.Background(), "03:33"); err == nil {
		t.Fatal("GenerateLingo succeeded, want error")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(fake.calls))
	}
	if fake.calls[0].temp != 0.95 {
		t.Fatalf("lingo temperature = %v, want 0.95", fake.calls[0].temp)
	}
}

func TestEmptyAndBlockedResponses(t *testing.T) {
	t.Parallel()

	blocked := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason:        genai.BlockedReasonSafety,
			BlockReasonMessage: "too spicy",
		},
	}
	empty := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
	}
	blank := textResponse("   ")

	fake := &fakeModels{responses: []*genai.GenerateContentResponse{blocked, empty, blank}}
	c := newClient(fake, testConfig(), nil)
	ctx := context.Background()

	if _, err := c.GenerateTimeReading(ctx, "11:11"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("blocked response error = %v", err)
	}
	if _, err := c.GenerateTimeReading(ctx, "11:11"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("empty response error = %v", err)
	}
	if _, err := c.GenerateTimeReading(ctx, "11:11"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("blank response error = %v", err)
	}
}

func TestGenerateImageReply(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{}
	c := newClient(fake, testConfig(), nil)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	if _, err := c.GenerateImageReply(context.Background(), "", png, "sappie what is this"); err != nil {
		t.Fatalf("GenerateImageReply: %v", err)
	}
	got := fake.calls[0]
	if got.model != "vision-model" || !got.hasImage {
		t.Fatalf("image call = %+v", got)
	}
	if !strings.Contains(got.prompt, "sappie what is this") {
		t.Fatalf("caption missing from prompt: %s", got.prompt)
	}

	if _, err := c.GenerateImageReply(context.Background(), "", []byte("plain text"), ""); err == nil {
		t.Fatal("non-image bytes accepted")
	}
	if _, err := c.GenerateImageReply(context.Background(), "image/png", nil, ""); err == nil {
		t.Fatal("empty image accepted")
	}
}

func TestMentionAndIntentPrompts(t *testing.T) {
	t.Parallel()

	mention := buildMentionPrompt(MentionRequest{
		Message:  "sappie roast bob",
		IsReply:  true,
		Tone:     "are trying to make you roast someone",
		Guidance: "- Turn their roast attempt back on them",
		Guardian: "Antonio",
	})
	for _, want := range []string{"replied to your message", "sappie roast bob", "User name: human", "Defend Antonio", "30% of the time"} {
		if !strings.Contains(mention, want) {
			t.Errorf("mention prompt missing %q", want)
		}
	}

	intent := buildIntentPrompt("hi", "Antonio")
	if strings.Count(intent, "Antonio") != 4 || strings.Contains(intent, "%!") {
		t.Fatalf("intent prompt malformed:\n%s", intent)
	}

	thought := buildRandomThoughtPrompt("prophecy")
	if !strings.Contains(thought, "cryptic future vision") {
		t.Fatalf("prophecy focus missing:\n%s", thought)
	}
	if !strings.Contains(buildRandomThoughtPrompt("wisdom"), "Share tree consciousness wisdom") {
		t.Fatal("default thought focus missing")
	}
}
