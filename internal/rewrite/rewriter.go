// ABOUTME: Optional LLM rephrasing of clarifying questions into simpler language
// ABOUTME: Hard output validation - any doubtful rewrite falls back to the original
package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ruralcare/triage-engine/internal/util"
)

// DefaultChatModel is the default model for question rephrasing
const DefaultChatModel = "gpt-4o-mini"

const minRewriteLength = 12

// bannedPhrases disqualify a rewrite outright. The rewriter must sound
// like a nurse asking a question, not a model talking about one.
var bannedPhrases = []string{
	"as an ai",
	"i think",
	"this question",
	"the patient",
	"explain",
}

const systemPrompt = `You rephrase clinical screening questions into simple spoken language for rural health workers.
Rules:
- Keep the exact clinical meaning. Never add or remove symptoms.
- One short question only, ending with a question mark.
- Use plain words a village health worker would say aloud.
Return ONLY the rephrased question.`

// chatClient is the slice of the OpenAI API the rewriter needs.
// *openai.Client satisfies it.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ClientConfig holds configuration for the question rewriter
type ClientConfig struct {
	APIKey     string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default rewriter configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		Timeout:    15 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Second,
	}
}

// Rewriter rephrases catalog questions through a chat model. It is a
// best-effort polish layer: every failure path returns the original
// question text, so the clarification loop never depends on it.
type Rewriter struct {
	client     chatClient
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewRewriter creates a Rewriter with the given configuration.
func NewRewriter(config *ClientConfig) (*Rewriter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &Rewriter{
		client:     openai.NewClient(config.APIKey),
		chatModel:  config.ChatModel,
		timeout:    config.Timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

// Rewrite returns a simplified phrasing of the question, or the
// original text when the model fails or produces something unusable.
func (r *Rewriter) Rewrite(question string) string {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(r.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: r.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Rephrase: %s", question),
				},
			},
			Temperature: 0.3,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		rewritten := strings.TrimSpace(resp.Choices[0].Message.Content)
		if Acceptable(rewritten) {
			return rewritten
		}
		// A rejected rewrite is not worth retrying; the model answered,
		// it just answered badly.
		log.Printf("[Rewriter] Rejected rewrite of %q: %q", question, rewritten)
		return question
	}

	log.Printf("[Rewriter] Falling back to original question: %v", lastErr)
	return question
}

// Acceptable reports whether a rewrite is safe to show: long enough,
// a single question ending in one question mark, no banned phrasing.
func Acceptable(rewritten string) bool {
	if len(rewritten) < minRewriteLength {
		return false
	}
	if !strings.HasSuffix(rewritten, "?") {
		return false
	}
	if strings.Count(rewritten, "?") != 1 {
		return false
	}
	lower := strings.ToLower(rewritten)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
