package triage

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the narrow interface over the text-generation collaborator.
// All conversation-flow decisions stay deterministic given its output.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

type pinnedModelClient struct {
	inner LLMClient
	model string
}

// PinModel fills in a model ID on requests that do not set one. Providers
// that require a model per request (Bedrock) get it from here; providers
// configured at construction (Gemini) ignore it.
func PinModel(inner LLMClient, model string) LLMClient {
	return &pinnedModelClient{inner: inner, model: model}
}

func (c *pinnedModelClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	return c.inner.Complete(ctx, req)
}
