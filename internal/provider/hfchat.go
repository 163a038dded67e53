package provider

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const hfRouterBaseURL = "https://router.huggingface.co/v1"

// DefaultModelKey is used when the user does not name a model.
const DefaultModelKey = "llama2"

// Model keys a user may pass to /ai chat, mapped to hosted model ids.
var hfModels = map[string]string{
	"llama2":  "meta-llama/Llama-2-7b-chat-hf",
	"mistral": "mistralai/Mistral-7B-Instruct-v0.2",
	"flan_t5": "google/flan-t5-xxl",
	"falcon":  "tiiuae/falcon-7b-instruct",
	"gpt2":    "openai-community/gpt2",
	"bloom":   "bigscience/bloom",
}

func IsModelKey(key string) bool {
	_, ok := hfModels[key]
	return ok
}

// HFChat is the keyed inference chat adapter, speaking the
// OpenAI-compatible router endpoint.
type HFChat struct {
	client *openai.Client
	token  string
}

func NewHFChat(token string) *HFChat {
	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = hfRouterBaseURL
	return &HFChat{client: openai.NewClientWithConfig(cfg), token: token}
}

func (h *HFChat) Available() bool { return h != nil && h.token != "" }

func (h *HFChat) Generate(ctx context.Context, modelKey, transcript string) (Result, error) {
	model, ok := hfModels[modelKey]
	if !ok {
		model = hfModels[DefaultModelKey]
	}
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("hf inference: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Result{}, fmt.Errorf("hf inference: empty completion")
	}
	return Result{Text: resp.Choices[0].Message.Content}, nil
}
