package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-hub/internal/memory"
	"ai-hub/internal/provider"
)

// Chat resolves text generation with conversation memory threading:
// the growing transcript is the adapter input, and both the user turn
// and the resolved assistant turn are persisted on success. The
// synthesized web answer counts as an assistant turn too; exhaustion
// leaves memory untouched.
type Chat struct {
	resolver *Resolver
	reg      *provider.Registry
	store    memory.Store
	ttl      time.Duration
}

func NewChat(resolver *Resolver, reg *provider.Registry, store memory.Store, ttl time.Duration) *Chat {
	return &Chat{resolver: resolver, reg: reg, store: store, ttl: ttl}
}

func (c *Chat) Ask(ctx context.Context, conversationID, modelKey, prompt string) (string, error) {
	hist := c.store.Get(ctx, conversationID)
	transcript := Transcript(hist, prompt)

	attempts := []Attempt{
		{
			Name:      "hf-space",
			Available: c.reg.Space.Available,
			Run: func(ctx context.Context) (provider.Result, error) {
				return c.reg.Space.Generate(ctx, transcript)
			},
		},
		{
			Name:      "hf-inference",
			Available: c.reg.HFChat.Available,
			Run: func(ctx context.Context) (provider.Result, error) {
				return c.reg.HFChat.Generate(ctx, modelKey, transcript)
			},
		},
		{
			Name:      "replicate-chat",
			Available: c.reg.Replicate.Available,
			Run: func(ctx context.Context) (provider.Result, error) {
				return c.reg.Replicate.Chat(ctx, modelKey, transcript)
			},
		},
		{
			Name: "web-synthesis",
			Run: func(ctx context.Context) (provider.Result, error) {
				return c.webAnswer(ctx, prompt)
			},
		},
	}

	res, err := c.resolver.Resolve(ctx, "chat", attempts)
	if err != nil {
		return "", err
	}

	hist = hist.Append(memory.RoleUser, prompt)
	hist = hist.Append(memory.RoleAssistant, res.Text)
	c.store.Put(ctx, conversationID, hist, c.ttl)
	return res.Text, nil
}

// webAnswer synthesizes an answer from encyclopedia and instant-answer
// lookups. One successful lookup is enough.
func (c *Chat) webAnswer(ctx context.Context, prompt string) (provider.Result, error) {
	var parts []string
	if r, err := c.reg.Wiki.Summary(ctx, prompt); err == nil {
		parts = append(parts, "From Wikipedia: "+r.Text)
	}
	if r, err := c.reg.Duck.Answer(ctx, prompt); err == nil {
		parts = append(parts, "Duck: "+r.Text)
	}
	if len(parts) == 0 {
		return provider.Result{}, fmt.Errorf("web synthesis: no lookup succeeded")
	}
	return provider.Result{Text: strings.Join(parts, "\n\n")}, nil
}

// Transcript renders the stored history plus the new user line as the
// plain-text context passed to chat adapters.
func Transcript(h memory.History, prompt string) string {
	var b strings.Builder
	for _, t := range h {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	b.WriteString(memory.RoleUser)
	b.WriteString(": ")
	b.WriteString(prompt)
	return b.String()
}
