package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultReplicateBaseURL = "https://api.replicate.com"

const defaultReplicateChatModel = "meta/meta-llama-3-8b-instruct"

// Replicate runs managed-compute models: chat fallback, speech
// fallback, half of the media operations, and operator-named models
// for /ai replicate.
type Replicate struct {
	Token      string
	BaseURL    string // defaults to the public API
	ChatModels map[string]string // model key -> model, default if unmapped
	TTSModel   string
	Models     map[string]string // named models, incl. media op entries
}

func (r *Replicate) Available() bool { return r != nil && r.Token != "" }

func (r *Replicate) HasModel(name string) bool {
	return r.Available() && r.Models[name] != ""
}

func (r *Replicate) HasTTS() bool { return r.Available() && r.TTSModel != "" }

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// run creates a prediction and waits for a terminal state. Versioned
// models ("owner/model:version") go through the generic predictions
// endpoint; bare names through the model-scoped one.
func (r *Replicate) run(ctx context.Context, model string, input map[string]any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	headers := map[string]string{
		"Authorization": "Bearer " + r.Token,
		"Prefer":        "wait",
	}
	base := r.BaseURL
	if base == "" {
		base = defaultReplicateBaseURL
	}

	var p prediction
	var err error
	if i := strings.IndexByte(model, ':'); i >= 0 {
		body := map[string]any{"version": model[i+1:], "input": input}
		err = doJSON(ctx, http.MethodPost, base+"/v1/predictions", headers, body, &p)
	} else {
		body := map[string]any{"input": input}
		err = doJSON(ctx, http.MethodPost, base+"/v1/models/"+model+"/predictions", headers, body, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("replicate: %w", err)
	}

	for !terminalStatus(p.Status) {
		if p.URLs.Get == "" {
			return nil, fmt.Errorf("replicate: prediction %s has no poll url", p.ID)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("replicate: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
		if err := doJSON(ctx, http.MethodGet, p.URLs.Get, headers, nil, &p); err != nil {
			return nil, fmt.Errorf("replicate: %w", err)
		}
	}
	if p.Status != "succeeded" {
		return nil, fmt.Errorf("replicate: prediction %s ended %s", p.ID, p.Status)
	}
	return p.Output, nil
}

func terminalStatus(s string) bool {
	return s == "succeeded" || s == "failed" || s == "canceled"
}

// outputText normalizes a prediction output into text: a plain string,
// or an array of string tokens joined together.
func outputText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
		return s, nil
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil && len(parts) > 0 {
		joined := strings.Join(parts, "")
		if strings.TrimSpace(joined) != "" {
			return joined, nil
		}
	}
	return "", fmt.Errorf("replicate: unrecognized output shape")
}

// outputURL normalizes a prediction output into a single file URL: a
// plain string, or the first element of an array.
func outputURL(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s, nil
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil && len(parts) > 0 && parts[0] != "" {
		return parts[0], nil
	}
	return "", fmt.Errorf("replicate: unrecognized output shape")
}

func (r *Replicate) namedURL(ctx context.Context, name string, input map[string]any, kind Kind) (Result, error) {
	model := r.Models[name]
	if model == "" {
		return Result{}, fmt.Errorf("replicate: no model configured for %q", name)
	}
	raw, err := r.run(ctx, model, input)
	if err != nil {
		return Result{}, err
	}
	u, err := outputURL(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: kind}, nil
}

// Chat is the managed-compute chat fallback.
func (r *Replicate) Chat(ctx context.Context, modelKey, transcript string) (Result, error) {
	model := r.ChatModels[modelKey]
	if model == "" {
		model = defaultReplicateChatModel
	}
	raw, err := r.run(ctx, model, map[string]any{"prompt": transcript})
	if err != nil {
		return Result{}, err
	}
	text, err := outputText(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text}, nil
}

// Speak is the managed-compute speech fallback; output is an audio URL.
func (r *Replicate) Speak(ctx context.Context, text string) (Result, error) {
	if r.TTSModel == "" {
		return Result{}, fmt.Errorf("replicate: no tts model configured")
	}
	raw, err := r.run(ctx, r.TTSModel, map[string]any{"text": text})
	if err != nil {
		return Result{}, err
	}
	u, err := outputURL(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindAudio}, nil
}

// Named runs an operator-configured model by its config name.
func (r *Replicate) Named(ctx context.Context, name, prompt string) (Result, error) {
	model := r.Models[name]
	if model == "" {
		return Result{}, fmt.Errorf("replicate: no model configured for %q", name)
	}
	raw, err := r.run(ctx, model, map[string]any{"prompt": prompt})
	if err != nil {
		return Result{}, err
	}
	text, err := outputText(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text}, nil
}

// Media operations, one adapter per operation.

func (r *Replicate) Flux(ctx context.Context, prompt string) (Result, error) {
	return r.namedURL(ctx, "flux", map[string]any{"prompt": prompt}, KindImage)
}

func (r *Replicate) FixFace(ctx context.Context, imageURL string) (Result, error) {
	return r.namedURL(ctx, "fixface", map[string]any{"img": imageURL}, KindImage)
}

func (r *Replicate) Caption(ctx context.Context, imageURL string) (Result, error) {
	model := r.Models["caption"]
	if model == "" {
		return Result{}, fmt.Errorf("replicate: no model configured for %q", "caption")
	}
	raw, err := r.run(ctx, model, map[string]any{"image": imageURL})
	if err != nil {
		return Result{}, err
	}
	text, err := outputText(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text}, nil
}

func (r *Replicate) BurnCaption(ctx context.Context, videoURL string) (Result, error) {
	return r.namedURL(ctx, "burncaption", map[string]any{"video": videoURL}, KindVideo)
}

func (r *Replicate) Recon3D(ctx context.Context, imageURL string) (Result, error) {
	return r.namedURL(ctx, "recon3d", map[string]any{"image": imageURL}, KindDocument)
}
