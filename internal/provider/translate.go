package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const defaultTranslateBaseURL = "https://translate.googleapis.com"

// Translate is the best-effort unofficial translation adapter. It is
// the one adapter that never fails its request: on any upstream
// problem the input text comes back unchanged.
type Translate struct {
	BaseURL string // defaults to the public endpoint
	Log     *zap.SugaredLogger
}

func (t *Translate) Translate(ctx context.Context, lang, text string) string {
	out, err := t.attempt(ctx, lang, text)
	if err != nil {
		if t.Log != nil {
			t.Log.Warnw("translation fell back to echo", "lang", lang, "err", err)
		}
		return text
	}
	return out
}

func (t *Translate) attempt(ctx context.Context, lang, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	base := t.BaseURL
	if base == "" {
		base = defaultTranslateBaseURL
	}
	u := base + "/translate_a/single?client=gtx&sl=auto&dt=t" +
		"&tl=" + url.QueryEscape(lang) + "&q=" + url.QueryEscape(text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(snippet), 120))
	}

	// The payload is deeply nested arrays: the first element holds
	// segments whose first element is the translated piece.
	var outer []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&outer); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}
	var segments []json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("unrecognized response shape")
	}
	var b strings.Builder
	for _, seg := range segments {
		var parts []json.RawMessage
		if json.Unmarshal(seg, &parts) != nil || len(parts) == 0 {
			continue
		}
		var piece string
		if json.Unmarshal(parts[0], &piece) == nil {
			b.WriteString(piece)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("unrecognized response shape")
	}
	return b.String(), nil
}
