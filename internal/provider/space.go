package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Space calls a hosted inference space. The space wraps its payload in
// a data array; the first element is the generated text.
type Space struct {
	URL string
}

func (s *Space) Available() bool { return s != nil && s.URL != "" }

func (s *Space) Generate(ctx context.Context, prompt string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var out struct {
		Data []json.RawMessage `json:"data"`
	}
	body := map[string]any{"data": []string{prompt}}
	if err := doJSON(ctx, http.MethodPost, s.URL, nil, body, &out); err != nil {
		return Result{}, fmt.Errorf("space: %w", err)
	}
	if len(out.Data) == 0 {
		return Result{}, fmt.Errorf("space: empty data array")
	}
	var text string
	if err := json.Unmarshal(out.Data[0], &text); err != nil || strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("space: unrecognized response shape")
	}
	return Result{Text: text}, nil
}
