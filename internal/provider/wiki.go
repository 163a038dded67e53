package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultWikiBaseURL = "https://en.wikipedia.org"

// Wiki fetches an encyclopedia summary by page title. No credential is
// required, so the adapter is always available.
type Wiki struct {
	BaseURL string // defaults to the public API
}

func (w *Wiki) Available() bool { return w != nil }

func (w *Wiki) Summary(ctx context.Context, topic string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	base := w.BaseURL
	if base == "" {
		base = defaultWikiBaseURL
	}
	title := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(topic), " ", "_"))

	var out struct {
		Extract string `json:"extract"`
	}
	if err := doJSON(ctx, http.MethodGet, base+"/api/rest_v1/page/summary/"+title, nil, nil, &out); err != nil {
		return Result{}, fmt.Errorf("wiki: %w", err)
	}
	if strings.TrimSpace(out.Extract) == "" {
		return Result{}, fmt.Errorf("wiki: no summary for %q", topic)
	}
	return Result{Text: out.Extract}, nil
}
