package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultDuckBaseURL = "https://api.duckduckgo.com"

// Duck queries the instant-answer API. The useful text moves between
// fields depending on the query, so several are tried in a fixed order.
type Duck struct {
	BaseURL string // defaults to the public API
}

func (d *Duck) Available() bool { return d != nil }

func (d *Duck) Answer(ctx context.Context, query string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	base := d.BaseURL
	if base == "" {
		base = defaultDuckBaseURL
	}
	u := base + "/?q=" + url.QueryEscape(query) + "&format=json&no_html=1&skip_disambig=1"

	var out struct {
		AbstractText  string `json:"AbstractText"`
		Answer        string `json:"Answer"`
		RelatedTopics []struct {
			Text string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := doJSON(ctx, http.MethodGet, u, nil, nil, &out); err != nil {
		return Result{}, fmt.Errorf("duck: %w", err)
	}
	for _, text := range []string{out.AbstractText, out.Answer} {
		if strings.TrimSpace(text) != "" {
			return Result{Text: text}, nil
		}
	}
	if len(out.RelatedTopics) > 0 && strings.TrimSpace(out.RelatedTopics[0].Text) != "" {
		return Result{Text: out.RelatedTopics[0].Text}, nil
	}
	return Result{}, fmt.Errorf("duck: no answer for %q", query)
}
