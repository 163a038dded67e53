package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Kind tags the payload carried by a Result.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindVideo
	KindAudio
	KindDocument
)

// Result is the normalized output of every adapter. Text adapters fill
// Text; media adapters fill MediaURL and Kind; speech synthesis may
// return inline Audio instead of a URL. Adapters never panic past
// their boundary: every upstream problem comes back as an error.
type Result struct {
	Text     string
	MediaURL string
	Audio    []byte
	Kind     Kind
}

// Per-call timeouts: short for metadata lookups, long for generative
// and media jobs. Timeouts surface as errors, never as hangs.
const (
	lookupTimeout   = 10 * time.Second
	speechTimeout   = 60 * time.Second
	generateTimeout = 120 * time.Second
)

var httpClient = &http.Client{}

// doJSON performs an HTTP round trip with a JSON body and decodes a
// JSON response into out. Non-2xx statuses become errors carrying a
// truncated snippet of the upstream body.
func doJSON(ctx context.Context, method, url string, headers map[string]string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(snippet), 120))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
