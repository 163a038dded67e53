package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabs is the keyed voice-synthesis adapter. It returns the
// rendered audio inline rather than as a remote reference.
type ElevenLabs struct {
	Key     string
	VoiceID string
	BaseURL string // defaults to the public API
}

func (e *ElevenLabs) Available() bool { return e != nil && e.Key != "" }

func (e *ElevenLabs) Speak(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, speechTimeout)
	defer cancel()

	base := e.BaseURL
	if base == "" {
		base = defaultElevenLabsBaseURL
	}
	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
	})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/text-to-speech/"+e.VoiceID, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.Key)

	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Result{}, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, truncate(string(snippet), 120))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	if len(audio) == 0 {
		return Result{}, fmt.Errorf("elevenlabs: empty audio response")
	}
	return Result{Audio: audio, Kind: KindAudio}, nil
}
