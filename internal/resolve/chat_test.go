package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-hub/internal/memory"
	"ai-hub/internal/provider"
)

type fakeStore struct {
	data map[string]memory.History
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]memory.History), ttls: make(map[string]time.Duration)}
}

func (f *fakeStore) Get(_ context.Context, id string) memory.History { return f.data[id] }

func (f *fakeStore) Put(_ context.Context, id string, h memory.History, ttl time.Duration) {
	f.data[id] = h
	f.ttls[id] = ttl
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	down := failingServer(t)
	return &provider.Registry{
		Space:      &provider.Space{},
		HFChat:     provider.NewHFChat(""),
		Replicate:  &provider.Replicate{},
		Vidu:       &provider.Vidu{},
		ElevenLabs: &provider.ElevenLabs{},
		Wiki:       &provider.Wiki{BaseURL: down.URL},
		Duck:       &provider.Duck{BaseURL: down.URL},
		Translate:  &provider.Translate{BaseURL: down.URL},
	}
}

func TestChatHappyPath(t *testing.T) {
	reg := testRegistry(t)
	reg.Space = &provider.Space{URL: jsonServer(t, `{"data":["4"]}`).URL}
	store := newFakeStore()
	chat := NewChat(New(nopLog()), reg, store, time.Hour)

	answer, err := chat.Ask(context.Background(), "42", provider.DefaultModelKey, "What is 2+2?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "4" {
		t.Fatalf("unexpected answer: %q", answer)
	}
	h := store.data["42"]
	if len(h) != 2 {
		t.Fatalf("expected two turns, got %+v", h)
	}
	if h[0].Role != memory.RoleUser || h[0].Content != "What is 2+2?" {
		t.Fatalf("unexpected user turn: %+v", h[0])
	}
	if h[1].Role != memory.RoleAssistant || h[1].Content != "4" {
		t.Fatalf("unexpected assistant turn: %+v", h[1])
	}
	if store.ttls["42"] != time.Hour {
		t.Fatalf("unexpected ttl: %v", store.ttls["42"])
	}
}

func TestChatThreadsTranscript(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data []string `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Data) > 0 {
			seen = body.Data[0]
		}
		_, _ = w.Write([]byte(`{"data":["ok"]}`))
	}))
	t.Cleanup(srv.Close)

	reg := testRegistry(t)
	reg.Space = &provider.Space{URL: srv.URL}
	store := newFakeStore()
	store.data["7"] = memory.History{}.
		Append(memory.RoleUser, "hi").
		Append(memory.RoleAssistant, "hello")
	chat := NewChat(New(nopLog()), reg, store, time.Hour)

	if _, err := chat.Ask(context.Background(), "7", provider.DefaultModelKey, "next"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	want := "user: hi\nassistant: hello\nuser: next"
	if seen != want {
		t.Fatalf("transcript mismatch:\n got %q\nwant %q", seen, want)
	}
	if len(store.data["7"]) != 4 {
		t.Fatalf("history should grow to four turns, got %d", len(store.data["7"]))
	}
}

func TestChatFullFallbackToWebSynthesis(t *testing.T) {
	reg := testRegistry(t)
	reg.Wiki = &provider.Wiki{BaseURL: jsonServer(t, `{"extract":"X"}`).URL}
	reg.Duck = &provider.Duck{BaseURL: jsonServer(t, `{"AbstractText":"Y"}`).URL}
	store := newFakeStore()
	chat := NewChat(New(nopLog()), reg, store, time.Hour)

	answer, err := chat.Ask(context.Background(), "1", provider.DefaultModelKey, "topic")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(answer, "From Wikipedia: X") || !strings.Contains(answer, "Duck: Y") {
		t.Fatalf("synthesized answer missing segments: %q", answer)
	}
	h := store.data["1"]
	if len(h) != 2 || h[1].Content != answer {
		t.Fatalf("synthesized answer not recorded as assistant turn: %+v", h)
	}
}

func TestChatWebSynthesisPartial(t *testing.T) {
	reg := testRegistry(t)
	reg.Duck = &provider.Duck{BaseURL: jsonServer(t, `{"AbstractText":"Y"}`).URL}
	chat := NewChat(New(nopLog()), reg, newFakeStore(), time.Hour)

	answer, err := chat.Ask(context.Background(), "1", provider.DefaultModelKey, "topic")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "Duck: Y" {
		t.Fatalf("unexpected partial synthesis: %q", answer)
	}
}

func TestChatExhaustionLeavesMemoryUntouched(t *testing.T) {
	reg := testRegistry(t)
	store := newFakeStore()
	chat := NewChat(New(nopLog()), reg, store, time.Hour)

	_, err := chat.Ask(context.Background(), "1", provider.DefaultModelKey, "q")
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if len(store.data) != 0 {
		t.Fatalf("memory written on exhaustion: %+v", store.data)
	}
}

func TestTranscriptFormat(t *testing.T) {
	h := memory.History{}.
		Append(memory.RoleUser, "a").
		Append(memory.RoleAssistant, "b")
	got := Transcript(h, "c")
	if got != "user: a\nassistant: b\nuser: c" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if Transcript(nil, "solo") != "user: solo" {
		t.Fatalf("unexpected empty-history transcript")
	}
}
