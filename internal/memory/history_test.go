package memory

import "testing"

func TestHistoryRoundTrip(t *testing.T) {
	h := History{}.
		Append(RoleUser, "hello").
		Append(RoleAssistant, "hi")

	raw, err := encodeHistory(h)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := decodeHistory(raw)
	if len(got) != 2 {
		t.Fatalf("unexpected length: %d", len(got))
	}
	if got[0].Role != RoleUser || got[0].Content != "hello" {
		t.Fatalf("unexpected turn: %+v", got[0])
	}
	if got[1].Role != RoleAssistant || got[1].Content != "hi" {
		t.Fatalf("unexpected turn: %+v", got[1])
	}
}

func TestDecodeHistoryMalformed(t *testing.T) {
	if h := decodeHistory([]byte("{not json")); h != nil {
		t.Fatalf("malformed payload should read as absent, got %+v", h)
	}
	if h := decodeHistory([]byte(`{"role":"user"}`)); h != nil {
		t.Fatalf("wrong shape should read as absent, got %+v", h)
	}
}
