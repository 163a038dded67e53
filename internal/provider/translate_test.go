package provider

import (
	"context"
	"net/http"
	"testing"
)

func TestTranslateParsesSegments(t *testing.T) {
	body := `[[["Hola, ","Hello, ",null],["mundo","world",null]],null,"en"]`
	tr := &Translate{BaseURL: jsonServer(t, http.StatusOK, body).URL}
	got := tr.Translate(context.Background(), "es", "Hello, world")
	if got != "Hola, mundo" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestTranslateNeverFails(t *testing.T) {
	// Upstream error: echo.
	tr := &Translate{BaseURL: jsonServer(t, http.StatusForbidden, `denied`).URL}
	if got := tr.Translate(context.Background(), "fr", "hello"); got != "hello" {
		t.Fatalf("expected echo on upstream error, got %q", got)
	}
	// Unrecognized shape: echo.
	tr = &Translate{BaseURL: jsonServer(t, http.StatusOK, `{"weird":true}`).URL}
	if got := tr.Translate(context.Background(), "fr", "hello"); got != "hello" {
		t.Fatalf("expected echo on unrecognized shape, got %q", got)
	}
	// Unreachable endpoint: echo.
	tr = &Translate{BaseURL: "http://127.0.0.1:1"}
	if got := tr.Translate(context.Background(), "fr", "hello"); got != "hello" {
		t.Fatalf("expected echo on connection failure, got %q", got)
	}
}
