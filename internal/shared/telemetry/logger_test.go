package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteReservedKeysWin(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("draft.stale", map[string]any{
		"msg":       "overridden",
		"family_id": "fam-1",
		"err":       errors.New("boom"),
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["msg"] != "draft.stale" {
		t.Fatalf("expected msg draft.stale, got %v", payload["msg"])
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", payload["level"])
	}
	if payload["family_id"] != "fam-1" {
		t.Fatalf("expected family_id, got %v", payload["family_id"])
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error string, got %v", payload["err"])
	}
}

func TestWriteUnmarshalableFieldFallsBack(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("bad", map[string]any{"ch": make(chan int)})

	if !strings.Contains(buf.String(), "logger marshal failed") {
		t.Fatalf("expected fallback line, got %q", buf.String())
	}
}
