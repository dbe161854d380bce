package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHashKey(t *testing.T) {
	id := "family:0b6f1b5e"
	got := HashKey(id)
	if got != HashKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashKey("family:other") {
		t.Fatalf("expected distinct hashes")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "comprovante.pdf", want: "comprovante.pdf"},
		{in: " docs/rg frente.jpg ", want: "docs_rg frente.jpg"},
		{in: `c:\fotos\casa.png`, want: "c:_fotos_casa.png"},
		{in: "../../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "nota\x00fiscal.pdf", want: "notafiscal.pdf"},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("á", 150) + ".pdf"
	got, err := SanitizeFileName(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) > MaxFileNameLength {
		t.Fatalf("expected at most %d bytes, got %d", MaxFileNameLength, len(got))
	}
	if !strings.HasSuffix(got, ".pdf") || !utf8.ValidString(got) {
		t.Fatalf("unexpected truncation %q", got)
	}
}
