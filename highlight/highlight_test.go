// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package highlight

import (
	"testing"
	"unicode/utf8"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/document"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   string
	}{
		{name: "main.go", sample: "package main\n", want: "Go"},
		{name: "/tmp/script.py", sample: "print('hi')\n", want: "Python"},
	}
	for _, tt := range tests {
		if got := Detect(tt.name, []byte(tt.sample)); got != tt.want {
			t.Errorf("Detect(%q): expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestFormatCoversLine(t *testing.T) {
	h := New("Go", "monokai", "")
	text := `func main() { fmt.Println("héllo") }`

	formats := h.Format(text)
	if len(formats) == 0 {
		t.Fatalf("expected formats")
	}
	offset := 0
	for i, f := range formats {
		if f.Offset != offset {
			t.Fatalf("format %d: expected offset %d, got %d", i, offset, f.Offset)
		}
		if f.Term {
			t.Errorf("format %d: highlight tokens must not be wrap units", i)
		}
		offset += f.Length
	}
	if want := utf8.RuneCountInString(text); offset != want {
		t.Fatalf("expected formats to cover %d runes, got %d", want, offset)
	}

	first := formats[0]
	if first.Length != 4 {
		t.Fatalf("expected first token 'func' of length 4, got %d", first.Length)
	}
	if first.Style == (document.Style{}) {
		t.Errorf("expected keyword to be styled")
	}
}

func TestFormatEmpty(t *testing.T) {
	h := New("Go", "", "")
	if got := h.Format(""); got != nil {
		t.Fatalf("expected nil formats, got %v", got)
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	h := New("no-such-language", "no-such-style", "")
	formats := h.Format("plain words")
	total := 0
	for _, f := range formats {
		total += f.Length
	}
	if total != len("plain words") {
		t.Fatalf("expected fallback lexer to cover the text, got %d", total)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Config{
		"highlight": map[string]interface{}{"enabled": false},
	}
	if _, ok := FromConfig(cfg, "main.go", nil); ok {
		t.Fatalf("expected highlighting disabled")
	}

	cfg["highlight"] = map[string]interface{}{"enabled": true, "language": "python"}
	h, ok := FromConfig(cfg, "notes.txt", nil)
	if !ok {
		t.Fatalf("expected configured language to win")
	}
	if h.Language() != "Python" {
		t.Fatalf("expected Python lexer, got %q", h.Language())
	}

	cfg["highlight"] = map[string]interface{}{"enabled": true}
	if h, ok := FromConfig(cfg, "main.go", []byte("package main")); !ok || h.Language() != "Go" {
		t.Fatalf("expected detected Go lexer, got %v", h)
	}
}
