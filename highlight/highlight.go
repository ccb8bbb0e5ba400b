// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/highlight.go
// Summary: Chroma-based syntax highlighter producing document formats.
//
// Every token becomes one Format used for styling only. Tokens are not wrap
// units: comments and strings come out as single tokens, so line breaking
// is left to the wrap engine's Unicode word boundaries.

package highlight

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/document"
)

const defaultStyleName = "monokai"

// Highlighter formats single lines with a fixed lexer and style.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
	base  chroma.Colour
	bg    chroma.Colour
	name  string
}

// Detect guesses the language of a file from its name and a content sample.
// It returns "" when nothing matches.
func Detect(filename string, sample []byte) string {
	base := filepath.Base(filename)
	if lang, ok := enry.GetLanguageByExtension(base); ok {
		return lang
	}
	if lang := enry.GetLanguage(base, sample); lang != "" {
		return lang
	}
	if l := lexers.Match(base); l != nil {
		return l.Config().Name
	}
	return ""
}

// New creates a highlighter for language. Unknown languages fall back to
// content analysis of sample, then to plain text.
func New(language, styleName string, sample string) *Highlighter {
	lexer := lexers.Get(language)
	if lexer == nil && sample != "" {
		lexer = lexers.Analyse(sample)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	if styleName == "" {
		styleName = defaultStyleName
	}
	style := styles.Get(styleName)
	return &Highlighter{
		lexer: chroma.Coalesce(lexer),
		style: style,
		base:  style.Get(chroma.Text).Colour,
		bg:    style.Get(chroma.Background).Background,
		name:  lexer.Config().Name,
	}
}

// Language returns the name of the lexer in use.
func (h *Highlighter) Language() string { return h.name }

// Format implements document.Formatter.
func (h *Highlighter) Format(text string) []document.Format {
	if text == "" {
		return nil
	}
	tokens, err := chroma.Tokenise(h.lexer, nil, text)
	if err != nil {
		return nil
	}

	total := utf8.RuneCountInString(text)
	formats := make([]document.Format, 0, len(tokens))
	offset := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType || offset >= total {
			break
		}
		n := min(utf8.RuneCountInString(tok.Value), total-offset)
		if n == 0 {
			continue
		}
		formats = append(formats, document.Format{
			Offset: offset,
			Length: n,
			Style:  h.resolve(h.style.Get(tok.Type)),
		})
		offset += n
	}
	return formats
}

func (h *Highlighter) resolve(entry chroma.StyleEntry) document.Style {
	s := document.Style{
		Bold:      entry.Bold == chroma.Yes,
		Italic:    entry.Italic == chroma.Yes,
		Underline: entry.Underline == chroma.Yes,
	}
	if entry.Colour.IsSet() && entry.Colour != h.base {
		s.FG = document.RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
	}
	if entry.Background.IsSet() && entry.Background != h.bg {
		s.BG = document.RGB(entry.Background.Red(), entry.Background.Green(), entry.Background.Blue())
	}
	return s
}

// FromConfig builds the highlighter described by the "highlight" section
// for a file. It returns false when highlighting is disabled or the
// language cannot be determined.
func FromConfig(cfg config.Config, filename string, sample []byte) (*Highlighter, bool) {
	if !cfg.GetBool(config.SectionHighlight, "enabled", true) {
		return nil, false
	}
	lang := cfg.GetString(config.SectionHighlight, "language", "")
	if lang == "" {
		lang = Detect(filename, sample)
	}
	if lang == "" {
		return nil, false
	}
	return New(lang, cfg.GetString(config.SectionHighlight, "style", defaultStyleName), string(sample)), true
}

var _ document.Formatter = (*Highlighter)(nil)
