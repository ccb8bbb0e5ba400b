// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: metrics/face.go
// Summary: Pixel font measurer over golang.org/x/image font faces.

package metrics

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FaceMeasurer measures text with a font.Face. The advance of a cluster is
// the advance of its first rune; combining marks render over their base.
type FaceMeasurer struct {
	face       font.Face
	lineHeight int
	TabWidth   int
}

// NewFaceMeasurer wraps face. Thread-safety must be managed by the caller,
// font.Face implementations are not safe for concurrent use.
func NewFaceMeasurer(face font.Face) *FaceMeasurer {
	m := face.Metrics()
	h := m.Height.Ceil()
	if h <= 0 {
		h = (m.Ascent + m.Descent).Ceil()
	}
	return &FaceMeasurer{
		face:       face,
		lineHeight: max(h, 1),
		TabWidth:   DefaultTabWidth,
	}
}

// Face returns the wrapped font face.
func (m *FaceMeasurer) Face() font.Face {
	return m.face
}

// Clusters implements Measurer.
func (m *FaceMeasurer) Clusters(text string) []Cluster {
	space, _ := m.face.GlyphAdvance(' ')
	return segmentClusters(text, m.TabWidth, space, func(cluster string) fixed.Int26_6 {
		r, _ := utf8.DecodeRuneInString(cluster)
		if adv, ok := m.face.GlyphAdvance(r); ok {
			return adv
		}
		// Missing glyphs are drawn as the replacement box.
		adv, _ := m.face.GlyphAdvance(utf8.RuneError)
		return adv
	})
}

// LineHeight implements Measurer.
func (m *FaceMeasurer) LineHeight() int {
	return m.lineHeight
}

var _ Measurer = (*FaceMeasurer)(nil)

// LoadFace resolves a face by name: "basic" is the fixed 7x13 bitmap font,
// "goregular" the bundled Go font, anything else a TrueType file path.
func LoadFace(name string, size, dpi float64) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	if dpi <= 0 {
		dpi = 72
	}

	switch name {
	case "", "basic":
		return basicfont.Face7x13, nil
	case "goregular":
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse goregular: %w", err)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("goregular face: %w", err)
		}
		return face, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", name, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}
