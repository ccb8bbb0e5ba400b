// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/host.go
// Summary: Host callbacks and refresh reports.

package viewport

import (
	"image"
	"log"
)

// OffScreen is reported as the caret position when the caret is not visible.
var OffScreen = image.Point{X: -1000, Y: -1000}

// RefreshInfo is reported to the host after every walk.
type RefreshInfo struct {
	// LastRow is the document index of the last cached row, -1 when empty.
	LastRow int
	// RowCount is the number of cached rows.
	RowCount int
	// CaretVisible reports whether the caret box intersects the viewport.
	CaretVisible bool
	// Caret is the caret position in screen coordinates, or OffScreen.
	Caret image.Point
	// Progress is the fraction of the document above the first visible row.
	Progress float64
	// VisibleFraction is the share of the document's rows that are cached.
	VisibleFraction float64
}

// Host is the embedding UI.
type Host interface {
	// OnRefreshComplete is called once per completed walk.
	OnRefreshComplete(info RefreshInfo)
	// ScrollFraction returns the scroll bar position in [0,1].
	ScrollFraction() float64
	// LogError records a recoverable inconsistency.
	LogError(source, details string)
}

// LogHost is a Host that logs errors and ignores refreshes. It keeps the
// last reported progress as its scroll fraction.
type LogHost struct {
	Fraction float64
}

// OnRefreshComplete implements Host.
func (h *LogHost) OnRefreshComplete(info RefreshInfo) {
	h.Fraction = info.Progress
}

// ScrollFraction implements Host.
func (h *LogHost) ScrollFraction() float64 { return h.Fraction }

// LogError implements Host.
func (h *LogHost) LogError(source, details string) {
	log.Printf("[VIEWPORT] %s: %s", source, details)
}

var _ Host = (*LogHost)(nil)
