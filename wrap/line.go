// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wrap/line.go
// Summary: Measured logical line with word-wrapped visual segments.
//
// Architecture:
//
//	A Line owns the shaped clusters of one column of one row. Loading asks
//	the measurer for clusters and appends an invisible end-of-line cluster
//	so the caret can sit after the last character. Segmenting assigns each
//	cluster to a visual segment and records its advance from the segment's
//	left edge. The segment table holds the first cluster index of each
//	segment followed by a sentinel equal to the cluster count.
//
//	Offsets are rune offsets into the line text. Points are relative to the
//	line's top-left corner: X in pixels, Y = segment * lineHeight.
//
//	Thread-safety must be managed by the caller.

package wrap

import (
	"errors"
	"unicode/utf8"

	"github.com/framegrace/texelview/metrics"
	"golang.org/x/image/math/fixed"
)

// DefaultMaxSegments bounds the segment count of a single line.
const DefaultMaxSegments = 1000

var (
	// ErrSegmentLimit is returned when a line needs more segments than allowed.
	// The overflow is kept on the last segment as hidden clusters.
	ErrSegmentLimit = errors.New("wrap: segment limit reached")
	// ErrInvalidDirection is returned for navigation directions other than +1 and -1.
	ErrInvalidDirection = errors.New("wrap: direction must be +1 or -1")
	// ErrInvalidAxis is returned for unknown navigation axes.
	ErrInvalidAxis = errors.New("wrap: unknown axis")
)

// Axis selects horizontal (cluster) or vertical (segment) navigation.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "unknown"
}

// Range is a run of runes within a line.
type Range struct {
	Offset int
	Length int
}

// End returns the offset just past the range.
func (r Range) End() int { return r.Offset + r.Length }

// Cluster is a measured cluster placed on a segment.
type Cluster struct {
	metrics.Cluster
	// Left is the advance from the segment's left edge.
	Left fixed.Int26_6
	// Segment is the visual segment the cluster is drawn on.
	Segment int
	// Style indexes the ranges passed to Colorize, -1 when unstyled.
	Style int
	// Selected marks clusters inside the current selection.
	Selected bool
	// Hidden marks clusters dropped by the segment limit.
	Hidden bool
	// EOL marks the trailing end-of-line cluster.
	EOL bool
}

// Line is one logical line of text, measured and segmented.
type Line struct {
	text  string
	runes int
	words []Range

	clusters   []Cluster
	clusterMap []int
	segments   []int
	lineHeight int

	width       int
	maxSegments int
	invalid     bool
}

// NewLine creates an unmeasured line.
func NewLine(text string) *Line {
	return &Line{
		text:        text,
		runes:       utf8.RuneCountInString(text),
		maxSegments: DefaultMaxSegments,
		invalid:     true,
	}
}

// Text returns the line text.
func (l *Line) Text() string { return l.text }

// Len returns the rune length of the text.
func (l *Line) Len() int { return l.runes }

// SetText replaces the text. The line must be reloaded before it is queried.
func (l *Line) SetText(text string) {
	if text == l.text && !l.invalid {
		return
	}
	l.text = text
	l.runes = utf8.RuneCountInString(text)
	l.invalid = true
}

// SetWords sets ranges that wrap as single units. Text outside them, or
// the whole line when words is empty, breaks at Unicode word boundaries.
func (l *Line) SetWords(words []Range) {
	l.words = words
}

// SetMaxSegments sets the segment ceiling. Non-positive values restore the default.
func (l *Line) SetMaxSegments(n int) {
	if n <= 0 {
		n = DefaultMaxSegments
	}
	l.maxSegments = n
}

// Invalidate forces the next Measure to reload clusters.
func (l *Line) Invalidate() { l.invalid = true }

// IsInvalid reports whether the clusters are stale.
func (l *Line) IsInvalid() bool { return l.invalid }

// Load shapes the text with m and lays it out on a single segment.
func (l *Line) Load(m metrics.Measurer) {
	measured := m.Clusters(l.text)

	l.clusters = l.clusters[:0]
	for _, c := range measured {
		l.clusters = append(l.clusters, Cluster{Cluster: c, Style: -1})
	}
	l.clusters = append(l.clusters, Cluster{
		Cluster: metrics.Cluster{Offset: l.runes},
		Style:   -1,
		EOL:     true,
	})

	if cap(l.clusterMap) < l.runes+1 {
		l.clusterMap = make([]int, l.runes+1)
	}
	l.clusterMap = l.clusterMap[:l.runes+1]
	for i, c := range l.clusters {
		for k := 0; k < c.Length; k++ {
			if c.Offset+k <= l.runes {
				l.clusterMap[c.Offset+k] = i
			}
		}
	}
	l.clusterMap[l.runes] = len(l.clusters) - 1

	l.lineHeight = max(m.LineHeight(), 1)
	l.invalid = false
	l.layoutSingle()
}

// Measure reloads the clusters if the line is invalid, then segments it.
func (l *Line) Measure(m metrics.Measurer, width int) error {
	if l.invalid || l.clusters == nil {
		l.Load(m)
	}
	return l.Segment(width)
}

// Width returns the target width of the last segmentation.
func (l *Line) Width() int { return l.width }

// LineHeight returns the height of one segment.
func (l *Line) LineHeight() int { return l.lineHeight }

// SegmentCount returns the number of visual segments, at least one.
func (l *Line) SegmentCount() int {
	if len(l.segments) < 2 {
		return 1
	}
	return len(l.segments) - 1
}

// Segments returns a copy of the segment table.
func (l *Line) Segments() []int {
	return append([]int(nil), l.segments...)
}

// Height returns the laid-out height in pixels.
func (l *Line) Height() int {
	return l.SegmentCount() * l.lineHeight
}

// Clusters returns the placed clusters, end-of-line included. Callers must
// not modify the slice.
func (l *Line) Clusters() []Cluster { return l.clusters }

// SegmentClusters returns the clusters drawn on segment seg.
func (l *Line) SegmentClusters(seg int) []Cluster {
	if seg < 0 || seg+1 >= len(l.segments) {
		return nil
	}
	return l.clusters[l.segments[seg]:l.segments[seg+1]]
}

// UnwrappedWidth returns the total advance of the line in pixels.
func (l *Line) UnwrappedWidth() int {
	var total fixed.Int26_6
	for _, c := range l.clusters {
		total += c.Advance
	}
	return total.Ceil()
}

// LastOffset returns the offset of the end-of-line position.
func (l *Line) LastOffset() int { return l.runes }

// Colorize tags clusters with the index of the range covering them.
// Ranges past the end of the text are ignored.
func (l *Line) Colorize(ranges []Range) {
	for i := range l.clusters {
		l.clusters[i].Style = -1
	}
	for style, r := range ranges {
		l.eachCluster(r, func(c *Cluster) { c.Style = style })
	}
}

// Select marks the clusters covered by r as selected, clearing the rest.
func (l *Line) Select(r Range) {
	l.ClearSelection()
	l.eachCluster(r, func(c *Cluster) { c.Selected = true })
}

// ClearSelection unmarks every cluster.
func (l *Line) ClearSelection() {
	for i := range l.clusters {
		l.clusters[i].Selected = false
	}
}

func (l *Line) eachCluster(r Range, fn func(c *Cluster)) {
	if r.Length <= 0 || r.Offset >= l.runes || len(l.clusters) == 0 {
		return
	}
	start := l.clusterMap[max(r.Offset, 0)]
	end := min(r.End(), l.runes)
	for i := start; i < len(l.clusters) && l.clusters[i].Offset < end; i++ {
		if l.clusters[i].EOL {
			break
		}
		fn(&l.clusters[i])
	}
}

func (l *Line) clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > l.runes {
		return l.runes
	}
	return offset
}

// clusterAt returns the index of the cluster holding offset.
func (l *Line) clusterAt(offset int) int {
	return l.clusterMap[l.clampOffset(offset)]
}
