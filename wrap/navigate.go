// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: wrap/navigate.go
// Summary: Offset/point conversion and caret navigation inside a line.

package wrap

import (
	"image"
	"sort"

	"golang.org/x/image/math/fixed"
)

// OffsetToPoint returns the top-left corner of the cluster holding offset.
// Out-of-range offsets are clamped.
func (l *Line) OffsetToPoint(offset int) image.Point {
	if len(l.clusters) == 0 {
		return image.Point{}
	}
	c := l.clusters[l.clusterAt(offset)]
	return image.Pt(c.Left.Floor(), c.Segment*l.lineHeight)
}

// SegmentOf returns the segment holding offset.
func (l *Line) SegmentOf(offset int) int {
	if len(l.clusters) == 0 {
		return 0
	}
	return l.clusters[l.clusterAt(offset)].Segment
}

// PointToOffset returns the caret offset nearest to pt. Points above or
// below the line resolve to the first or last segment.
func (l *Line) PointToOffset(pt image.Point) int {
	seg := 0
	if pt.Y > 0 && l.lineHeight > 0 {
		seg = pt.Y / l.lineHeight
	}
	return l.NearestOffset(min(seg, l.SegmentCount()-1), pt.X)
}

// NearestOffset returns the caret offset on segment seg closest to advance
// pixels from its left edge. A point past the middle of a cluster resolves
// to the following caret position. A zero-width cluster has its middle on
// its left edge, so a point there resolves past it: offsets before
// zero-width clusters do not survive a round trip through OffsetToPoint.
func (l *Line) NearestOffset(seg, advance int) int {
	if len(l.clusters) == 0 || len(l.segments) < 2 {
		return 0
	}
	seg = max(0, min(seg, l.SegmentCount()-1))
	start, end := l.segments[seg], l.segments[seg+1]
	if end <= start {
		return l.clusters[min(start, len(l.clusters)-1)].Offset
	}

	adv := fixed.I(advance)
	k := sort.Search(end-start, func(i int) bool {
		c := l.clusters[start+i]
		mid := c.Left
		if !c.Hidden {
			mid += c.Advance / 2
		}
		return adv < mid
	})
	if k == end-start {
		k--
	}
	return l.clusters[start+k].Offset
}

// ClusterSpan returns the rune range of the cluster that starts at offset
// (dir > 0) or ends at it (dir < 0). It returns false at the line edges.
func (l *Line) ClusterSpan(offset, dir int) (Range, bool) {
	if len(l.clusters) == 0 || dir == 0 {
		return Range{}, false
	}
	i := l.clusterAt(offset)
	if dir < 0 {
		i--
	}
	if i < 0 || l.clusters[i].EOL {
		return Range{}, false
	}
	c := l.clusters[i]
	return Range{Offset: c.Offset, Length: c.Length}, true
}

// Navigate moves offset one step along axis. Horizontal steps go cluster by
// cluster and update advance to the new position. Vertical steps go segment
// by segment and keep advance, so repeated vertical moves stay in the same
// visual column. It returns false, leaving both values alone, when the step
// would leave the line.
func (l *Line) Navigate(axis Axis, dir int, advance, offset *int) (bool, error) {
	if dir != 1 && dir != -1 {
		return false, ErrInvalidDirection
	}
	if len(l.clusters) == 0 {
		return false, nil
	}

	switch axis {
	case Horizontal:
		next := l.clusterAt(*offset) + dir
		if next < 0 || next >= len(l.clusters) {
			return false, nil
		}
		c := l.clusters[next]
		*offset = c.Offset
		*advance = c.Left.Floor()
		return true, nil
	case Vertical:
		seg := l.SegmentOf(*offset) + dir
		if seg < 0 || seg >= l.SegmentCount() {
			return false, nil
		}
		*offset = l.NearestOffset(seg, *advance)
		return true, nil
	}
	return false, ErrInvalidAxis
}

// OffsetBound returns the extreme caret offset in direction dir. Horizontally
// that is the start or the end of the line; vertically it is the offset
// nearest to advance on the first or last segment.
func (l *Line) OffsetBound(axis Axis, dir, advance int) (int, error) {
	if dir != 1 && dir != -1 {
		return 0, ErrInvalidDirection
	}
	switch axis {
	case Horizontal:
		if dir > 0 {
			return l.runes, nil
		}
		return 0, nil
	case Vertical:
		if dir > 0 {
			return l.NearestOffset(l.SegmentCount()-1, advance), nil
		}
		return l.NearestOffset(0, advance), nil
	}
	return 0, ErrInvalidAxis
}
