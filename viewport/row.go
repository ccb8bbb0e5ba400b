// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/row.go
// Summary: Cached, measured document row.

package viewport

import (
	"errors"
	"fmt"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/metrics"
	"github.com/framegrace/texelview/wrap"
)

// CacheRow is one measured document row. Top is in cache coordinates: the
// first row of a settled window sits at zero.
type CacheRow struct {
	Top    int
	Height int

	id      document.RowID
	at      int
	lines   []*wrap.Line
	formats [][]document.Format
	invalid bool
}

func newCacheRow(row document.Row, maxSegments int) *CacheRow {
	r := &CacheRow{
		id:      row.ID,
		at:      row.At,
		lines:   make([]*wrap.Line, len(row.Columns)),
		formats: make([][]document.Format, len(row.Columns)),
		invalid: true,
	}
	for i := range r.lines {
		r.lines[i] = wrap.NewLine("")
		r.lines[i].SetMaxSegments(maxSegments)
	}
	r.load(row)
	return r
}

// ID returns the document row identity.
func (r *CacheRow) ID() document.RowID { return r.id }

// At returns the row's document index as of the last walk.
func (r *CacheRow) At() int { return r.at }

// Bottom returns the first pixel below the row.
func (r *CacheRow) Bottom() int { return r.Top + r.Height }

// SetBottom positions the row so that it ends at bottom.
func (r *CacheRow) SetBottom(bottom int) { r.Top = bottom - r.Height }

// ColumnCount returns the number of measured columns.
func (r *CacheRow) ColumnCount() int { return len(r.lines) }

// Column returns the measured line of column i.
func (r *CacheRow) Column(i int) (*wrap.Line, bool) {
	if i < 0 || i >= len(r.lines) {
		return nil, false
	}
	return r.lines[i], true
}

// Formats returns the format ranges of column i; cluster Style values
// index into this slice.
func (r *CacheRow) Formats(i int) []document.Format {
	if i < 0 || i >= len(r.formats) {
		return nil
	}
	return r.formats[i]
}

// Invalidate marks the row for re-measurement on the next walk.
func (r *CacheRow) Invalidate() { r.invalid = true }

// IsInvalid reports whether the row needs re-measurement.
func (r *CacheRow) IsInvalid() bool { return r.invalid }

// load copies the row content into the lines. Lines whose text changed
// become invalid and are reshaped by the next measure.
func (r *CacheRow) load(row document.Row) {
	r.at = row.At
	for i, l := range r.lines {
		col, _ := row.Column(i)
		l.SetText(col.Text)
		l.SetWords(termWords(col.Formats))
		r.formats[i] = col.Formats
	}
}

// measure lays out every column and sets the row height to the tallest one.
// Layout errors do not stop the row from being usable.
func (r *CacheRow) measure(m metrics.Measurer, cols []ColumnInfo, wrapOn, reshape bool) error {
	var errs []error
	height := m.LineHeight()
	for i, l := range r.lines {
		if reshape {
			l.Invalidate()
		}
		width := 0
		if wrapOn && i < len(cols) {
			width = cols[i].Width
		}
		if err := l.Measure(m, width); err != nil {
			errs = append(errs, fmt.Errorf("column %d: %w", i, err))
		}
		l.Colorize(formatRanges(r.formats[i]))
		height = max(height, l.Height())
	}
	r.Height = height
	r.invalid = false
	return errors.Join(errs...)
}

func termWords(formats []document.Format) []wrap.Range {
	var words []wrap.Range
	for _, f := range formats {
		if f.Term {
			words = append(words, wrap.Range{Offset: f.Offset, Length: f.Length})
		}
	}
	return words
}

func formatRanges(formats []document.Format) []wrap.Range {
	if len(formats) == 0 {
		return nil
	}
	ranges := make([]wrap.Range, len(formats))
	for i, f := range formats {
		ranges[i] = wrap.Range{Offset: f.Offset, Length: f.Length}
	}
	return ranges
}
