// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: document/document.go
// Summary: Row/column document model consumed by the viewport cache.
//
// Architecture:
//
//	A document is an ordered list of rows. Every row has a stable RowID
//	that survives insertions and deletions around it, and the same number
//	of columns as every other row. Each column holds plain text plus the
//	format ranges (styles and wrap terms) produced by a Formatter.
//
//	Mutations are bracketed for observers: BeginEdit runs before the
//	document changes and EndEdit after, carrying what changed.

package document

import (
	"fmt"
	"math"
)

// RowID identifies a row for its whole lifetime. IDs are never reused.
type RowID uint64

// NoRow is the zero RowID; it never names a real row.
const NoRow RowID = 0

// Color is a 24-bit RGB color. The zero value means the terminal default.
type Color uint32

const colorSet Color = 1 << 24

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return colorSet | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsDefault reports whether c is the default color.
func (c Color) IsDefault() bool { return c&colorSet == 0 }

// RGB returns the color components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Style is the visual treatment of a format range.
type Style struct {
	FG        Color
	BG        Color
	Bold      bool
	Italic    bool
	Underline bool
}

// Format is a styled run of runes within a column.
type Format struct {
	Offset int
	Length int
	Style  Style
	// Term marks the run as one wrap unit. When no format of a column sets
	// it, the column wraps at Unicode word boundaries.
	Term bool
}

// Column is the content of one cell of a row.
type Column struct {
	Text    string
	Formats []Format
}

// Row is a snapshot of one document row.
type Row struct {
	ID      RowID
	At      int
	Columns []Column
}

// Column returns column i of the row.
func (r Row) Column(i int) (Column, bool) {
	if i < 0 || i >= len(r.Columns) {
		return Column{}, false
	}
	return r.Columns[i], true
}

// Document is the read side of a row store.
type Document interface {
	// RowCount returns the number of rows.
	RowCount() int
	// RowAt returns the row at index i.
	RowAt(i int) (Row, bool)
	// IndexOf returns the current index of a row, false if it was deleted.
	IndexOf(id RowID) (int, bool)
	// ColumnCount returns the fixed number of columns of every row.
	ColumnCount() int
}

// EditKind classifies a document mutation.
type EditKind int

const (
	EditUpdated EditKind = iota
	EditInserted
	EditDeleted
	// EditStructural covers bulk loads and anything that touches many rows.
	EditStructural
)

func (k EditKind) String() string {
	switch k {
	case EditUpdated:
		return "updated"
	case EditInserted:
		return "inserted"
	case EditDeleted:
		return "deleted"
	case EditStructural:
		return "structural"
	}
	return "unknown"
}

// Edit describes one completed mutation. At is the row's index when the
// edit happened; for deletions it is the index the row had.
type Edit struct {
	Kind EditKind
	Row  RowID
	At   int
}

// Observer is notified around every mutation. BeginEdit must not read rows
// that are about to change; EndEdit sees the new state.
type Observer interface {
	BeginEdit()
	EndEdit(e Edit)
}

// Formatter produces format ranges for a column's text.
type Formatter interface {
	Format(text string) []Format
}

// Store is a mutable document.
type Store interface {
	Document
	InsertRow(at int, texts ...string) (RowID, error)
	DeleteRow(at int) error
	SetText(at, col int, text string) error
	Subscribe(o Observer)
	Unsubscribe(o Observer)
	SetFormatter(f Formatter)
}

// RowAtScrollFraction returns the row a scroll bar at fraction f (0..1)
// points at, together with its index.
func RowAtScrollFraction(doc Document, f float64) (Row, int, bool) {
	count := doc.RowCount()
	if count == 0 {
		return Row{}, -1, false
	}
	if math.IsNaN(f) || f < 0 {
		f = 0
	}
	i := int(f * float64(count))
	if i >= count {
		i = count - 1
	}
	row, ok := doc.RowAt(i)
	return row, i, ok
}
