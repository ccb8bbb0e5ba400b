// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: document/buffer.go
// Summary: In-memory row store.

package document

import (
	"fmt"
	"io"
)

type bufferRow struct {
	id   RowID
	cols []Column
}

// Buffer is an in-memory Store. Thread-safety must be managed by the caller.
type Buffer struct {
	columns   int
	rows      []*bufferRow
	index     map[RowID]int
	dirty     bool
	nextID    RowID
	formatter Formatter
	obs       observers
}

// NewBuffer creates an empty buffer whose rows have the given column count.
func NewBuffer(columns int) *Buffer {
	return &Buffer{
		columns: max(columns, 1),
		index:   make(map[RowID]int),
		nextID:  1,
	}
}

// RowCount implements Document.
func (b *Buffer) RowCount() int { return len(b.rows) }

// ColumnCount implements Document.
func (b *Buffer) ColumnCount() int { return b.columns }

// RowAt implements Document.
func (b *Buffer) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(b.rows) {
		return Row{}, false
	}
	r := b.rows[i]
	cols := make([]Column, len(r.cols))
	copy(cols, r.cols)
	return Row{ID: r.id, At: i, Columns: cols}, true
}

// IndexOf implements Document.
func (b *Buffer) IndexOf(id RowID) (int, bool) {
	if b.dirty {
		b.reindex()
	}
	i, ok := b.index[id]
	return i, ok
}

func (b *Buffer) reindex() {
	clear(b.index)
	for i, r := range b.rows {
		b.index[r.id] = i
	}
	b.dirty = false
}

// Subscribe registers an observer for edits.
func (b *Buffer) Subscribe(o Observer) { b.obs.subscribe(o) }

// Unsubscribe removes an observer.
func (b *Buffer) Unsubscribe(o Observer) { b.obs.unsubscribe(o) }

// SetFormatter sets the formatter applied to new and edited text. Existing
// rows are reformatted as one structural edit.
func (b *Buffer) SetFormatter(f Formatter) {
	b.obs.begin()
	b.formatter = f
	for _, r := range b.rows {
		for i := range r.cols {
			r.cols[i] = b.column(r.cols[i].Text)
		}
	}
	b.obs.end(Edit{Kind: EditStructural, At: -1})
}

func (b *Buffer) column(text string) Column {
	col := Column{Text: text}
	if b.formatter != nil {
		col.Formats = b.formatter.Format(text)
	}
	return col
}

func (b *Buffer) newRow(texts []string) *bufferRow {
	r := &bufferRow{id: b.nextID, cols: make([]Column, b.columns)}
	b.nextID++
	for i := range r.cols {
		if i < len(texts) {
			r.cols[i] = b.column(texts[i])
		}
	}
	return r
}

// Append adds a row at the end and returns its ID.
func (b *Buffer) Append(texts ...string) RowID {
	id, _ := b.InsertRow(len(b.rows), texts...)
	return id
}

// InsertRow inserts a row before index at. Extra texts are dropped, missing
// columns are empty.
func (b *Buffer) InsertRow(at int, texts ...string) (RowID, error) {
	if at < 0 || at > len(b.rows) {
		return NoRow, fmt.Errorf("insert row %d: out of range [0,%d]", at, len(b.rows))
	}
	b.obs.begin()
	r := b.newRow(texts)
	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = r
	if at == len(b.rows)-1 && !b.dirty {
		b.index[r.id] = at
	} else {
		b.dirty = true
	}
	b.obs.end(Edit{Kind: EditInserted, Row: r.id, At: at})
	return r.id, nil
}

// DeleteRow removes the row at index at.
func (b *Buffer) DeleteRow(at int) error {
	if at < 0 || at >= len(b.rows) {
		return fmt.Errorf("delete row %d: out of range [0,%d)", at, len(b.rows))
	}
	b.obs.begin()
	id := b.rows[at].id
	b.rows = append(b.rows[:at], b.rows[at+1:]...)
	delete(b.index, id)
	b.dirty = true
	b.obs.end(Edit{Kind: EditDeleted, Row: id, At: at})
	return nil
}

// SetText replaces the text of one column.
func (b *Buffer) SetText(at, col int, text string) error {
	if at < 0 || at >= len(b.rows) {
		return fmt.Errorf("set text row %d: out of range [0,%d)", at, len(b.rows))
	}
	if col < 0 || col >= b.columns {
		return fmt.Errorf("set text column %d: out of range [0,%d)", col, b.columns)
	}
	b.obs.begin()
	r := b.rows[at]
	r.cols[col] = b.column(text)
	b.obs.end(Edit{Kind: EditUpdated, Row: r.id, At: at})
	return nil
}

// Import appends tab-separated rows read from r as one structural edit and
// returns how many rows were added.
func (b *Buffer) Import(r io.Reader) (int, error) {
	b.obs.begin()
	added := 0
	err := scanRows(r, b.columns, func(texts []string) error {
		b.rows = append(b.rows, b.newRow(texts))
		added++
		return nil
	})
	b.dirty = true
	b.obs.end(Edit{Kind: EditStructural, At: -1})
	return added, err
}

var _ Store = (*Buffer)(nil)
