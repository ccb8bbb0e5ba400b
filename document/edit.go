// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: document/edit.go
// Summary: Text editing helpers built on the Store primitives.

package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxImportLine bounds a single imported line.
const maxImportLine = 4 * 1024 * 1024

// InsertText inserts text at a rune offset of a column. The offset is clamped.
func InsertText(s Store, at, col, offset int, text string) error {
	cur, err := columnText(s, at, col)
	if err != nil {
		return err
	}
	runes := []rune(cur)
	offset = clamp(offset, 0, len(runes))
	return s.SetText(at, col, string(runes[:offset])+text+string(runes[offset:]))
}

// DeleteText removes length runes starting at offset. The range is clamped.
func DeleteText(s Store, at, col, offset, length int) error {
	cur, err := columnText(s, at, col)
	if err != nil {
		return err
	}
	runes := []rune(cur)
	start := clamp(offset, 0, len(runes))
	end := clamp(offset+length, start, len(runes))
	if start == end {
		return nil
	}
	return s.SetText(at, col, string(runes[:start])+string(runes[end:]))
}

// SplitRow moves the text of col after offset into a new row below at.
// Other columns of the new row are empty.
func SplitRow(s Store, at, col, offset int) (RowID, error) {
	cur, err := columnText(s, at, col)
	if err != nil {
		return NoRow, err
	}
	runes := []rune(cur)
	offset = clamp(offset, 0, len(runes))

	texts := make([]string, s.ColumnCount())
	texts[col] = string(runes[offset:])
	if err := s.SetText(at, col, string(runes[:offset])); err != nil {
		return NoRow, err
	}
	return s.InsertRow(at+1, texts...)
}

// JoinRows appends every column of row at+1 to row at and deletes row at+1.
func JoinRows(s Store, at int) error {
	upper, ok := s.RowAt(at)
	if !ok {
		return fmt.Errorf("join rows %d: out of range", at)
	}
	lower, ok := s.RowAt(at + 1)
	if !ok {
		return fmt.Errorf("join rows %d: no row below", at)
	}
	for i, c := range lower.Columns {
		if c.Text == "" {
			continue
		}
		prev, _ := upper.Column(i)
		if err := s.SetText(at, i, prev.Text+c.Text); err != nil {
			return err
		}
	}
	return s.DeleteRow(at + 1)
}

func columnText(s Store, at, col int) (string, error) {
	row, ok := s.RowAt(at)
	if !ok {
		return "", fmt.Errorf("row %d: out of range [0,%d)", at, s.RowCount())
	}
	c, ok := row.Column(col)
	if !ok {
		return "", fmt.Errorf("column %d: out of range [0,%d)", col, s.ColumnCount())
	}
	return c.Text, nil
}

// scanRows reads r line by line, splitting each line on tabs into at most
// columns texts.
func scanRows(r io.Reader, columns int, fn func(texts []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if err := fn(strings.SplitN(line, "\t", columns)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
