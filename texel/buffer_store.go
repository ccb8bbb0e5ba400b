// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/buffer_store.go
// Summary: Remembers the last drawn frame so unchanged frames can be skipped.

package texel

// BufferStore tracks the last frame drawn for a region.
type BufferStore interface {
	// Changed reports whether frame differs from the saved one and, if so,
	// saves a copy of it.
	Changed(frame [][]Cell) bool
	Snapshot() [][]Cell
	Clear()
}

// InMemoryBufferStore keeps its own copy of the frame, so callers may reuse
// and repaint the slices they pass in.
type InMemoryBufferStore struct {
	buf   [][]Cell
	valid bool
}

// NewInMemoryBufferStore constructs an empty buffer store.
func NewInMemoryBufferStore() BufferStore {
	return &InMemoryBufferStore{}
}

func (s *InMemoryBufferStore) Changed(frame [][]Cell) bool {
	if s.valid && sameFrame(s.buf, frame) {
		return false
	}
	if len(s.buf) != len(frame) {
		s.buf = make([][]Cell, len(frame))
	}
	for y, row := range frame {
		if len(s.buf[y]) != len(row) {
			s.buf[y] = make([]Cell, len(row))
		}
		copy(s.buf[y], row)
	}
	s.valid = true
	return true
}

// Snapshot returns the saved frame, nil before the first save. Callers
// should treat it as read-only.
func (s *InMemoryBufferStore) Snapshot() [][]Cell {
	if !s.valid {
		return nil
	}
	return s.buf
}

// Clear forgets the saved frame; the next Changed reports true.
func (s *InMemoryBufferStore) Clear() {
	s.buf = nil
	s.valid = false
}

func sameFrame(a, b [][]Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for y := range a {
		if len(a[y]) != len(b[y]) {
			return false
		}
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				return false
			}
		}
	}
	return true
}
