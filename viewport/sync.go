// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/sync.go
// Summary: Keeps a Manager in step with document edits.

package viewport

import "github.com/framegrace/texelview/document"

// EditSync is a document observer bound to one Manager. It snapshots caret
// visibility before each edit so the repair afterwards can keep a visible
// caret on screen. Every Manager viewing a document needs its own EditSync.
type EditSync struct {
	m       *Manager
	visible bool
	began   bool
}

// NewEditSync creates an observer for m.
func NewEditSync(m *Manager) *EditSync {
	return &EditSync{m: m}
}

// Attach subscribes a new EditSync for m to store and returns it.
func Attach(m *Manager, store document.Store) *EditSync {
	s := NewEditSync(m)
	store.Subscribe(s)
	return s
}

// BeginEdit implements document.Observer.
func (s *EditSync) BeginEdit() {
	s.visible, _ = s.m.IsCaretVisible()
	s.began = true
}

// EndEdit implements document.Observer.
func (s *EditSync) EndEdit(e document.Edit) {
	visible := s.visible
	if !s.began {
		visible, _ = s.m.IsCaretVisible()
	}
	s.began = false
	s.m.applyEdit(e, visible)
}

var _ document.Observer = (*EditSync)(nil)

// OnLineUpdated repairs the cache after the content of a row changed.
func (m *Manager) OnLineUpdated(id document.RowID) {
	visible, _ := m.IsCaretVisible()
	m.applyEdit(document.Edit{Kind: document.EditUpdated, Row: id}, visible)
}

// OnLineAdded repairs the cache after a row was inserted.
func (m *Manager) OnLineAdded(id document.RowID) {
	visible, _ := m.IsCaretVisible()
	m.applyEdit(document.Edit{Kind: document.EditInserted, Row: id}, visible)
}

// OnLineDeleted repairs the cache after a row was removed.
func (m *Manager) OnLineDeleted(id document.RowID) {
	visible, _ := m.IsCaretVisible()
	m.applyEdit(document.Edit{Kind: document.EditDeleted, Row: id, At: -1}, visible)
}

func (m *Manager) applyEdit(e document.Edit, caretVisible bool) {
	switch e.Kind {
	case document.EditUpdated:
		if cr := m.find(e.Row); cr != nil {
			cr.Invalidate()
		}
		m.Repair(e.Row, caretVisible)
	case document.EditInserted:
		m.Repair(e.Row, caretVisible)
	case document.EditDeleted:
		if m.hasCaret && m.caret.Row == e.Row && e.At >= 0 {
			m.caret.At = e.At
		}
		m.Repair(e.Row, caretVisible)
	default:
		m.Repair(document.NoRow, caretVisible)
	}
}
