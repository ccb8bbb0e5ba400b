// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/viewer/input.go
// Summary: Keyboard, mouse and paste handling.

package viewer

import (
	"image"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/viewport"
	"github.com/framegrace/texelview/wrap"
)

// HandleKey maps keys to caret moves, scrolling and edits.
func (a *App) HandleKey(ev *tcell.EventKey) {
	a.mu.Lock()
	defer a.mu.Unlock()

	mods := ev.Modifiers()
	shift := mods&tcell.ModShift != 0
	ctrl := mods&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyUp:
		a.move(wrap.Vertical, -1, shift)
	case tcell.KeyDown:
		a.move(wrap.Vertical, 1, shift)
	case tcell.KeyLeft:
		a.move(wrap.Horizontal, -1, shift)
	case tcell.KeyRight:
		a.move(wrap.Horizontal, 1, shift)
	case tcell.KeyPgUp:
		a.mgr.ScrollBy(viewport.ScrollLargeDecrement)
	case tcell.KeyPgDn:
		a.mgr.ScrollBy(viewport.ScrollLargeIncrement)
	case tcell.KeyHome:
		if ctrl {
			a.mgr.ScrollBy(viewport.ScrollFirst)
			a.mgr.SetCaretAndScroll(0, 0, 0)
			return
		}
		a.lineEdge(false)
	case tcell.KeyEnd:
		if ctrl {
			a.mgr.ScrollBy(viewport.ScrollLast)
			a.mgr.SetCaretAndScroll(a.store.RowCount()-1, 0, 0)
			return
		}
		a.lineEdge(true)
	case tcell.KeyTab:
		a.mgr.CaretTab(1)
	case tcell.KeyBacktab:
		a.mgr.CaretTab(-1)
	case tcell.KeyEscape:
		a.mgr.ClearSelection()
	case tcell.KeyCtrlY:
		a.clipboard = a.mgr.SelectionCopy()
	case tcell.KeyEnter:
		a.splitRow()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.backspace()
	case tcell.KeyDelete:
		a.deleteForward()
	case tcell.KeyRune:
		a.insert(string(ev.Rune()))
	}
}

// HandleMouse places the caret on click (extending the selection with
// shift) and scrolls on the wheel.
func (a *App) HandleMouse(ev *tcell.EventMouse) {
	a.mu.Lock()
	defer a.mu.Unlock()

	x, y := ev.Position()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		a.mgr.OnMouseWheel(-1)
	case buttons&tcell.WheelDown != 0:
		a.mgr.OnMouseWheel(1)
	case buttons&tcell.Button1 != 0:
		if y >= a.viewRows() {
			return
		}
		a.extendSelection(ev.Modifiers()&tcell.ModShift != 0)
		a.mgr.CaretAdvance(image.Pt(x*a.cellW, y*a.cellH))
	}
}

// HandlePaste inserts pasted text at the caret, splitting rows at newlines.
func (a *App) HandlePaste(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			a.splitRow()
		}
		if line != "" {
			a.insert(line)
		}
	}
}

func (a *App) extendSelection(extend bool) {
	switch {
	case extend && !a.mgr.IsSelecting():
		a.mgr.BeginSelect()
	case !extend && (a.mgr.IsSelecting() || a.mgr.HasSelection()):
		a.mgr.ClearSelection()
	}
}

func (a *App) move(axis wrap.Axis, dir int, shift bool) {
	a.extendSelection(shift)
	if err := a.mgr.MoveCaret(axis, dir); err != nil {
		log.Printf("[VIEWER] %v", err)
	}
}

func (a *App) lineEdge(end bool) {
	c, ok := a.mgr.CopyCaret()
	if !ok {
		return
	}
	offset := 0
	if end {
		offset = a.columnLen(c.At, c.Column)
	}
	a.mgr.SetCaretAndScroll(c.At, c.Column, offset)
}

func (a *App) columnLen(at, col int) int {
	row, ok := a.store.RowAt(at)
	if !ok {
		return 0
	}
	c, _ := row.Column(col)
	return utf8.RuneCountInString(c.Text)
}

// caret returns the caret, creating a first row in an empty document.
func (a *App) caret() (viewport.Caret, bool) {
	if c, ok := a.mgr.CopyCaret(); ok {
		return c, true
	}
	if a.store.RowCount() == 0 {
		if _, err := a.store.InsertRow(0); err != nil {
			log.Printf("[VIEWER] %v", err)
			return viewport.Caret{}, false
		}
	}
	if !a.mgr.SetCaretAndScroll(0, 0, 0) {
		return viewport.Caret{}, false
	}
	return a.mgr.CopyCaret()
}

func (a *App) insert(text string) {
	c, ok := a.caret()
	if !ok {
		return
	}
	a.mgr.ClearSelection()
	if err := document.InsertText(a.store, c.At, c.Column, c.Offset, text); err != nil {
		log.Printf("[VIEWER] insert: %v", err)
		return
	}
	a.mgr.SetCaretAndScroll(c.At, c.Column, c.Offset+utf8.RuneCountInString(text))
}

func (a *App) splitRow() {
	c, ok := a.caret()
	if !ok {
		return
	}
	a.mgr.ClearSelection()
	if _, err := document.SplitRow(a.store, c.At, c.Column, c.Offset); err != nil {
		log.Printf("[VIEWER] split: %v", err)
		return
	}
	a.mgr.SetCaretAndScroll(c.At+1, c.Column, 0)
}

func (a *App) backspace() {
	c, ok := a.mgr.CopyCaret()
	if !ok {
		return
	}
	a.mgr.ClearSelection()
	switch {
	case c.Offset > 0:
		span := a.cluster(c, -1)
		if err := document.DeleteText(a.store, c.At, c.Column, span.Offset, span.Length); err != nil {
			log.Printf("[VIEWER] delete: %v", err)
			return
		}
		a.mgr.SetCaretAndScroll(c.At, c.Column, span.Offset)
	case c.At > 0:
		joinAt := a.columnLen(c.At-1, c.Column)
		if err := document.JoinRows(a.store, c.At-1); err != nil {
			log.Printf("[VIEWER] join: %v", err)
			return
		}
		a.mgr.SetCaretAndScroll(c.At-1, c.Column, joinAt)
	}
}

func (a *App) deleteForward() {
	c, ok := a.mgr.CopyCaret()
	if !ok {
		return
	}
	a.mgr.ClearSelection()
	switch {
	case c.Offset < a.columnLen(c.At, c.Column):
		span := a.cluster(c, 1)
		if err := document.DeleteText(a.store, c.At, c.Column, span.Offset, span.Length); err != nil {
			log.Printf("[VIEWER] delete: %v", err)
			return
		}
	case c.At+1 < a.store.RowCount():
		if err := document.JoinRows(a.store, c.At); err != nil {
			log.Printf("[VIEWER] join: %v", err)
			return
		}
	default:
		return
	}
	a.mgr.SetCaretAndScroll(c.At, c.Column, c.Offset)
}

// cluster returns the grapheme cluster next to the caret in direction dir,
// one rune when the layout cannot tell.
func (a *App) cluster(c viewport.Caret, dir int) wrap.Range {
	if span, ok := a.mgr.CaretCluster(dir); ok {
		return span
	}
	if dir < 0 {
		return wrap.Range{Offset: c.Offset - 1, Length: 1}
	}
	return wrap.Range{Offset: c.Offset, Length: 1}
}
