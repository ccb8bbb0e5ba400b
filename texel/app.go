// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/app.go
// Summary: Contract between full-screen apps and the tcell host loop.

package texel

import "github.com/gdamore/tcell/v2"

// Cell is one terminal cell of a rendered frame.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// App is a full-screen application driven by a host loop. Render returns a
// frame of rows by columns; the host calls it after input, resizes and
// refresh notifications.
type App interface {
	Run() error
	Stop()
	Resize(cols, rows int)
	Render() [][]Cell
	GetTitle() string
	HandleKey(ev *tcell.EventKey)
	SetRefreshNotifier(refreshChan chan<- bool)
}

// PasteHandler receives bracketed paste payloads.
type PasteHandler interface {
	HandlePaste(data []byte)
}

// MouseHandler receives mouse events.
type MouseHandler interface {
	HandleMouse(ev *tcell.EventMouse)
}
