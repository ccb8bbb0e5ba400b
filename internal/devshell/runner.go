// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Runs a single texel.App full screen on a local tcell screen.

package devshell

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/apps/viewer"
	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/texel"
)

// Builder constructs a texel.App, optionally using CLI args.
type Builder func(args []string) (texel.App, error)

var registry = map[string]Builder{
	viewer.AppName: func(args []string) (texel.App, error) {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		a, err := viewer.Open(path, config.System(), config.App(viewer.AppName), viewer.OpenOptions{})
		if err != nil {
			return nil, err
		}
		return a, nil
	},
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run executes the provided builder inside a local tcell screen. Apps with
// a Close method are closed when Run returns.
func Run(builder Builder, args []string) error {
	app, err := builder(args)
	if err != nil {
		return err
	}
	if c, ok := app.(interface{ Close() error }); ok {
		defer c.Close()
	}

	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()
	screen.EnablePaste()

	width, height := screen.Size()
	app.Resize(width, height)
	refreshCh := make(chan bool, 1)
	app.SetRefreshNotifier(refreshCh)

	frames := texel.NewInMemoryBufferStore()
	draw := func() {
		frame := app.Render()
		if !frames.Changed(frame) {
			return
		}
		screen.Clear()
		for y, row := range frame {
			for x, cell := range row {
				screen.SetContent(x, y, cell.Ch, nil, cell.Style)
			}
		}
		screen.Show()
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
	}()
	defer app.Stop()

	go func() {
		for range refreshCh {
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	draw()

	var paste pasteBuffer
	for {
		select {
		case err := <-runErr:
			return err
		default:
		}

		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			draw()
		case *tcell.EventResize:
			w, h := tev.Size()
			app.Resize(w, h)
			frames.Clear()
			draw()
		case *tcell.EventPaste:
			data, done := paste.mark(tev)
			if ph, ok := app.(texel.PasteHandler); ok && done && len(data) > 0 {
				ph.HandlePaste(data)
				draw()
			}
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if paste.collect(tev) {
				continue
			}
			app.HandleKey(tev)
			draw()
		case *tcell.EventMouse:
			if mh, ok := app.(texel.MouseHandler); ok {
				mh.HandleMouse(tev)
				draw()
			}
		}
	}
}

// pasteBuffer gathers the keys tcell delivers between bracketed paste
// markers.
type pasteBuffer struct {
	active bool
	data   []byte
}

// mark handles a paste marker. At the end marker it returns the pasted
// bytes and true.
func (p *pasteBuffer) mark(ev *tcell.EventPaste) ([]byte, bool) {
	switch {
	case ev.Start():
		p.active = true
		p.data = nil
	case ev.End():
		data := p.data
		p.active = false
		p.data = nil
		return data, true
	}
	return nil, false
}

// collect swallows ev while a paste is in progress.
func (p *pasteBuffer) collect(ev *tcell.EventKey) bool {
	if !p.active {
		return false
	}
	switch ev.Key() {
	case tcell.KeyRune:
		p.data = append(p.data, string(ev.Rune())...)
	case tcell.KeyEnter:
		p.data = append(p.data, '\n')
	case tcell.KeyTab:
		p.data = append(p.data, '\t')
	}
	return true
}

// RunApp finds a registered builder by name and runs it.
func RunApp(name string, args []string) error {
	buildApp, ok := registry[name]
	if !ok {
		return fmt.Errorf("unknown app %q", name)
	}
	return Run(buildApp, args)
}
