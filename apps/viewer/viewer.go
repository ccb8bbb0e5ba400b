// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/viewer/viewer.go
// Summary: Full-screen document viewer and editor on top of the viewport cache.
//
// Architecture:
//
//	The app owns a viewport.Manager over a document.Store and acts as its
//	Host. Edits go to the store; an EditSync subscribed to the store
//	repairs the cache. The manager works in pixels; with the default cell
//	measurer one terminal cell is one pixel, larger cell sizes are scaled
//	down when rendering.

package viewer

import (
	"fmt"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/metrics"
	"github.com/framegrace/texelview/texel"
	"github.com/framegrace/texelview/viewport"
)

const (
	// AppName keys the per-app config file.
	AppName       = "viewer"
	viewerSection = "viewer"
	colorsSection = "viewer.colors"
)

// App is the viewer. All methods are safe for concurrent use.
type App struct {
	mu    sync.Mutex
	title string
	store document.Store
	mgr   *viewport.Manager
	edits *viewport.EditSync

	cellW, cellH  int
	width, height int
	statusBar     bool
	showSelection bool
	colors        palette

	info      viewport.RefreshInfo
	fraction  float64
	clipboard string

	closeStore func() error

	buf         [][]texel.Cell
	refreshChan chan<- bool
	stop        chan struct{}
	stopOnce    sync.Once
}

// New creates a viewer over store. sys supplies the viewport, wrap and font
// sections; app the "viewer" sections. Nil configs use the defaults.
func New(title string, store document.Store, sys, app config.Config) (*App, error) {
	if store == nil {
		return nil, fmt.Errorf("viewer: nil store")
	}
	cells, err := cellMeasurer(sys)
	if err != nil {
		return nil, err
	}

	opts := viewport.OptionsFromConfig(sys)
	opts.ColumnGap = app.GetInt(viewerSection, "column_gap", 1) * cells.CellWidth
	if specs := viewport.ParseColumnSpecs(app.GetList(viewerSection, "columns")); len(specs) > 0 {
		if len(specs) == store.ColumnCount() {
			for i := range specs {
				specs[i].Width *= cells.CellWidth
			}
			opts.Columns = specs
		} else {
			log.Printf("[VIEWER] Ignoring %d column specs for %d columns", len(specs), store.ColumnCount())
		}
	}

	a := &App{
		title:         title,
		store:         store,
		cellW:         cells.CellWidth,
		cellH:         cells.CellHeight,
		statusBar:     app.GetBool(viewerSection, "status_bar", true),
		showSelection: app.GetBool(viewerSection, "show_selection", true),
		colors:        paletteFromConfig(app),
		stop:          make(chan struct{}),
	}
	mgr, err := viewport.NewManager(store, a, cells, opts)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	a.mgr = mgr
	a.edits = viewport.Attach(mgr, store)
	mgr.OnDocLoaded()
	return a, nil
}

// cellMeasurer returns the configured measurer when it measures terminal
// cells. Font measurers cannot drive a terminal.
func cellMeasurer(sys config.Config) (*metrics.CellMeasurer, error) {
	m, err := metrics.FromConfig(sys)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	if cm, ok := m.(*metrics.CellMeasurer); ok {
		return cm, nil
	}
	log.Printf("[VIEWER] Measurer %T cannot drive a terminal, using cells", m)
	cm := metrics.NewCellMeasurer(1, 1)
	cm.TabWidth = sys.GetInt(config.SectionWrap, "tab_width", metrics.DefaultTabWidth)
	return cm, nil
}

// Close detaches the viewer from its store and, for viewers created by
// Open, closes the store.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.Unsubscribe(a.edits)
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	return err
}

// Run blocks until Stop.
func (a *App) Run() error {
	<-a.stop
	return nil
}

// Stop ends Run.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// GetTitle returns the window title.
func (a *App) GetTitle() string { return a.title }

// SetRefreshNotifier sets the channel used to request redraws.
func (a *App) SetRefreshNotifier(refreshChan chan<- bool) {
	a.mu.Lock()
	a.refreshChan = refreshChan
	a.mu.Unlock()
}

// Resize sets the size in terminal cells.
func (a *App) Resize(cols, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width, a.height = max(cols, 0), max(rows, 0)
	a.mgr.OnResize(a.width*a.cellW, a.viewRows()*a.cellH)
}

// Manager exposes the viewport, mainly for tests and tooling.
func (a *App) Manager() *viewport.Manager { return a.mgr }

// Clipboard returns the text copied last.
func (a *App) Clipboard() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clipboard
}

// viewRows is the number of terminal rows showing the document.
func (a *App) viewRows() int {
	if a.statusBar && a.height > 1 {
		return a.height - 1
	}
	return a.height
}

// OnRefreshComplete implements viewport.Host. It runs with a.mu held.
func (a *App) OnRefreshComplete(info viewport.RefreshInfo) {
	a.info = info
	a.fraction = info.Progress
	if a.refreshChan != nil {
		select {
		case a.refreshChan <- true:
		default:
		}
	}
}

// ScrollFraction implements viewport.Host.
func (a *App) ScrollFraction() float64 { return a.fraction }

// LogError implements viewport.Host.
func (a *App) LogError(source, details string) {
	log.Printf("[VIEWER] %s: %s", source, details)
}

var _ texel.App = (*App)(nil)
var _ viewport.Host = (*App)(nil)
var _ texel.PasteHandler = (*App)(nil)
var _ texel.MouseHandler = (*App)(nil)

func (a *App) statusLine() string {
	count := a.store.RowCount()
	c, ok := a.mgr.CopyCaret()
	if !ok {
		return fmt.Sprintf(" %s  empty", a.title)
	}
	sel := ""
	if a.mgr.HasSelection() {
		sel = "  SEL"
	}
	return fmt.Sprintf(" %s  Ln %d/%d  Col %d:%d  %d%%%s",
		a.title, c.At+1, count, c.Column+1, c.Offset+1, int(a.info.Progress*100), sel)
}

func (a *App) statusStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(a.colors.statusFG).Background(a.colors.statusBG)
}
