// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/viewer/open.go
// Summary: Opens a file into the configured store and builds a viewer on it.

package viewer

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/highlight"
)

// sampleSize bounds the prefix used for language detection.
const sampleSize = 8 * 1024

// OpenOptions tunes Open.
type OpenOptions struct {
	// Language overrides the configured and detected highlight language.
	Language string
	// Columns is the number of tab-separated columns; 0 derives it from the
	// viewer config, defaulting to one.
	Columns int
}

// Open loads path into the store selected by sys and returns a viewer over
// it. An empty path opens an empty document. A persistent store that
// already holds rows is shown as is; the file is imported only into an
// empty store.
func Open(path string, sys, app config.Config, opts OpenOptions) (*App, error) {
	columns := opts.Columns
	if columns <= 0 {
		columns = max(len(app.GetList(viewerSection, "columns")), 1)
	}

	store, closeStore, err := document.OpenFromConfig(sys, columns)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var (
		r      io.Reader
		sample []byte
	)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		br := bufio.NewReaderSize(f, sampleSize)
		sample, _ = br.Peek(sampleSize)
		r = br
	}

	if hl, ok := highlightFor(sys, opts.Language, path, sample); ok {
		log.Printf("[VIEWER] Highlighting as %s", hl.Language())
		store.SetFormatter(hl)
	}

	if r != nil {
		if store.RowCount() > 0 {
			log.Printf("[VIEWER] Store already holds %d rows, not importing %s", store.RowCount(), path)
		} else if n, err := importRows(store, r); err != nil {
			closeStore()
			return nil, fmt.Errorf("import %s: %w", path, err)
		} else {
			log.Printf("[VIEWER] Imported %d rows from %s", n, path)
		}
	}

	title := "untitled"
	if path != "" {
		title = filepath.Base(path)
	}
	a, err := New(title, store, sys, app)
	if err != nil {
		closeStore()
		return nil, err
	}
	a.closeStore = closeStore
	return a, nil
}

func highlightFor(sys config.Config, language, path string, sample []byte) (*highlight.Highlighter, bool) {
	if language != "" {
		return highlight.New(language, sys.GetString(config.SectionHighlight, "style", ""), string(sample)), true
	}
	return highlight.FromConfig(sys, path, sample)
}

// importRows bulk-loads r into stores that support it.
func importRows(store document.Store, r io.Reader) (int, error) {
	if im, ok := store.(interface {
		Import(io.Reader) (int, error)
	}); ok {
		return im.Import(r)
	}
	return 0, fmt.Errorf("store %T cannot import", store)
}
