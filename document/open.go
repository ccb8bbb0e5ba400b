// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: document/open.go
// Summary: Picks the store backend from the "store" config section.

package document

import (
	"fmt"

	"github.com/framegrace/texelview/config"
)

// OpenFromConfig opens the store named by the "store" section. The returned
// close function releases the backend and is never nil.
func OpenFromConfig(cfg config.Config, columns int) (Store, func() error, error) {
	noop := func() error { return nil }

	switch backend := cfg.GetString(config.SectionStore, "backend", "memory"); backend {
	case "memory", "":
		return NewBuffer(columns), noop, nil
	case "sqlite":
		path, err := config.StatePath(cfg.GetString(config.SectionStore, "path", "texelview.db"))
		if err != nil {
			return nil, noop, fmt.Errorf("resolve store path: %w", err)
		}
		s, err := OpenSQLStore(path, columns)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", backend)
	}
}
