// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: document/sqlstore.go
// Summary: SQLite-backed row store for documents larger than memory.
//
// Rows keep their RowID as the SQLite rowid; the idx column holds the
// current position and is renumbered on insert and delete. Cell text lives
// in a separate table keyed by (row_id, col).

package document

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqlStoreSchemaVersion = 1

const sqlStoreSchema = `
CREATE TABLE IF NOT EXISTS rows (
    id  INTEGER PRIMARY KEY AUTOINCREMENT,
    idx INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rows_idx ON rows(idx);

CREATE TABLE IF NOT EXISTS cells (
    row_id INTEGER NOT NULL,
    col    INTEGER NOT NULL,
    text   TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (row_id, col)
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
`

// SQLStore is a Store persisted in SQLite. Reads that fail are logged and
// reported as missing rows. Thread-safety must be managed by the caller.
type SQLStore struct {
	db        *sql.DB
	path      string
	columns   int
	count     int
	formatter Formatter
	obs       observers
}

// OpenSQLStore opens or creates a store at path. An existing store must have
// been created with the same column count.
func OpenSQLStore(path string, columns int) (*SQLStore, error) {
	columns = max(columns, 1)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-8000)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases and transactions coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(sqlStoreSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &SQLStore{db: db, path: path, columns: columns}
	if err := s.checkMeta(); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM rows").Scan(&s.count); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	log.Printf("[SQLSTORE] Opened %s (%d rows, %d columns)", path, s.count, columns)
	return s, nil
}

func (s *SQLStore) checkMeta() error {
	var stored int
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'columns'").Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(
			"INSERT INTO meta (key, value) VALUES ('columns', ?), ('schema_version', ?)",
			s.columns, sqlStoreSchemaVersion)
		if err != nil {
			return fmt.Errorf("failed to write meta: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to read meta: %w", err)
	}
	if stored != s.columns {
		return fmt.Errorf("store %s has %d columns, want %d", s.path, stored, s.columns)
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// RowCount implements Document.
func (s *SQLStore) RowCount() int { return s.count }

// ColumnCount implements Document.
func (s *SQLStore) ColumnCount() int { return s.columns }

// RowAt implements Document.
func (s *SQLStore) RowAt(i int) (Row, bool) {
	if i < 0 || i >= s.count {
		return Row{}, false
	}
	rows, err := s.db.Query(`
		SELECT r.id, c.col, c.text
		FROM rows r LEFT JOIN cells c ON c.row_id = r.id
		WHERE r.idx = ?
		ORDER BY c.col`, i)
	if err != nil {
		log.Printf("[SQLSTORE] Failed to read row %d: %v", i, err)
		return Row{}, false
	}
	defer rows.Close()

	row := Row{At: i, Columns: make([]Column, s.columns)}
	found := false
	for rows.Next() {
		var (
			id   int64
			col  sql.NullInt64
			text sql.NullString
		)
		if err := rows.Scan(&id, &col, &text); err != nil {
			log.Printf("[SQLSTORE] Failed to scan row %d: %v", i, err)
			return Row{}, false
		}
		found = true
		row.ID = RowID(id)
		if col.Valid && int(col.Int64) < s.columns {
			row.Columns[col.Int64] = s.column(text.String)
		}
	}
	if err := rows.Err(); err != nil {
		log.Printf("[SQLSTORE] Failed to read row %d: %v", i, err)
		return Row{}, false
	}
	if !found {
		return Row{}, false
	}
	return row, true
}

// IndexOf implements Document.
func (s *SQLStore) IndexOf(id RowID) (int, bool) {
	var idx int
	err := s.db.QueryRow("SELECT idx FROM rows WHERE id = ?", int64(id)).Scan(&idx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[SQLSTORE] Failed to look up row id %d: %v", id, err)
		}
		return 0, false
	}
	return idx, true
}

// Subscribe registers an observer for edits.
func (s *SQLStore) Subscribe(o Observer) { s.obs.subscribe(o) }

// Unsubscribe removes an observer.
func (s *SQLStore) Unsubscribe(o Observer) { s.obs.unsubscribe(o) }

// SetFormatter sets the formatter applied when rows are read.
func (s *SQLStore) SetFormatter(f Formatter) {
	s.obs.begin()
	s.formatter = f
	s.obs.end(Edit{Kind: EditStructural, At: -1})
}

func (s *SQLStore) column(text string) Column {
	col := Column{Text: text}
	if s.formatter != nil {
		col.Formats = s.formatter.Format(text)
	}
	return col
}

// InsertRow implements Store.
func (s *SQLStore) InsertRow(at int, texts ...string) (RowID, error) {
	if at < 0 || at > s.count {
		return NoRow, fmt.Errorf("insert row %d: out of range [0,%d]", at, s.count)
	}
	s.obs.begin()
	id, err := s.insertRow(at, texts)
	if err != nil {
		s.obs.end(Edit{Kind: EditStructural, At: at})
		return NoRow, err
	}
	s.count++
	s.obs.end(Edit{Kind: EditInserted, Row: id, At: at})
	return id, nil
}

func (s *SQLStore) insertRow(at int, texts []string) (RowID, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return NoRow, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE rows SET idx = idx + 1 WHERE idx >= ?", at); err != nil {
		return NoRow, fmt.Errorf("failed to shift rows: %w", err)
	}
	res, err := tx.Exec("INSERT INTO rows (idx) VALUES (?)", at)
	if err != nil {
		return NoRow, fmt.Errorf("failed to insert row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return NoRow, fmt.Errorf("failed to read row id: %w", err)
	}
	if err := insertCells(tx, id, texts, s.columns); err != nil {
		return NoRow, err
	}
	if err := tx.Commit(); err != nil {
		return NoRow, fmt.Errorf("failed to commit: %w", err)
	}
	return RowID(id), nil
}

func insertCells(tx *sql.Tx, id int64, texts []string, columns int) error {
	for col := 0; col < columns; col++ {
		text := ""
		if col < len(texts) {
			text = texts[col]
		}
		if _, err := tx.Exec("INSERT INTO cells (row_id, col, text) VALUES (?, ?, ?)", id, col, text); err != nil {
			return fmt.Errorf("failed to insert cell %d/%d: %w", id, col, err)
		}
	}
	return nil
}

// DeleteRow implements Store.
func (s *SQLStore) DeleteRow(at int) error {
	if at < 0 || at >= s.count {
		return fmt.Errorf("delete row %d: out of range [0,%d)", at, s.count)
	}
	s.obs.begin()
	id, err := s.deleteRow(at)
	if err != nil {
		s.obs.end(Edit{Kind: EditStructural, At: at})
		return err
	}
	s.count--
	s.obs.end(Edit{Kind: EditDeleted, Row: id, At: at})
	return nil
}

func (s *SQLStore) deleteRow(at int) (RowID, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return NoRow, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRow("SELECT id FROM rows WHERE idx = ?", at).Scan(&id); err != nil {
		return NoRow, fmt.Errorf("failed to find row %d: %w", at, err)
	}
	if _, err := tx.Exec("DELETE FROM cells WHERE row_id = ?", id); err != nil {
		return NoRow, fmt.Errorf("failed to delete cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM rows WHERE id = ?", id); err != nil {
		return NoRow, fmt.Errorf("failed to delete row: %w", err)
	}
	if _, err := tx.Exec("UPDATE rows SET idx = idx - 1 WHERE idx > ?", at); err != nil {
		return NoRow, fmt.Errorf("failed to shift rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return NoRow, fmt.Errorf("failed to commit: %w", err)
	}
	return RowID(id), nil
}

// SetText implements Store.
func (s *SQLStore) SetText(at, col int, text string) error {
	if col < 0 || col >= s.columns {
		return fmt.Errorf("set text column %d: out of range [0,%d)", col, s.columns)
	}
	s.obs.begin()
	var id int64
	err := s.db.QueryRow("SELECT id FROM rows WHERE idx = ?", at).Scan(&id)
	if err == nil {
		_, err = s.db.Exec(
			"INSERT OR REPLACE INTO cells (row_id, col, text) VALUES (?, ?, ?)", id, col, text)
	}
	if err != nil {
		s.obs.end(Edit{Kind: EditStructural, At: at})
		return fmt.Errorf("set text row %d: %w", at, err)
	}
	s.obs.end(Edit{Kind: EditUpdated, Row: RowID(id), At: at})
	return nil
}

// Import appends tab-separated rows read from r in one transaction and
// returns how many rows were added.
func (s *SQLStore) Import(r io.Reader) (int, error) {
	s.obs.begin()
	defer s.obs.end(Edit{Kind: EditStructural, At: -1})

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO rows (idx) VALUES (?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	added := 0
	err = scanRows(r, s.columns, func(texts []string) error {
		res, err := stmt.Exec(s.count + added)
		if err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read row id: %w", err)
		}
		if err := insertCells(tx, id, texts, s.columns); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	s.count += added
	log.Printf("[SQLSTORE] Imported %d rows", added)
	return added, nil
}

var _ Store = (*SQLStore)(nil)
