// Package store handles SQLite persistence of the phoneme catalog.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a reference text is not in the catalog.
var ErrNotFound = errors.New("reference text not found")

// Store wraps SQLite access for reference texts and their phonemes.
type Store struct {
	db *sql.DB
}

// TextEntry summarizes one catalog entry.
type TextEntry struct {
	Text         string
	PhonemeCount int
	CreatedAt    time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reference_texts (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reference_phonemes (
			text_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			phoneme TEXT NOT NULL,
			PRIMARY KEY (text_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reference_phonemes_text ON reference_phonemes(text_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// PutPhonemes registers a reference text and replaces its phoneme list.
func (s *Store) PutPhonemes(ctx context.Context, text string, phonemes []string) (err error) {
	if text == "" {
		return fmt.Errorf("reference text is empty")
	}
	if len(phonemes) == 0 {
		return fmt.Errorf("phoneme list is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO reference_texts (text, created_at) VALUES (?, ?)
		 ON CONFLICT(text) DO NOTHING`,
		text, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	var id int64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM reference_texts WHERE text = ?`, text).Scan(&id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM reference_phonemes WHERE text_id = ?`, id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reference_phonemes (text_id, position, phoneme) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, p := range phonemes {
		if _, err = stmt.ExecContext(ctx, id, i, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPhonemes returns the phoneme list registered for a reference text.
func (s *Store) GetPhonemes(ctx context.Context, text string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.phoneme
		 FROM reference_phonemes p
		 JOIN reference_texts t ON t.id = p.text_id
		 WHERE t.text = ?
		 ORDER BY p.position ASC`, text)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// ListTexts returns every registered reference text ordered by creation.
func (s *Store) ListTexts(ctx context.Context) ([]TextEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.text, t.created_at, COUNT(p.position)
		 FROM reference_texts t
		 LEFT JOIN reference_phonemes p ON p.text_id = t.id
		 GROUP BY t.id
		 ORDER BY t.created_at ASC, t.id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []TextEntry
	for rows.Next() {
		var entry TextEntry
		var createdAt string
		if err := rows.Scan(&entry.Text, &createdAt, &entry.PhonemeCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteText removes a reference text and its phonemes.
func (s *Store) DeleteText(ctx context.Context, text string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM reference_texts WHERE text = ?`, text).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return err
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM reference_phonemes WHERE text_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM reference_texts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
