// Package store keeps named research list presets in a SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"parkedit/research"
)

//go:embed schema.sql
var schema string

var ErrNotFound = errors.New("preset not found")

type Preset struct {
	Name      string
	Items     int
	UpdatedAt time.Time
}

// Store persists presets in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("preset name is required")
	}
	return name, nil
}

// SavePreset stores state under name, replacing any preset of that name.
func (s *Store) SavePreset(ctx context.Context, name string, state *research.State) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("save preset %q: %w", name, err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM preset_items WHERE preset = ?`, name); err != nil {
		return fmt.Errorf("clear preset items: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO presets (name, updated_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at`,
		name, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert preset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO preset_items (preset, list, position, raw, category, locked) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, list := range []research.ListID{research.Invented, research.Pending} {
		for i, it := range state.List(list) {
			_, err := stmt.ExecContext(ctx, name, int(list), i, int64(it.Raw()), int(it.Category), it.AlwaysResearched)
			if err != nil {
				return fmt.Errorf("insert item %v: %w", it, err)
			}
		}
	}
	return tx.Commit()
}

func (s *Store) LoadPreset(ctx context.Context, name string) (*research.State, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	var exists int
	err = s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM presets WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("find preset: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT list, raw, category, locked FROM preset_items WHERE preset = ? ORDER BY list, position`, name)
	if err != nil {
		return nil, fmt.Errorf("query preset items: %w", err)
	}
	defer rows.Close()

	state := &research.State{}
	for rows.Next() {
		var (
			list     int
			raw      int64
			category int
			locked   bool
		)
		if err := rows.Scan(&list, &raw, &category, &locked); err != nil {
			return nil, fmt.Errorf("scan preset item: %w", err)
		}
		it, err := research.ItemFromRaw(uint32(raw))
		if err != nil {
			return nil, err
		}
		it.Category = research.Category(category)
		it.AlwaysResearched = locked
		if research.ListID(list) == research.Invented {
			state.Invented = append(state.Invented, it)
		} else {
			state.Pending = append(state.Pending, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preset items: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return state, nil
}

func (s *Store) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT p.name, p.updated_at, COUNT(i.raw)
		 FROM presets p LEFT JOIN preset_items i ON i.preset = p.name
		 GROUP BY p.name ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()
	var out []Preset
	for rows.Next() {
		var (
			p       Preset
			updated int64
		)
		if err := rows.Scan(&p.Name, &updated, &p.Items); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		p.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeletePreset(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
