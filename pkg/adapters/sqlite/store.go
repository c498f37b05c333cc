// Package sqlite contains the SQLite implementation of the position log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/toyrobot/pkg/domain"
)

// Store implements ports.PositionStore with SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: appends are serialized, and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(GetSchemaSQL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStore wraps an already opened database. The schema must exist.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts a new row; SQLite assigns the id.
func (s *Store) Append(ctx context.Context, pos domain.Position) (domain.Record, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO robotPosition (x, y, direction) VALUES (?, ?, ?)",
		pos.X, pos.Y, pos.Direction.Wire(),
	)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to insert position: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return domain.NewRecord(id, pos), nil
}

// Latest returns the row with the highest id.
func (s *Store) Latest(ctx context.Context) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, x, y, direction FROM robotPosition ORDER BY id DESC LIMIT 1",
	)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, domain.ErrNotPlaced
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to get latest position: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	records := []domain.Record{}
	if limit <= 0 {
		return records, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, x, y, direction FROM robotPosition ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}

	return records, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var (
		rec       domain.Record
		direction string
	)
	if err := row.Scan(&rec.ID, &rec.X, &rec.Y, &direction); err != nil {
		return domain.Record{}, err
	}

	dir, err := domain.ParseDirection(direction)
	if err != nil {
		return domain.Record{}, fmt.Errorf("row %d has direction %q: %w", rec.ID, direction, err)
	}
	rec.Direction = dir
	return rec, nil
}
