package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS favorites (
	position INTEGER NOT NULL,
	uri      TEXT    NOT NULL UNIQUE,
	name     TEXT    NOT NULL,
	artists  TEXT    NOT NULL DEFAULT '[]',
	album    TEXT    NOT NULL DEFAULT ''
)`

// SQLiteRepository stores favorites in a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at path.
// The path can be ":memory:" for an in-memory database.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating favorites table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Load returns the favorites ordered by position.
func (r *SQLiteRepository) Load(ctx context.Context) ([]Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uri, name, artists, album FROM favorites ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	list := []Favorite{}
	for rows.Next() {
		var fav Favorite
		var artists string
		if err := rows.Scan(&fav.URI, &fav.Name, &artists, &fav.Album); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		if err := json.Unmarshal([]byte(artists), &fav.Artists); err != nil || fav.Artists == nil {
			fav.Artists = []string{}
		}
		list = append(list, fav)
	}
	return list, rows.Err()
}

// Save replaces the table contents with list in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, list []Favorite) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO favorites (position, uri, name, artists, album) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, fav := range list {
		artists, err := json.Marshal(fav.Artists)
		if err != nil {
			return fmt.Errorf("encoding artists: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, i, fav.URI, fav.Name, string(artists), fav.Album); err != nil {
			return fmt.Errorf("inserting favorite %s: %w", fav.URI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing favorites: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
