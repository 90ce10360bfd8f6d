package favorites

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS favorites (
	position INTEGER NOT NULL,
	uri      TEXT    PRIMARY KEY,
	name     TEXT    NOT NULL,
	artists  TEXT[]  NOT NULL DEFAULT '{}',
	album    TEXT    NOT NULL DEFAULT ''
)`

// PostgresRepository stores favorites in a PostgreSQL table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a connection pool and ensures the table exists.
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating favorites table: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Load returns the favorites ordered by position.
func (r *PostgresRepository) Load(ctx context.Context) ([]Favorite, error) {
	rows, err := r.pool.Query(ctx, `SELECT uri, name, artists, album FROM favorites ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	list := []Favorite{}
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.URI, &fav.Name, &fav.Artists, &fav.Album); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		if fav.Artists == nil {
			fav.Artists = []string{}
		}
		list = append(list, fav)
	}
	return list, rows.Err()
}

// Save replaces the table contents with list in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, list []Favorite) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM favorites`); err != nil {
			return fmt.Errorf("clearing favorites: %w", err)
		}
		if len(list) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, fav := range list {
			artists := fav.Artists
			if artists == nil {
				artists = []string{}
			}
			batch.Queue(
				`INSERT INTO favorites (position, uri, name, artists, album) VALUES ($1, $2, $3, $4, $5)`,
				i, fav.URI, fav.Name, artists, fav.Album,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting favorites: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
