package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Conn is one persistent-store connection, checked out of the pool and
// exclusively owned by the caller until released.
type Conn interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// pgxConn is the subset of *pgx.Conn the storage layer depends on.
type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

const (
	selectQuery = `SELECT value_text FROM key_value WHERE key_text = $1`
	upsertQuery = `INSERT INTO key_value (key_text, value_text) VALUES ($1, $2)
		ON CONFLICT (key_text) DO UPDATE SET value_text = EXCLUDED.value_text`
	deleteQuery = `DELETE FROM key_value WHERE key_text = $1`
)

// storeConn implements Conn over a PostgreSQL connection. Each operation
// runs in its own transaction; the table is the single source of truth.
type storeConn struct {
	conn pgxConn
}

// NewConn wraps an established PostgreSQL connection as a store Conn.
func NewConn(conn *pgx.Conn) Conn {
	return &storeConn{conn: conn}
}

func (c *storeConn) Get(ctx context.Context, key string) (string, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return "", errors.Join(ErrStore, err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op once committed

	var value string
	if err := tx.QueryRow(ctx, selectQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrStore, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", errors.Join(ErrStore, err)
	}
	return value, nil
}

func (c *storeConn) Set(ctx context.Context, key, value string) error {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, upsertQuery, key, value); err != nil {
		return errors.Join(ErrStore, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (c *storeConn) Delete(ctx context.Context, key string) error {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Deleting an absent key is not an error; the row count is ignored.
	if _, err := tx.Exec(ctx, deleteQuery, key); err != nil {
		return errors.Join(ErrStore, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (c *storeConn) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (c *storeConn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
