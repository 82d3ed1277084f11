// Package sqlite persists session snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/store"
)

//go:embed migrations/000001_create_tables.up.sql
var up string

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "sqlite",
})

type Path string

type DB struct {
	db *sql.DB
}

var _ store.Store = (*DB)(nil)

// New opens the database at path and creates the schema if needed.
func New(path Path) (*DB, func(), error) {
	db, err := sql.Open("sqlite", string(path))
	if err != nil {
		return nil, func() {}, err
	}

	if _, err := db.Exec(up); err != nil {
		_ = db.Close()
		return nil, func() {}, fmt.Errorf("migrate %s: %w", path, err)
	}

	return &DB{db: db}, func() { _ = db.Close() }, nil
}

func NewInMemory() (*DB, func(), error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, func() {}, err
	}
	// Every connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(up)
	if err != nil {
		db.Close()
		return nil, func() {}, err
	}

	return &DB{db}, func() { db.Close() }, nil
}

// NewWithDB wraps an already opened and migrated handle.
func NewWithDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// Save replaces the stored session with snap.
func (d *DB) Save(ctx context.Context, snap scoreit.Snapshot) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE games SET state = $1, updated_at = datetime('now') WHERE id = 1`
	args := []any{snap.State.String()}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected != 1 {
		query = `INSERT INTO games (id, created_at, updated_at, state) VALUES (1, datetime('now'), datetime('now'), $1)`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_counts`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return err
	}

	for _, score := range snap.Scores {
		query = `INSERT INTO players (id, created_at, updated_at, name, points) VALUES ($1, datetime('now'), datetime('now'), $2, $3)`
		args = []any{score.ID, score.Name, score.Points}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save player %s: %w", score.ID, err)
		}

		for item, count := range score.ItemCounts {
			query = `INSERT INTO item_counts (player_id, item, count) VALUES ($1, $2, $3)`
			args = []any{score.ID, item, count}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("save item count %s/%s: %w", score.ID, item, err)
			}
		}
	}

	return tx.Commit()
}

func (d *DB) Load(ctx context.Context) (scoreit.Snapshot, error) {
	var label string
	row := d.db.QueryRowContext(ctx, `SELECT state FROM games WHERE id = 1`)
	err := row.Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		err = store.ErrNotFound
	}
	if err != nil {
		return scoreit.Snapshot{}, err
	}

	state, err := scoreit.ParseGameState(label)
	if err != nil {
		log.WithError(err).Warn("stored game state is not recognised")
	}

	scores, err := d.players(ctx)
	if err != nil {
		return scoreit.Snapshot{}, err
	}

	return scoreit.Snapshot{State: state, Scores: scores}, nil
}

func (d *DB) players(ctx context.Context) ([]scoreit.PlayerScore, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, points FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []scoreit.PlayerScore
	index := make(map[string]int)
	for rows.Next() {
		var s scoreit.PlayerScore
		if err := rows.Scan(&s.ID, &s.Name, &s.Points); err != nil {
			return nil, err
		}
		index[s.ID] = len(scores)
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = d.db.QueryContext(ctx, `SELECT player_id, item, count FROM item_counts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, item string
			count    int64
		)
		if err := rows.Scan(&id, &item, &count); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		if scores[i].ItemCounts == nil {
			scores[i].ItemCounts = make(map[string]int64)
		}
		scores[i].ItemCounts[item] = count
	}

	return scores, rows.Err()
}
