package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fuchigta/mdsticker/internal/note"
)

const noteColumns = `id, content, color, pos_x, pos_y, width, height, pinned, archived, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (note.Note, error) {
	var n note.Note
	err := row.Scan(
		&n.ID, &n.Content, &n.Color, &n.X, &n.Y, &n.Width, &n.Height,
		&n.Pinned, &n.Archived, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func scanNotes(rows *sql.Rows) ([]note.Note, error) {
	defer rows.Close()

	notes := []note.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// inClause builds "(?,?,...)" and the matching argument list for ids
func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return "(" + strings.Join(placeholders, ",") + ")", args
}

// Create inserts a new note. The returned note carries the stored timestamps.
func (d *DB) Create(ctx context.Context, n note.Note) (note.Note, error) {
	if err := n.Validate(); err != nil {
		return note.Note{}, wrapErr("create", n.ID, err)
	}

	now := d.timestamp()
	n.CreatedAt = now
	n.UpdatedAt = now

	query := `
	INSERT INTO notes (
		id, content, color, pos_x, pos_y, width, height, pinned, archived, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			n.ID, n.Content, n.Color, n.X, n.Y, n.Width, n.Height,
			n.Pinned, n.Archived, n.CreatedAt, n.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return note.Note{}, wrapErr("create", n.ID, err)
	}

	return n, nil
}

// update runs a single-row UPDATE in its own transaction. A missing id
// matches no rows and is not an error.
func (d *DB) update(ctx context.Context, op, id, set string, args ...any) error {
	args = append(args, d.timestamp(), id)
	query := "UPDATE notes SET " + set + ", updated_at = ? WHERE id = ?"

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	return wrapErr(op, id, err)
}

// UpdateContent replaces the markdown content of a note
func (d *DB) UpdateContent(ctx context.Context, id, content string) error {
	return d.update(ctx, "update content", id, "content = ?", content)
}

// UpdateColor replaces the display color of a note
func (d *DB) UpdateColor(ctx context.Context, id, color string) error {
	return d.update(ctx, "update color", id, "color = ?", color)
}

// UpdatePosition records the last reported window position
func (d *DB) UpdatePosition(ctx context.Context, id string, x, y int) error {
	return d.update(ctx, "update position", id, "pos_x = ?, pos_y = ?", x, y)
}

// UpdateSize records the last reported window size
func (d *DB) UpdateSize(ctx context.Context, id string, width, height uint) error {
	return d.update(ctx, "update size", id, "width = ?, height = ?", width, height)
}

// TogglePinned flips the pinned flag and returns the new value. A missing id
// returns ErrNotFound.
func (d *DB) TogglePinned(ctx context.Context, id string) (bool, error) {
	var pinned bool
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			"UPDATE notes SET pinned = NOT pinned, updated_at = ? WHERE id = ? RETURNING pinned",
			d.timestamp(), id,
		).Scan(&pinned)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, notFound("toggle pinned", id)
	}
	if err != nil {
		return false, wrapErr("toggle pinned", id, err)
	}
	return pinned, nil
}

// Archive moves a note to the trash. Archiving an archived or missing note
// does nothing.
func (d *DB) Archive(ctx context.Context, id string) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE notes SET archived = 1, updated_at = ? WHERE id = ? AND archived = 0",
			d.timestamp(), id,
		)
		return err
	})
	return wrapErr("archive", id, err)
}

// Restore un-archives the archived notes among ids in one transaction and
// returns them ordered by id. Live or unknown ids are skipped. All other
// fields, pinned included, keep their stored values.
func (d *DB) Restore(ctx context.Context, ids []string) ([]note.Note, error) {
	if len(ids) == 0 {
		return []note.Note{}, nil
	}

	in, args := inClause(ids)
	var restored []note.Note

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT "+noteColumns+" FROM notes WHERE archived = 1 AND id IN "+in+" ORDER BY id",
			args...,
		)
		if err != nil {
			return err
		}
		restored, err = scanNotes(rows)
		if err != nil {
			return err
		}

		now := d.timestamp()
		_, err = tx.ExecContext(ctx,
			"UPDATE notes SET archived = 0, updated_at = ? WHERE archived = 1 AND id IN "+in,
			append([]any{now}, args...)...,
		)
		if err != nil {
			return err
		}

		for i := range restored {
			restored[i].Archived = false
			restored[i].UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("restore", strings.Join(ids, ","), err)
	}

	return restored, nil
}

// DeletePermanently erases the archived notes among ids in one transaction
// and returns how many were removed. Live notes are never erased here since
// each of them owns an open window.
func (d *DB) DeletePermanently(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	in, args := inClause(ids)
	var deleted int64

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE archived = 1 AND id IN "+in, args...)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, wrapErr("delete", strings.Join(ids, ","), err)
	}

	return deleted, nil
}

// PurgeArchived erases every archived note and returns how many were removed
func (d *DB) PurgeArchived(ctx context.Context) (int64, error) {
	var deleted int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE archived = 1")
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, wrapErr("purge", "", err)
	}
	return deleted, nil
}

// Get retrieves a note by ID
func (d *DB) Get(ctx context.Context, id string) (note.Note, error) {
	row := d.db.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return note.Note{}, notFound("get", id)
	}
	if err != nil {
		return note.Note{}, wrapErr("get", id, err)
	}
	return n, nil
}

// ListLive returns every note that is not in the trash, ordered by id
func (d *DB) ListLive(ctx context.Context) ([]note.Note, error) {
	return d.list(ctx, "list live", false)
}

// ListArchived returns every note in the trash, ordered by id
func (d *DB) ListArchived(ctx context.Context) ([]note.Note, error) {
	return d.list(ctx, "list archived", true)
}

func (d *DB) list(ctx context.Context, op string, archived bool) ([]note.Note, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE archived = ? ORDER BY id", archived)
	if err != nil {
		return nil, wrapErr(op, "", err)
	}

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, wrapErr(op, "", err)
	}
	return notes, nil
}

// Count returns the number of live and archived notes
func (d *DB) Count(ctx context.Context) (live, archived int, err error) {
	err = d.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(archived = 0), 0), COALESCE(SUM(archived = 1), 0) FROM notes",
	).Scan(&live, &archived)
	if err != nil {
		return 0, 0, fmt.Errorf("count notes: %w", err)
	}
	return live, archived, nil
}
