package sqlite

import (
	"context"
	"database/sql"
)

// seedOnce runs seed inside tx the first time name is seen, so that a table
// the user emptied on purpose is not refilled.
func seedOnce(ctx context.Context, tx *sql.Tx, name string, seed func() error) error {
	res, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO seeded (name) VALUES (?)", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return seed()
}

// nullString maps an empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
