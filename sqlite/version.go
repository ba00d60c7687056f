package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/schedulelua/luabot"
)

// Compile-time interface verification.
var _ luabot.VersionStore = (*VersionStore)(nil)

// VersionStore implements luabot.VersionStore using a single-row table.
type VersionStore struct {
	db *DB
}

// NewVersionStore creates a new VersionStore.
func NewVersionStore(db *DB) *VersionStore {
	return &VersionStore{db: db}
}

// LoadVersionRecord returns the stored record, or an empty one.
func (s *VersionStore) LoadVersionRecord(ctx context.Context) (*luabot.VersionRecord, error) {
	var version, checked sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT last_version, last_checked FROM version_record WHERE id = 1
	`).Scan(&version, &checked)
	if err == sql.ErrNoRows {
		return &luabot.VersionRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	rec := &luabot.VersionRecord{LastVersion: version.String}
	if checked.Valid {
		rec.LastChecked, err = luabot.ParseLastChecked(checked.String)
		if err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// SaveVersionRecord upserts the record.
func (s *VersionStore) SaveVersionRecord(ctx context.Context, rec *luabot.VersionRecord) error {
	var checked sql.NullString
	if !rec.LastChecked.IsZero() {
		checked = nullString(rec.LastChecked.UTC().Format(time.RFC3339Nano))
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO version_record (id, last_version, last_checked) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET last_version = excluded.last_version, last_checked = excluded.last_checked
	`, nullString(rec.LastVersion), checked)
	return err
}
