package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/schedulelua/luabot"
	"github.com/schedulelua/luabot/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionStore(t *testing.T) {
	t.Parallel()

	t.Run("returns empty record before first save", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVersionStore(openDB(t))

		rec, err := s.LoadVersionRecord(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &luabot.VersionRecord{}, rec)
	})

	t.Run("overwrites the single record", func(t *testing.T) {
		t.Parallel()

		s := sqlite.NewVersionStore(openDB(t))
		ctx := context.Background()
		first := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
		second := first.Add(30 * time.Minute)

		require.NoError(t, s.SaveVersionRecord(ctx, &luabot.VersionRecord{LastVersion: "1.9.0", LastChecked: first}))
		require.NoError(t, s.SaveVersionRecord(ctx, &luabot.VersionRecord{LastVersion: "2.0.0", LastChecked: second}))

		rec, err := s.LoadVersionRecord(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", rec.LastVersion)
		assert.True(t, second.Equal(rec.LastChecked))
	})

	t.Run("stores empty version as null", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		s := sqlite.NewVersionStore(db)
		ctx := context.Background()

		require.NoError(t, s.SaveVersionRecord(ctx, &luabot.VersionRecord{LastChecked: time.Now()}))

		var isNull bool
		err := db.QueryRowContext(ctx, "SELECT last_version IS NULL FROM version_record").Scan(&isNull)
		require.NoError(t, err)
		assert.True(t, isNull)
	})
}
