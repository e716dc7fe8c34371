package store

import (
	"context"
	"path/filepath"
	"testing"

	"Social/internal/config"
	"Social/internal/utils"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_MigrateAndConstraints(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "social.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	res, err := Migrate(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	require.Len(t, res, 1)

	status, err := Status(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.Equal(t, goose.StateApplied, status[0].State)

	// Second run is a no-op.
	res, err = Migrate(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = db.ExecContext(ctx, `INSERT INTO account (username, password) VALUES ('alice', 'pass')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO account (username, password) VALUES ('alice', 'other')`)
	require.Error(t, err)
	assert.True(t, utils.IsUniqueViolation(err))

	_, err = db.ExecContext(ctx, `INSERT INTO message (posted_by, message_text, time_posted_epoch) VALUES (42, 'hi', 1)`)
	require.Error(t, err)
	assert.True(t, utils.IsForeignKeyViolation(err))
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := OpenSQLite(ctx, "  ")
	assert.Error(t, err)

	_, _, err = Open(ctx, config.DBConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)

	_, err = Migrate(ctx, nil, "mysql")
	assert.Error(t, err)
}
