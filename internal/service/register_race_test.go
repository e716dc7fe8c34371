package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"Social/internal/config"
	"Social/internal/repo"
	"Social/internal/service"
	"Social/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "race.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	// A single writer keeps SQLITE_BUSY out of the picture; lookups and
	// inserts from different goroutines still interleave.
	db.SetMaxOpenConns(1)

	_, err = store.Migrate(ctx, db, config.DriverSQLite)
	require.NoError(t, err)

	svc := service.NewAccountService(repo.NewSQLAccountRepo(db, nil))

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "bob", "pass1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	for _, err := range errs {
		assert.ErrorIs(t, err, service.ErrUsernameTaken)
	}

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM account WHERE username = 'bob'`))
	assert.Equal(t, 1, count)
}
