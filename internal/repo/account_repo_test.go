package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	dom "Social/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

type failingProvider struct{ err error }

func (p failingProvider) Connx(context.Context) (*sqlx.Conn, error) { return nil, p.err }

func TestSQLAccountRepo_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      dom.Account
		wantErr   error
		storage   bool
	}{
		{
			name: "returns generated key",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(insertAccountSQL)).
					WithArgs("alice", "good").
					WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(7))
			},
			want: dom.Account{ID: 7, Username: "alice", Password: "good"},
		},
		{
			name: "unique violation is a duplicate",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(insertAccountSQL)).
					WithArgs("alice", "good").
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: ErrDuplicate,
		},
		{
			name: "driver failure is a storage failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(insertAccountSQL)).
					WithArgs("alice", "good").
					WillReturnError(errors.New("connection reset"))
			},
			storage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)
			log, logs := observedLogger()
			r := NewSQLAccountRepo(db, log)

			got, err := r.Create(context.Background(), "alice", "good")
			switch {
			case tt.storage:
				require.Error(t, err)
				assert.True(t, IsStorageFailure(err))
				assert.Equal(t, 1, logs.FilterMessage("storage failure").Len())
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, IsStorageFailure(err))
				assert.Zero(t, logs.FilterMessage("storage failure").Len())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLAccountRepo_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectAccountByNameSQL)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "username", "password"}).AddRow(1, "alice", "good"))

		got, err := NewSQLAccountRepo(db, nil).GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, dom.Account{ID: 1, Username: "alice", Password: "good"}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectAccountByNameSQL)).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "username", "password"}))

		_, err := NewSQLAccountRepo(db, nil).GetByUsername(context.Background(), "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store down is not absence", func(t *testing.T) {
		log, logs := observedLogger()
		r := NewSQLAccountRepo(failingProvider{err: errors.New("pool closed")}, log)

		_, err := r.GetByUsername(context.Background(), "alice")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.True(t, IsStorageFailure(err))

		entries := logs.FilterMessage("storage failure").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "get_account_by_username", entries[0].ContextMap()["op"])
	})
}

func TestSQLAccountRepo_ExistsByID(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(accountExistsByIDSQL)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		ok, err := NewSQLAccountRepo(db, nil).ExistsByID(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(accountExistsByIDSQL)).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		ok, err := NewSQLAccountRepo(db, nil).ExistsByID(context.Background(), 4)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(accountExistsByIDSQL)).
			WithArgs(int64(5)).
			WillReturnError(errors.New("timeout"))

		ok, err := NewSQLAccountRepo(db, nil).ExistsByID(context.Background(), 5)
		assert.True(t, IsStorageFailure(err))
		assert.False(t, ok)
	})
}
