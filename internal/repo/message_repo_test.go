package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	dom "Social/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageCols = []string{"message_id", "posted_by", "message_text", "time_posted_epoch"}

func TestSQLMessageRepo_Create(t *testing.T) {
	t.Run("returns generated key", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(insertMessageSQL)).
			WithArgs(int64(1), "hi", int64(1000)).
			WillReturnRows(sqlmock.NewRows([]string{"message_id"}).AddRow(11))

		got, err := NewSQLMessageRepo(db, nil).Create(context.Background(), dom.Message{PostedBy: 1, Text: "hi", PostedAt: 1000})
		require.NoError(t, err)
		assert.Equal(t, dom.Message{ID: 11, PostedBy: 1, Text: "hi", PostedAt: 1000}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign key violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(insertMessageSQL)).
			WithArgs(int64(9), "hi", int64(1000)).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := NewSQLMessageRepo(db, nil).Create(context.Background(), dom.Message{PostedBy: 9, Text: "hi", PostedAt: 1000})
		assert.ErrorIs(t, err, ErrForeignKey)
	})
}

func TestSQLMessageRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectMessageByIDSQL)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(messageCols).AddRow(1, 2, "hi", 1000))
	mock.ExpectQuery(regexp.QuoteMeta(selectMessageByIDSQL)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(messageCols))

	r := NewSQLMessageRepo(db, nil)

	got, err := r.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, dom.Message{ID: 1, PostedBy: 2, Text: "hi", PostedAt: 1000}, got)

	_, err = r.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMessageRepo_List(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectMessagesSQL)).
			WillReturnRows(sqlmock.NewRows(messageCols).
				AddRow(1, 1, "a", 10).
				AddRow(2, 2, "b", 20))

		list, err := NewSQLMessageRepo(db, nil).List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assert.ElementsMatch(t, []int64{1, 2}, []int64{list[0].ID, list[1].ID})
	})

	t.Run("empty is not nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectMessagesSQL)).
			WillReturnRows(sqlmock.NewRows(messageCols))

		list, err := NewSQLMessageRepo(db, nil).List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectMessagesSQL)).
			WillReturnError(errors.New("relation does not exist"))

		list, err := NewSQLMessageRepo(db, nil).List(context.Background())
		assert.True(t, IsStorageFailure(err))
		assert.Nil(t, list)
	})
}

func TestSQLMessageRepo_ListByAccount(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectMessagesByUserSQL)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(messageCols))

	list, err := NewSQLMessageRepo(db, nil).ListByAccount(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMessageRepo_UpdateText(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(updateMessageTextSQL)).
		WithArgs("edited", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewSQLMessageRepo(db, nil).UpdateText(context.Background(), 3, "edited")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMessageRepo_DeleteByID(t *testing.T) {
	t.Run("existing row is returned then deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectMessageByIDSQL)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(messageCols).AddRow(1, 1, "hi", 1000))
		mock.ExpectExec(regexp.QuoteMeta(deleteMessageSQL)).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := NewSQLMessageRepo(db, nil).DeleteByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, dom.Message{ID: 1, PostedBy: 1, Text: "hi", PostedAt: 1000}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row issues no delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectMessageByIDSQL)).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(messageCols))

		_, err := NewSQLMessageRepo(db, nil).DeleteByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrNotFound)
		// Any DELETE would have been an unexpected call and failed above.
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectMessageByIDSQL)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(messageCols).AddRow(1, 1, "hi", 1000))
		mock.ExpectExec(regexp.QuoteMeta(deleteMessageSQL)).
			WithArgs(int64(1)).
			WillReturnError(errors.New("disk full"))

		got, err := NewSQLMessageRepo(db, nil).DeleteByID(context.Background(), 1)
		assert.True(t, IsStorageFailure(err))
		assert.Zero(t, got)
	})
}
