//go:generate go run go.uber.org/mock/mockgen -source=message_repo.go -destination=../mocks/mock_message_repo.go -package=mocks
package repo

import (
	"context"

	dom "Social/internal/domain"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	messageColumns = `message_id, posted_by, message_text, time_posted_epoch`

	insertMessageSQL        = `INSERT INTO message (posted_by, message_text, time_posted_epoch) VALUES (?, ?, ?) RETURNING message_id`
	selectMessagesSQL       = `SELECT ` + messageColumns + ` FROM message`
	selectMessageByIDSQL    = selectMessagesSQL + ` WHERE message_id = ?`
	selectMessagesByUserSQL = selectMessagesSQL + ` WHERE posted_by = ?`
	updateMessageTextSQL    = `UPDATE message SET message_text = ? WHERE message_id = ?`
	deleteMessageSQL        = `DELETE FROM message WHERE message_id = ?`
)

// MessageRepo provides message persistence.
type MessageRepo interface {
	Create(ctx context.Context, msg dom.Message) (dom.Message, error)
	GetByID(ctx context.Context, id int64) (dom.Message, error)
	List(ctx context.Context) ([]dom.Message, error)
	ListByAccount(ctx context.Context, accountID int64) ([]dom.Message, error)
	UpdateText(ctx context.Context, id int64, text string) error
	DeleteByID(ctx context.Context, id int64) (dom.Message, error)
}

// SQLMessageRepo implements MessageRepo over database/sql.
type SQLMessageRepo struct {
	gateway
}

// NewSQLMessageRepo returns a new SQLMessageRepo.
func NewSQLMessageRepo(db ConnProvider, log *zap.Logger) *SQLMessageRepo {
	return &SQLMessageRepo{gateway: newGateway(db, log)}
}

// Create inserts a message and returns it with the store-generated id.
// An unknown PostedBy yields ErrForeignKey.
func (r *SQLMessageRepo) Create(ctx context.Context, m dom.Message) (dom.Message, error) {
	out := dom.Message{PostedBy: m.PostedBy, Text: m.Text, PostedAt: m.PostedAt}
	err := r.withConn(ctx, "insert_message", func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &out.ID, conn.Rebind(insertMessageSQL), m.PostedBy, m.Text, m.PostedAt)
	})
	if err != nil {
		return dom.Message{}, err
	}
	return out, nil
}

func (r *SQLMessageRepo) GetByID(ctx context.Context, id int64) (dom.Message, error) {
	var m dom.Message
	err := r.withConn(ctx, "get_message_by_id", func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &m, conn.Rebind(selectMessageByIDSQL), id)
	})
	return m, err
}

// List returns every message in store order; no ordering is guaranteed.
func (r *SQLMessageRepo) List(ctx context.Context) ([]dom.Message, error) {
	list := make([]dom.Message, 0)
	err := r.withConn(ctx, "list_messages", func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &list, selectMessagesSQL)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListByAccount returns the account's messages. No messages is an empty
// slice, never ErrNotFound.
func (r *SQLMessageRepo) ListByAccount(ctx context.Context, accountID int64) ([]dom.Message, error) {
	list := make([]dom.Message, 0)
	err := r.withConn(ctx, "list_messages_by_account", func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &list, conn.Rebind(selectMessagesByUserSQL), accountID)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateText rewrites message_text only. It does not report whether the
// row existed; callers check first.
func (r *SQLMessageRepo) UpdateText(ctx context.Context, id int64, text string) error {
	return r.withConn(ctx, "update_message", func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(ctx, conn.Rebind(updateMessageTextSQL), text, id)
		return err
	})
}

// DeleteByID removes the message and returns what was stored. An absent id
// returns ErrNotFound without issuing the DELETE.
func (r *SQLMessageRepo) DeleteByID(ctx context.Context, id int64) (dom.Message, error) {
	var m dom.Message
	err := r.withConn(ctx, "delete_message", func(conn *sqlx.Conn) error {
		if err := conn.GetContext(ctx, &m, conn.Rebind(selectMessageByIDSQL), id); err != nil {
			return err
		}
		_, err := conn.ExecContext(ctx, conn.Rebind(deleteMessageSQL), id)
		return err
	})
	if err != nil {
		return dom.Message{}, err
	}
	return m, nil
}
