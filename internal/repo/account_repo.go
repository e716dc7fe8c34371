//go:generate go run go.uber.org/mock/mockgen -source=account_repo.go -destination=../mocks/mock_account_repo.go -package=mocks
package repo

import (
	"context"
	"database/sql"
	"errors"

	dom "Social/internal/domain"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	insertAccountSQL       = `INSERT INTO account (username, password) VALUES (?, ?) RETURNING account_id`
	selectAccountByNameSQL = `SELECT account_id, username, password FROM account WHERE username = ?`
	accountExistsByIDSQL   = `SELECT 1 FROM account WHERE account_id = ?`
)

// AccountRepo provides account persistence.
type AccountRepo interface {
	Create(ctx context.Context, username, password string) (dom.Account, error)
	GetByUsername(ctx context.Context, username string) (dom.Account, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// SQLAccountRepo implements AccountRepo over database/sql.
type SQLAccountRepo struct {
	gateway
}

// NewSQLAccountRepo returns a new SQLAccountRepo.
func NewSQLAccountRepo(db ConnProvider, log *zap.Logger) *SQLAccountRepo {
	return &SQLAccountRepo{gateway: newGateway(db, log)}
}

// Create inserts an account and returns it with the store-generated id.
// A taken username yields ErrDuplicate.
func (r *SQLAccountRepo) Create(ctx context.Context, username, password string) (dom.Account, error) {
	a := dom.Account{Username: username, Password: password}
	err := r.withConn(ctx, "insert_account", func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &a.ID, conn.Rebind(insertAccountSQL), username, password)
	})
	if err != nil {
		return dom.Account{}, err
	}
	return a, nil
}

// GetByUsername returns the account with that username or ErrNotFound.
func (r *SQLAccountRepo) GetByUsername(ctx context.Context, username string) (dom.Account, error) {
	var a dom.Account
	err := r.withConn(ctx, "get_account_by_username", func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &a, conn.Rebind(selectAccountByNameSQL), username)
	})
	return a, err
}

// ExistsByID probes for the id without fetching the row.
func (r *SQLAccountRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.withConn(ctx, "account_exists_by_id", func(conn *sqlx.Conn) error {
		var one int
		err := conn.QueryRowxContext(ctx, conn.Rebind(accountExistsByIDSQL), id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		exists = err == nil
		return err
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}
