package repo

import (
	"context"
	"database/sql"
	"errors"

	"Social/internal/metrics"
	"Social/internal/utils"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ConnProvider hands out a dedicated connection for the duration of one
// gateway call. *sqlx.DB satisfies it.
type ConnProvider interface {
	Connx(ctx context.Context) (*sqlx.Conn, error)
}

type gateway struct {
	db  ConnProvider
	log *zap.Logger
}

func newGateway(db ConnProvider, log *zap.Logger) gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return gateway{db: db, log: log}
}

// withConn runs fn on a connection acquired for this call only and
// releases it on every return path. Errors from fn are classified into
// ErrNotFound, ErrDuplicate, ErrForeignKey or a logged *StorageError.
func (g gateway) withConn(ctx context.Context, op string, fn func(conn *sqlx.Conn) error) error {
	conn, err := g.db.Connx(ctx)
	if err != nil {
		return g.fail(op, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			g.log.Warn("release connection", zap.String("op", op), zap.Error(cerr))
		}
	}()
	return g.classify(op, fn(conn))
}

func (g gateway) classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case utils.IsUniqueViolation(err):
		g.log.Debug("unique constraint rejected write", zap.String("op", op), zap.Error(err))
		return ErrDuplicate
	case utils.IsForeignKeyViolation(err):
		g.log.Debug("foreign key rejected write", zap.String("op", op), zap.Error(err))
		return ErrForeignKey
	default:
		return g.fail(op, err)
	}
}

func (g gateway) fail(op string, err error) error {
	g.log.Error("storage failure", zap.String("op", op), zap.Error(err))
	metrics.StorageFailure(op)
	return &StorageError{Op: op, Err: err}
}
