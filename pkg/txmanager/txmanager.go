package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// serializationFailure SQLSTATE для конфликтов SERIALIZABLE транзакций
const serializationFailure = "40001"

// defaultMaxRetries сколько раз повторяем транзакцию при serialization failure
const defaultMaxRetries = 3

var (
	// ErrBeginTx возвращается при ошибке открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке коммита
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// DBExecutor общий интерфейс *sql.DB и *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// WithTx кладёт транзакцию в контекст
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// IsInTransaction сообщает, есть ли в контексте активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе db
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TransactionManager выполняет функции внутри транзакций
type TransactionManager struct {
	db         *sql.DB
	maxRetries int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db, maxRetries: defaultMaxRetries}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При конфликте сериализации транзакция повторяется.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err = m.run(ctx, opts, fn)
		if !isSerializationFailure(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов - переиспользуем внешнюю транзакцию
	if IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == serializationFailure
	}
	return false
}
