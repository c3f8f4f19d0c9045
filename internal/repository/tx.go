package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const txMaxIntentos = 3

// runInTx executes fn inside a transaction, retrying serialization and
// deadlock failures (SQLSTATE 40001 / 40P01) a bounded number of times.
// Retries are invisible to callers; partial writes never survive a failed
// attempt because each attempt is its own transaction.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for intento := 0; intento < txMaxIntentos; intento++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !esErrorSerializacion(err) {
			return err
		}
	}
	return err
}

func esErrorSerializacion(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
