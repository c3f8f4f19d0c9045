package infra

import (
	"fmt"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique index, sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.Presentacion{},
		&model.MetodoPago{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Stock{},
		&model.MovimientoInventario{},
		&model.Compra{},
		&model.CompraDetalle{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one open session at a time.  The advisory lock in the open
		// path serializes writers; this index is the DB-level backstop should
		// any write path ever bypass the lock.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_sesiones_caja_abierta
		   ON sesiones_caja ((1)) WHERE fecha_cierre IS NULL`,

		// Gapless-enough purchase numbering.  nextval is concurrency-safe and
		// never reissues a number, which is all C-%06d requires.
		`CREATE SEQUENCE IF NOT EXISTS compras_numero_seq START 1`,

		// Frequent lookups: movements by session and kardex by presentación.
		`CREATE INDEX IF NOT EXISTS idx_movimientos_caja_sesion
		   ON movimientos_caja (sesion_caja_id, fecha)`,
		`CREATE INDEX IF NOT EXISTS idx_movimientos_inventario_presentacion
		   ON movimientos_inventario (presentacion_id, fecha)`,
	}

	for _, stmt := range patches {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("patch %q: %w", stmt[:40], err)
		}
	}
	return nil
}
