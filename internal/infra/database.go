package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and applies the
// idempotent schema patches for the catalog tables.
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

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// documentTables are the catalog collections. Every table stores the record
// as jsonb; component_ids mirrors the product reverse index.
var documentTables = []string{"productos", "semiterminados", "insumos"}

// applySchemaPatches runs idempotent DDL. Each statement uses IF NOT EXISTS
// so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	var patches []string
	for _, t := range documentTables {
		patches = append(patches, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		    id            TEXT        PRIMARY KEY,
		    data          JSONB       NOT NULL,
		    component_ids TEXT[],
		    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, t))
	}
	patches = append(patches,
		// reverse lookups "which products use component X" hit this index
		`CREATE INDEX IF NOT EXISTS idx_productos_component_ids
		     ON productos USING GIN (component_ids)`,
		`CREATE INDEX IF NOT EXISTS idx_insumos_material
		     ON insumos ((lower(data->>'material')))`,
	)

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies schema patches for integration tests.
func RunMigrations(db *gorm.DB) error {
	return applySchemaPatches(db)
}
