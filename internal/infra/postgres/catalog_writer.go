package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"hotspot-quiz-service/internal/domain"
	pgmigrations "hotspot-quiz-service/internal/infra/postgres/migrations"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

type catalogRow struct {
	bun.BaseModel `bun:"table:catalogs"`

	ID        string          `bun:"id,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

// OpenDB opens a bun handle on the given DSN.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, err
	}
	return migrator.Migrate(ctx)
}

// CatalogWriter upserts catalogs; used by the import command, never while serving.
type CatalogWriter struct {
	db  *bun.DB
	now func() time.Time
}

func NewCatalogWriter(db *bun.DB) *CatalogWriter {
	return &CatalogWriter{db: db, now: time.Now}
}

// Upsert validates catalog and stores it under its ID.
func (w *CatalogWriter) Upsert(ctx context.Context, catalog domain.Catalog) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	row := &catalogRow{ID: catalog.ID, Data: data, UpdatedAt: w.now()}
	_, err = w.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// List returns the stored catalog IDs.
func (w *CatalogWriter) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := w.db.NewSelect().
		Model((*catalogRow)(nil)).
		Column("id").
		Order("id ASC").
		Scan(ctx, &ids)
	return ids, err
}
