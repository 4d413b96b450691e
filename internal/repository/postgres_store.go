package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow is the shape of every catalog table: the record as a jsonb
// document plus, for products, the reverse index mirrored into a text[]
// column with a GIN index so "contains" queries never scan product trees.
type documentRow struct {
	ID           string         `gorm:"primaryKey;type:text"`
	Data         datatypes.JSON `gorm:"type:jsonb;not null"`
	ComponentIDs pq.StringArray `gorm:"type:text[]"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PostgresStore implements catalog.Store on top of GORM/Postgres.
type PostgresStore struct{ db *gorm.DB }

func NewPostgresStore(db *gorm.DB) *PostgresStore { return &PostgresStore{db: db} }

// table maps a collection to its table name. Only known collections are
// accepted because the name is interpolated into SQL.
func table(coll model.Collection) (string, error) {
	switch coll {
	case model.CollProductos, model.CollSemiterminados, model.CollInsumos:
		return string(coll), nil
	}
	return "", fmt.Errorf("coleccion desconocida %q", coll)
}

func transport(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, model.ErrTransport, err)
}

func (s *PostgresStore) Get(ctx context.Context, coll model.Collection, id string, dst any) error {
	t, err := table(coll)
	if err != nil {
		return err
	}
	var row documentRow
	err = s.db.WithContext(ctx).Table(t).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s/%s: %w", coll, id, model.ErrNotFound)
	}
	if err != nil {
		return transport("get "+t, err)
	}
	if err := json.Unmarshal(row.Data, dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", coll, id, err)
	}
	catalog.StampID(dst, id)
	return nil
}

func (s *PostgresStore) QueryReverseIndex(ctx context.Context, q catalog.ReverseQuery) ([]string, error) {
	t, err := table(q.Collection)
	if err != nil {
		return nil, err
	}
	if q.Field != catalog.FieldComponentIDs {
		return nil, fmt.Errorf("campo sin indice inverso: %q", q.Field)
	}
	tx := s.db.WithContext(ctx).Table(t).Where("component_ids @> ARRAY[?]::text[]", q.Value)
	if q.ExcludeID != "" {
		tx = tx.Where("id <> ?", q.ExcludeID)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var ids []string
	if err := tx.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, transport("reverse query "+t, err)
	}
	return ids, nil
}

func (s *PostgresStore) Delete(ctx context.Context, coll model.Collection, id string) error {
	t, err := table(coll)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Exec("DELETE FROM "+t+" WHERE id = ?", id).Error; err != nil {
		return transport("delete "+t, err)
	}
	return nil
}

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, coll model.Collection, id string, rec any) error {
	t, err := table(coll)
	if err != nil {
		return err
	}
	row, err := toRow(id, rec)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Table(t).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return transport("create "+t, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", coll, id, model.ErrDuplicateKey)
	}
	return nil
}

func (s *PostgresStore) Write(ctx context.Context, coll model.Collection, id string, rec any, merge bool) error {
	t, err := table(coll)
	if err != nil {
		return err
	}
	row, err := toRow(id, rec)
	if err != nil {
		return err
	}

	set := `data = EXCLUDED.data, component_ids = EXCLUDED.component_ids`
	if merge {
		set = `data = ` + t + `.data || EXCLUDED.data,
		       component_ids = COALESCE(EXCLUDED.component_ids, ` + t + `.component_ids)`
	}
	sql := `INSERT INTO ` + t + ` (id, data, component_ids, created_at, updated_at)
	        VALUES (?, ?, ?, now(), now())
	        ON CONFLICT (id) DO UPDATE SET ` + set + `, updated_at = now()`

	if err := s.db.WithContext(ctx).Exec(sql, row.ID, row.Data, row.ComponentIDs).Error; err != nil {
		return transport("write "+t, err)
	}
	return nil
}

// Ping checks the underlying connection pool.
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toRow(id string, rec any) (*documentRow, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}
	row := &documentRow{ID: id, Data: datatypes.JSON(data)}
	if ix, ok := rec.(catalog.Indexed); ok {
		row.ComponentIDs = pq.StringArray(ix.IndexValues())
		if row.ComponentIDs == nil {
			row.ComponentIDs = pq.StringArray{}
		}
	}
	return row, nil
}

var _ catalog.Store = (*PostgresStore)(nil)
