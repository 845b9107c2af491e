package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock/dto"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const movementColumns = `id, product_id, movement_type, quantity_change, quantity_before, quantity_after,
	reference_type, reference_id, notes, created_by, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ApplyMovements(ctx context.Context, movements []model.StockMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range movements {
		m := &movements[i]

		// the guard keeps stock non-negative even without the redis lock
		res, err := tx.ExecContext(ctx, tx.Rebind(`
            UPDATE products SET stock = stock + ?, updated_at = ?
            WHERE id = ? AND stock + ? >= 0
        `), m.QuantityChange, m.CreatedAt, m.ProductID, m.QuantityChange)
		if err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		var after int
		err = tx.GetContext(ctx, &after, tx.Rebind(`SELECT stock FROM products WHERE id = ?`), m.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errors.Wrapf(model.ErrNotFound, "product %s", m.ProductID)
			}
			return err
		}
		if n == 0 {
			return errors.Wrapf(model.ErrInsufficientStock, "product %s has %d, change %d", m.ProductID, after, m.QuantityChange)
		}
		m.QuantityAfter = after
		m.QuantityBefore = after - m.QuantityChange

		_, err = tx.NamedExecContext(ctx, `
            INSERT INTO stock_movements (`+movementColumns+`)
            VALUES (:id, :product_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
                :reference_type, :reference_id, :notes, :created_by, :created_at)
        `, m)
		if err != nil {
			return fmt.Errorf("failed to log movement: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	base := database.Builder.Select().From("stock_movements")
	if f.ProductID != "" {
		base = base.Where("product_id = ?", f.ProductID)
	}
	if f.MovementType != "" {
		base = base.Where("movement_type = ?", f.MovementType)
	}
	if f.ReferenceID != "" {
		base = base.Where("reference_id = ?", f.ReferenceID)
	}

	var count int
	query, args, err := database.ToSQL(r.DB, base.Column("count(*)"))
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return nil, 0, err
	}

	list := base.Columns(movementColumns).OrderBy("created_at DESC", "id")
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		list = list.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	query, args, err = database.ToSQL(r.DB, list)
	if err != nil {
		return nil, 0, err
	}

	var items []model.StockMovement
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) HasMovement(ctx context.Context, referenceID, movementType string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, r.DB.Rebind(`
        SELECT count(*) FROM stock_movements WHERE reference_id = ? AND movement_type = ?
    `), referenceID, movementType)
	return count > 0, err
}
