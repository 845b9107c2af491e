package repository

import (
	"context"
	"database/sql"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order/dto"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const orderColumns = `id, order_number, customer_name, email, phone, company, total_amount,
	status, notes, admin_notes, created_at, updated_at`

var sortColumns = map[string]string{
	"created_at":   "created_at",
	"total_amount": "total_amount",
	"order_number": "order_number",
	"status":       "status",
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO orders (` + orderColumns + `)
        VALUES (:id, :order_number, :customer_name, :email, :phone, :company, :total_amount,
            :status, :notes, :admin_notes, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, o); err != nil {
		return err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].Position = i
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO order_items (order_id, position, product_id, quantity, price_at_time)
            VALUES (:order_id, :position, :product_id, :quantity, :price_at_time)
        `, o.Items[i])
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PGRepository) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.findOne(ctx, "order_number", number)
}

func (r *PGRepository) findOne(ctx context.Context, column, value string) (*model.Order, error) {
	var o model.Order
	query := r.DB.Rebind(`SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &o, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	orders := []model.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	base := database.Builder.Select().From("orders")
	if f.Status != "" {
		base = base.Where("status = ?", f.Status)
	}
	if f.Email != "" {
		base = base.Where("LOWER(email) = LOWER(?)", f.Email)
	}

	var count int
	query, args, err := database.ToSQL(r.DB, base.Column("count(*)"))
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return nil, 0, err
	}

	orderBy, ok := sortColumns[f.SortBy]
	if !ok {
		orderBy = "created_at"
		f.Desc = true
	}
	if f.Desc {
		orderBy += " DESC"
	}

	list := base.Columns(orderColumns).OrderBy(orderBy, "id")
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		list = list.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	query, args, err = database.ToSQL(r.DB, list)
	if err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	if err := r.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// Update writes status and notes only while the stored status still equals
// previous. A lost race reports ErrConflict.
func (r *PGRepository) Update(ctx context.Context, o *model.Order, previous model.OrderStatus) error {
	query := r.DB.Rebind(`
        UPDATE orders
        SET status = ?,
            admin_notes = ?,
            updated_at = ?
        WHERE id = ? AND status = ?
    `)
	res, err := r.DB.ExecContext(ctx, query, o.Status, o.AdminNotes, o.UpdatedAt, o.ID, previous)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(model.ErrConflict, "order %s is no longer %s", o.OrderNumber, previous)
	}
	return nil
}

func (r *PGRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	query, args, err := sqlx.In(`
        SELECT order_id, position, product_id, quantity, price_at_time
        FROM order_items WHERE order_id IN (?)
        ORDER BY order_id, position
    `, ids)
	if err != nil {
		return err
	}
	var items []model.OrderItem
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	byOrder := make(map[string][]model.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return nil
}
