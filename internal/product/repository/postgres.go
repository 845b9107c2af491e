package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/product/dto"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/jmoiron/sqlx"
)

const productColumns = `p.id, p.name, p.slug, p.collection_id, p.price, p.sku, p.description, p.short_description,
	p.nib_size, p.nib_material, p.material, p.trim_color, p.length, p.weight, p.filling_system,
	p.hero_image_id, p.stock, p.featured, p.created_at, p.updated_at`

var sortColumns = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
	"stock":      "p.stock",
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO products (
            id, name, slug, collection_id, price, sku, description, short_description,
            nib_size, nib_material, material, trim_color, length, weight, filling_system,
            hero_image_id, stock, featured, created_at, updated_at
        )
        VALUES (
            :id, :name, :slug, :collection_id, :price, :sku, :description, :short_description,
            :nib_size, :nib_material, :material, :trim_color, :length, :weight, :filling_system,
            :hero_image_id, :stock, :featured, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return err
	}
	if err := insertImages(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, "p.id", id)
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.findOne(ctx, "p.slug", slug)
}

func (r *PGRepository) findOne(ctx context.Context, column, value string) (*model.Product, error) {
	var p model.Product
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products p WHERE ` + column + ` = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &p, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	products := []model.Product{p}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	base := applyFilters(database.Builder.Select().From("products p"), f)

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
		orderBy = "p.created_at"
		f.Desc = true
	}
	if f.Desc {
		orderBy += " DESC"
	}

	list := base.Columns(productColumns).OrderBy(orderBy, "p.id")
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		list = list.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	query, args, err = database.ToSQL(r.DB, list)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, err
	}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// applyFilters translates the storefront filters into WHERE clauses.
func applyFilters(q squirrel.SelectBuilder, f *dto.ProductFilters) squirrel.SelectBuilder {
	if f.CollectionSlug != "" {
		q = q.Join("collections c ON c.id = p.collection_id").Where("c.slug = ?", f.CollectionSlug)
	}
	if f.CollectionID != "" {
		q = q.Where("p.collection_id = ?", f.CollectionID)
	}
	if f.NibSize != "" {
		q = q.Where("p.nib_size = ?", f.NibSize)
	}
	if f.TrimColor != "" {
		q = q.Where("p.trim_color = ?", f.TrimColor)
	}
	if f.MinPrice != nil {
		q = q.Where("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("p.price <= ?", *f.MaxPrice)
	}
	if f.Featured != nil {
		q = q.Where("p.featured = ?", *f.Featured)
	}
	if f.ExcludeID != "" {
		q = q.Where("p.id <> ?", f.ExcludeID)
	}
	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"p.id": f.IDs})
	}
	if s := strings.TrimSpace(f.SearchQuery); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(squirrel.Or{
			squirrel.Expr("LOWER(p.name) LIKE ?", like),
			squirrel.Expr("LOWER(p.sku) LIKE ?", like),
			squirrel.Expr("LOWER(p.short_description) LIKE ?", like),
		})
	}
	return q
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        UPDATE products
        SET name = :name,
            slug = :slug,
            collection_id = :collection_id,
            price = :price,
            sku = :sku,
            description = :description,
            short_description = :short_description,
            nib_size = :nib_size,
            nib_material = :nib_material,
            material = :material,
            trim_color = :trim_color,
            length = :length,
            weight = :weight,
            filling_system = :filling_system,
            hero_image_id = :hero_image_id,
            featured = :featured,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM product_images WHERE product_id = ?"), p.ID); err != nil {
		return err
	}
	if err := insertImages(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM products WHERE id = ?"), id)
	return err
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.isUnique(ctx, "slug", slug, excludeID)
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	return r.isUnique(ctx, "sku", sku, excludeID)
}

func (r *PGRepository) isUnique(ctx context.Context, column, value, excludeID string) (bool, error) {
	q := database.Builder.Select("count(*)").From("products").Where(squirrel.Eq{column: value})
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	query, args, err := database.ToSQL(r.DB, q)
	if err != nil {
		return false, err
	}

	var count int
	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) CountOrderItems(ctx context.Context, id string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, r.DB.Rebind(`SELECT count(*) FROM order_items WHERE product_id = ?`), id)
	return count, err
}

func insertImages(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	for i := range p.Images {
		p.Images[i].ProductID = p.ID
		p.Images[i].Position = i
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO product_images (product_id, position, media_id, alt)
            VALUES (:product_id, :position, :media_id, :alt)
        `, p.Images[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) attachImages(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	query, args, err := sqlx.In(`
        SELECT product_id, position, media_id, alt
        FROM product_images WHERE product_id IN (?)
        ORDER BY product_id, position
    `, ids)
	if err != nil {
		return err
	}
	var images []model.ProductImage
	if err := r.DB.SelectContext(ctx, &images, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	byProduct := make(map[string][]model.ProductImage, len(products))
	for _, img := range images {
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	for i := range products {
		products[i].Images = byProduct[products[i].ID]
	}
	return nil
}
