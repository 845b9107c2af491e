package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/jmoiron/sqlx"
)

const collectionColumns = "id, name, slug, description, hero_image_id, featured, created_at, updated_at"

var sortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Collection) error {
	query := `
        INSERT INTO collections (` + collectionColumns + `)
        VALUES (:id, :name, :slug, :description, :hero_image_id, :featured, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Collection, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *PGRepository) findOne(ctx context.Context, column, value string) (*model.Collection, error) {
	var c model.Collection
	query := r.DB.Rebind(`SELECT ` + collectionColumns + ` FROM collections WHERE ` + column + ` = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &c, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Collection, error) {
	out := make(map[string]*model.Collection, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+collectionColumns+` FROM collections WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var items []model.Collection
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CollectionFilters) ([]model.Collection, int, error) {
	base := database.Builder.Select().From("collections")
	if f.Featured != nil {
		base = base.Where("featured = ?", *f.Featured)
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
		orderBy = "name"
	}
	if f.Desc {
		orderBy += " DESC"
	}

	list := base.Columns(collectionColumns).OrderBy(orderBy, "id")
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		list = list.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	query, args, err = database.ToSQL(r.DB, list)
	if err != nil {
		return nil, 0, err
	}

	var items []model.Collection
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Collection) error {
	query := `
        UPDATE collections
        SET name = :name,
            slug = :slug,
            description = :description,
            hero_image_id = :hero_image_id,
            featured = :featured,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM collections WHERE id = ?"), id)
	return err
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	q := database.Builder.Select("count(*)").From("collections").Where("slug = ?", slug)
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

func (r *PGRepository) CountProducts(ctx context.Context, id string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, r.DB.Rebind(`SELECT count(*) FROM products WHERE collection_id = ?`), id)
	return count, err
}
