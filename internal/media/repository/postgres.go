package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/penstore/internal/media/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/jmoiron/sqlx"
)

const mediaColumns = "id, filename, mime_type, filesize, width, height, alt, url, blur_data_url, created_at, updated_at"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, m *model.Media) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO media (` + mediaColumns + `)
        VALUES (:id, :filename, :mime_type, :filesize, :width, :height, :alt, :url, :blur_data_url, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return err
	}

	for i := range m.Sizes {
		m.Sizes[i].MediaID = m.ID
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO media_sizes (media_id, name, filename, width, height, url)
            VALUES (:media_id, :name, :filename, :width, :height, :url)
        `, m.Sizes[i])
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	query := r.DB.Rebind(`SELECT ` + mediaColumns + ` FROM media WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	sizes, err := r.sizesFor(ctx, []string{m.ID})
	if err != nil {
		return nil, err
	}
	m.Sizes = sizes[m.ID]
	return &m, nil
}

// FindByIDs returns the media keyed by id; unknown ids are absent from the map.
func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Media, error) {
	out := make(map[string]*model.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+mediaColumns+` FROM media WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var items []model.Media
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	sizes, err := r.sizesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Sizes = sizes[items[i].ID]
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.MediaFilters) ([]model.Media, int, error) {
	base := database.Builder.Select().From("media")
	if f.MissingBlur {
		base = base.Where("(blur_data_url IS NULL OR blur_data_url = '')")
	}

	var count int
	query, args, err := database.ToSQL(r.DB, base.Column("count(*)"))
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return nil, 0, err
	}

	list := base.Columns(mediaColumns).OrderBy("created_at DESC", "id")
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		list = list.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	query, args, err = database.ToSQL(r.DB, list)
	if err != nil {
		return nil, 0, err
	}

	var items []model.Media
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, count, nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	sizes, err := r.sizesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Sizes = sizes[items[i].ID]
	}
	return items, count, nil
}

func (r *PGRepository) UpdateBlur(ctx context.Context, id, blurDataURL string) error {
	query := r.DB.Rebind(`UPDATE media SET blur_data_url = ?, updated_at = ? WHERE id = ?`)
	_, err := r.DB.ExecContext(ctx, query, blurDataURL, time.Now().UTC(), id)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM media WHERE id = ?"), id)
	return err
}

func (r *PGRepository) CountReferences(ctx context.Context, id string) (int, error) {
	query := r.DB.Rebind(`
        SELECT (SELECT count(*) FROM products WHERE hero_image_id = ?)
             + (SELECT count(*) FROM product_images WHERE media_id = ?)
             + (SELECT count(*) FROM collections WHERE hero_image_id = ?)
    `)
	var count int
	err := r.DB.GetContext(ctx, &count, query, id, id, id)
	return count, err
}

func (r *PGRepository) sizesFor(ctx context.Context, ids []string) (map[string][]model.MediaSize, error) {
	query, args, err := sqlx.In(`
        SELECT media_id, name, filename, width, height, url
        FROM media_sizes WHERE media_id IN (?)
        ORDER BY media_id, width, name
    `, ids)
	if err != nil {
		return nil, err
	}
	var sizes []model.MediaSize
	if err := r.DB.SelectContext(ctx, &sizes, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	out := make(map[string][]model.MediaSize, len(ids))
	for _, s := range sizes {
		out[s.MediaID] = append(out[s.MediaID], s)
	}
	return out, nil
}
