// Package testutil opens migrated in-memory databases and inserts fixtures.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fekuna/penstore/internal/migrations"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/fekuna/penstore/pkg/database/migrate"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func Logger(t testing.TB) logger.ZapLogger {
	return logger.FromZap(zaptest.NewLogger(t))
}

// NewDB returns a private in-memory SQLite database with every migration applied.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, &database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: "file::memory:?_foreign_keys=on",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrate.NewMigrator(db, logger.Nop()).Up(ctx, migrations.All))
	return db
}

func InsertMedia(t testing.TB, db *sqlx.DB, alt string) *model.Media {
	t.Helper()
	now := time.Now().UTC()
	id := uuid.New().String()
	m := &model.Media{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Filename:  id + ".jpg",
		MimeType:  "image/jpeg",
		Filesize:  1024,
		Width:     800,
		Height:    600,
		Alt:       alt,
		URL:       "/media/" + id + ".jpg",
	}
	_, err := db.NamedExec(`INSERT INTO media (id, filename, mime_type, filesize, width, height, alt, url, blur_data_url, created_at, updated_at)
		VALUES (:id, :filename, :mime_type, :filesize, :width, :height, :alt, :url, :blur_data_url, :created_at, :updated_at)`, m)
	require.NoError(t, err)
	return m
}

func InsertCollection(t testing.TB, db *sqlx.DB, name, slug string, featured bool) *model.Collection {
	t.Helper()
	now := time.Now().UTC()
	c := &model.Collection{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		Slug:      slug,
		Featured:  featured,
	}
	_, err := db.NamedExec(`INSERT INTO collections (id, name, slug, description, hero_image_id, featured, created_at, updated_at)
		VALUES (:id, :name, :slug, :description, :hero_image_id, :featured, :created_at, :updated_at)`, c)
	require.NoError(t, err)
	return c
}

// ProductFixture lists the columns tests usually care about; the rest get defaults.
type ProductFixture struct {
	Name         string
	Slug         string
	CollectionID string
	Price        string
	Stock        int
	Featured     bool
	NibSize      model.NibSize
	TrimColor    model.TrimColor
	CreatedAt    time.Time
}

func InsertProduct(t testing.TB, db *sqlx.DB, f ProductFixture) *model.Product {
	t.Helper()
	hero := InsertMedia(t, db, f.Name)
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	price := f.Price
	if price == "" {
		price = "100"
	}
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: created, UpdatedAt: created},
		Name:         f.Name,
		Slug:         f.Slug,
		CollectionID: f.CollectionID,
		Price:        decimal.RequireFromString(price),
		SKU:          fmt.Sprintf("SKU-%s", f.Slug),
		Specifications: model.Specifications{
			NibSize:   f.NibSize,
			TrimColor: f.TrimColor,
		},
		HeroImageID: &hero.ID,
		Stock:       f.Stock,
		Featured:    f.Featured,
	}
	_, err := db.NamedExec(`INSERT INTO products (id, name, slug, collection_id, price, sku, description, short_description,
		nib_size, nib_material, material, trim_color, length, weight, filling_system, hero_image_id, stock, featured, created_at, updated_at)
		VALUES (:id, :name, :slug, :collection_id, :price, :sku, :description, :short_description,
		:nib_size, :nib_material, :material, :trim_color, :length, :weight, :filling_system, :hero_image_id, :stock, :featured, :created_at, :updated_at)`, p)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO product_images (product_id, position, media_id, alt) VALUES (?, 0, ?, ?)`, p.ID, hero.ID, f.Name)
	require.NoError(t, err)
	p.Images = []model.ProductImage{{ProductID: p.ID, Position: 0, MediaID: hero.ID, Alt: f.Name}}
	return p
}
