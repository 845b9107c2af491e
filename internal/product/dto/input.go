package dto

import (
	"github.com/fekuna/penstore/internal/model"
	"github.com/shopspring/decimal"
)

type ImageInput struct {
	MediaID string `json:"media_id"`
	Alt     string `json:"alt"`
}

type CreateProductInput struct {
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	CollectionID     string               `json:"collection_id"`
	Price            decimal.Decimal      `json:"price"`
	SKU              string               `json:"sku"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description"`
	Specifications   model.Specifications `json:"specifications"`
	HeroImageID      string               `json:"hero_image_id"`
	Images           []ImageInput         `json:"images"`
	Stock            int                  `json:"stock"`
	Featured         bool                 `json:"featured"`
}

// UpdateProductInput replaces every editable field. Stock is changed through
// stock adjustments only.
type UpdateProductInput struct {
	ID               string               `json:"-"`
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	CollectionID     string               `json:"collection_id"`
	Price            decimal.Decimal      `json:"price"`
	SKU              string               `json:"sku"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description"`
	Specifications   model.Specifications `json:"specifications"`
	HeroImageID      string               `json:"hero_image_id"`
	Images           []ImageInput         `json:"images"`
	Featured         bool                 `json:"featured"`
}
