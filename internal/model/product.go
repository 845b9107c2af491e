package model

import "github.com/shopspring/decimal"

type NibSize string

const (
	NibExtraFine NibSize = "EF"
	NibFine      NibSize = "F"
	NibMedium    NibSize = "M"
	NibBroad     NibSize = "B"
	NibStub      NibSize = "Stub"
)

func (n NibSize) Valid() bool {
	switch n {
	case "", NibExtraFine, NibFine, NibMedium, NibBroad, NibStub:
		return true
	}
	return false
}

type TrimColor string

const (
	TrimGold      TrimColor = "Gold"
	TrimPlatinum  TrimColor = "Platinum"
	TrimRuthenium TrimColor = "Ruthenium"
	TrimRoseGold  TrimColor = "Rose Gold"
)

func (c TrimColor) Valid() bool {
	switch c {
	case "", TrimGold, TrimPlatinum, TrimRuthenium, TrimRoseGold:
		return true
	}
	return false
}

type FillingSystem string

const (
	FillingPiston    FillingSystem = "Piston"
	FillingCartridge FillingSystem = "Cartridge/Converter"
	FillingCapillary FillingSystem = "Capillary"
)

func (f FillingSystem) Valid() bool {
	switch f {
	case "", FillingPiston, FillingCartridge, FillingCapillary:
		return true
	}
	return false
}

// Specifications is stored flat on the products row; empty strings mean unset.
type Specifications struct {
	NibSize       NibSize       `db:"nib_size" json:"nib_size,omitempty"`
	NibMaterial   string        `db:"nib_material" json:"nib_material,omitempty"`
	Material      string        `db:"material" json:"material,omitempty"`
	TrimColor     TrimColor     `db:"trim_color" json:"trim_color,omitempty"`
	Length        string        `db:"length" json:"length,omitempty"`
	Weight        string        `db:"weight" json:"weight,omitempty"`
	FillingSystem FillingSystem `db:"filling_system" json:"filling_system,omitempty"`
}

const (
	MaxShortDescription = 200
	MaxGalleryImages    = 8
)

type Product struct {
	BaseModel
	Name             string          `db:"name" json:"name"`
	Slug             string          `db:"slug" json:"slug"`
	CollectionID     string          `db:"collection_id" json:"collection_id"`
	Price            decimal.Decimal `db:"price" json:"price"`
	SKU              string          `db:"sku" json:"sku"`
	Description      string          `db:"description" json:"description"`
	ShortDescription string          `db:"short_description" json:"short_description,omitempty"`
	HeroImageID      *string         `db:"hero_image_id" json:"hero_image_id,omitempty"`
	Stock            int             `db:"stock" json:"stock"`
	Featured         bool            `db:"featured" json:"featured"`
	Images           []ProductImage  `db:"-" json:"images,omitempty"`
	Collection       *Collection     `db:"-" json:"collection,omitempty"` // depth >= 1
	HeroImage        *Media          `db:"-" json:"hero_image,omitempty"` // depth >= 1

	Specifications `json:"specifications"`
}

// ProductImage is one ordered gallery entry.
type ProductImage struct {
	ProductID string `db:"product_id" json:"-"`
	Position  int    `db:"position" json:"position"`
	MediaID   string `db:"media_id" json:"media_id"`
	Alt       string `db:"alt" json:"alt"`
	Image     *Media `db:"-" json:"image,omitempty"`
}
