package model

type Collection struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description string  `db:"description" json:"description,omitempty"`
	HeroImageID *string `db:"hero_image_id" json:"hero_image_id,omitempty"`
	Featured    bool    `db:"featured" json:"featured"`
	HeroImage   *Media  `db:"-" json:"hero_image,omitempty"`
}
