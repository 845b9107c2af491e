package dto

type CreateCollectionInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	HeroImageID *string `json:"hero_image_id"`
	Featured    bool    `json:"featured"`
}

type UpdateCollectionInput struct {
	ID          string  `json:"-"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	HeroImageID *string `json:"hero_image_id"`
	Featured    bool    `json:"featured"`
}
