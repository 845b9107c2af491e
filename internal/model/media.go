package model

// Media is an uploaded image with its derived placeholder and size variants.
type Media struct {
	BaseModel
	Filename    string      `db:"filename" json:"filename"`
	MimeType    string      `db:"mime_type" json:"mime_type"`
	Filesize    int64       `db:"filesize" json:"filesize"`
	Width       int         `db:"width" json:"width"`
	Height      int         `db:"height" json:"height"`
	Alt         string      `db:"alt" json:"alt"`
	URL         string      `db:"url" json:"url"`
	BlurDataURL *string     `db:"blur_data_url" json:"blur_data_url,omitempty"`
	Sizes       []MediaSize `db:"-" json:"sizes,omitempty"`
}

type MediaSize struct {
	MediaID  string `db:"media_id" json:"-"`
	Name     string `db:"name" json:"name"`
	Filename string `db:"filename" json:"filename"`
	Width    int    `db:"width" json:"width"`
	Height   int    `db:"height" json:"height"`
	URL      string `db:"url" json:"url"`
}
