package dto

type UploadInput struct {
	Filename string
	Alt      string
	Data     []byte
}
