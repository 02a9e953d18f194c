package domain

// Image — изображение, скопированное в объектное хранилище.
type Image struct {
	ID        string
	ObjectKey string
	Bytes     []byte
	Size      int64
	MimeType  string
}

func NewImage(id, objectKey string, data []byte, mimeType string) *Image {
	return &Image{
		ID:        id,
		ObjectKey: objectKey,
		Bytes:     data,
		Size:      int64(len(data)),
		MimeType:  mimeType,
	}
}
