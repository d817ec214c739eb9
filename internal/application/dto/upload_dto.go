package dto

// UploadImageResponse URL pública de la imagen subida.
type UploadImageResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
