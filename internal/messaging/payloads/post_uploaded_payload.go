package payloads

// PostUploadedPayload представляет событие об успешной загрузке публикации,
// передается через RabbitMQ воркеру проверки медиа.
type PostUploadedPayload struct {
	PostID   string  `json:"post_id"`
	UserID   string  `json:"user_id"`
	Title    string  `json:"title"`
	VideoKey string  `json:"video_key"`
	ThumbKey *string `json:"thumb_key,omitempty"`
}
