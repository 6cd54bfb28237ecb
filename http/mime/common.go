package mime

type MIME = string

const (
	Plain MIME = "text/plain"
	HTML  MIME = "text/html"
	JSON  MIME = "application/json"
	JPEG  MIME = "image/jpeg"
)
