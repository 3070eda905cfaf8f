package model

type Product struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Variations  string `json:"variations"`
	Attributes  string `json:"attributes"`
	URL         string `json:"url"`
	Mtime       int64  `json:"mtime"`
}
