package models

import "time"

// Article is a single news item from the upstream search API.
// Only Title and URL are rendered; the rest is kept for templates
// that want it.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}
