package models

import "time"

// Image is an uploaded picture owned by a user.
type Image struct {
	ImageID     string    `json:"id"`
	UserID      string    `json:"user_id"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Category    string    `json:"category"`
	Explicit    bool      `json:"explicit"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Image model.
func (i Image) TableName() string {
	return "images"
}

// Verdict is the moderation service classification of an image.
type Verdict struct {
	Category string  `json:"category"`
	Explicit bool    `json:"explicit"`
	Score    float64 `json:"score"`
}

// Blob is a stored object as seen by the blob store.
type Blob struct {
	Path        string
	URL         string
	ContentType string
	Size        int64
}
