package model

import "time"

// Document represents a stored PDF together with its extracted text and metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// TextContent is set once at upload time and never mutated afterwards.
type Document struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	TextContent string    `json:"text_content"`
	CreatedAt   time.Time `json:"created_at"`
}
