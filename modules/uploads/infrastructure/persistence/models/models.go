package models

import "time"

type Upload struct {
	ID        string
	Hash      string
	Name      string
	Path      string
	SizeBytes int64
	MimeType  string
	CreatedAt time.Time
}
