package models

import (
	"time"

	"github.com/google/uuid"
)

// File is the metadata record for one stored object. The bytes live in
// the storage backend; Location is the only link between the two.
//
// A record created through the direct-upload flow is "pending": Location
// is assigned before any bytes exist at it. The object appears once the
// client finishes PUTting against its presigned URL.
type File struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid"`
	FileName string    `gorm:"not null"`
	// Title is nullable on purpose; DisplayTitle falls back to FileName.
	// The nil is preserved in the database so the fallback stays live
	// when FileName later changes.
	Title    *string
	FileType string `gorm:"not null"`
	Location string `gorm:"not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (File) TableName() string {
	return "files"
}

// DisplayTitle returns Title, or FileName when no title was ever set
func (f *File) DisplayTitle() string {
	if f.Title == nil || *f.Title == "" {
		return f.FileName
	}
	return *f.Title
}
