package entity

import "time"

// Upload is one file a user stored through the upload area. StoredName is the
// sanitized on-disk name inside the upload directory; the full path is never
// persisted.
type Upload struct {
	ID           uint   `gorm:"primaryKey"`
	OwnerID      uint   `gorm:"index;not null"`
	StoredName   string `gorm:"uniqueIndex;not null"`
	OriginalName string `gorm:"not null"`
	ContentType  string
	Size         int64
	CreatedAt    time.Time `gorm:"not null"`
}
