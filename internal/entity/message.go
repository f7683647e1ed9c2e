package entity

import "time"

// Message is immutable once created: no code path updates or deletes rows.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChatID     string    `gorm:"index;not null" json:"chat-id"`
	Content    string    `gorm:"not null" json:"content"`
	CreatedAt  time.Time `gorm:"not null" json:"created-at"`
	SenderID   uint      `gorm:"index;not null" json:"sender"`
	ReceiverID uint      `gorm:"index;not null" json:"receiver"`
}
