package entity

// UserCredential keeps the bcrypt hash out of the User row that gets handed
// around to templates and the websocket layer.
type UserCredential struct {
	UserID uint   `gorm:"primaryKey"`
	Hash   string `gorm:"not null"`
}
