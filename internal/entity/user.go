package entity

import "time"

type User struct {
	ID         uint   `gorm:"primaryKey"`
	Username   string `gorm:"uniqueIndex;not null"`
	Bio        string
	AvatarFile string // bare filename inside the upload directory, "" when unset
	CreatedAt  time.Time `gorm:"not null"`

	Credential UserCredential `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}
