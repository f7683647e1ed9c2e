package repository

import (
	"chatspace/internal/apperr"
	"chatspace/internal/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *entity.Message) error
	History(chatID string) ([]*entity.Message, error)
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(message *entity.Message) error {
	if err := repo.db.Create(message).Error; err != nil {
		return apperr.Internal("storing message", err)
	}
	return nil
}

func (repo *SQLiteMessageRepository) History(chatID string) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("loading history", err)
	}
	return messages, nil
}
