package service

import (
	"strings"
	"time"

	"chatspace/internal/apperr"
	"chatspace/internal/applog"
	"chatspace/internal/chat"
	"chatspace/internal/entity"
	"chatspace/internal/repository"
)

type MessageService interface {
	// Send persists a message and returns the stored row. It does not
	// broadcast; callers broadcast only after Send succeeds, so no client
	// ever sees a message that is not durably recorded.
	Send(senderID, receiverID uint, content string) (*entity.Message, error)
	History(a, b uint) ([]*entity.Message, error)
}

type messageService struct {
	messageRepository repository.MessageRepository
	logger            applog.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, logger applog.Logger) MessageService {
	return &messageService{
		messageRepository: messageRepo,
		logger:            logger,
	}
}

func (m *messageService) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

func (m *messageService) Send(senderID, receiverID uint, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("message body is empty")
	}
	if senderID == receiverID {
		return nil, apperr.Validation("cannot message yourself")
	}

	message := &entity.Message{
		ChatID:     chat.RoomLabel(senderID, receiverID),
		Content:    content,
		CreatedAt:  time.Now(),
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
	if err := m.messageRepository.Create(message); err != nil {
		return nil, err
	}
	m.Logf("stored message %d in %s", message.ID, message.ChatID)
	return message, nil
}

func (m *messageService) History(a, b uint) ([]*entity.Message, error) {
	return m.messageRepository.History(chat.RoomLabel(a, b))
}
