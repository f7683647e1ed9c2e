package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chatspace/internal/apperr"
	"chatspace/internal/applog"
	"chatspace/internal/entity"
	"chatspace/internal/repository"
)

type UserService interface {
	GetByID(id uint) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	ListConversationTargets(currentID uint) ([]*entity.User, error)

	UpdateBio(userID uint, bio string) error
	// SetAvatar validates and stores an uploaded avatar image and records its
	// bare filename on the user. Nothing is touched when validation fails.
	SetAvatar(user *entity.User, originalName string, data []byte) (string, error)
}

type userService struct {
	userRepository repository.UserRepository
	files          *FileStore
	logger         applog.Logger
}

func NewUserService(userRepo repository.UserRepository, files *FileStore, logger applog.Logger) UserService {
	return &userService{
		userRepository: userRepo,
		files:          files,
		logger:         logger,
	}
}

func (s *userService) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

func (s *userService) GetByID(id uint) (*entity.User, error) {
	return s.userRepository.GetByID(id)
}

func (s *userService) GetByUsername(username string) (*entity.User, error) {
	return s.userRepository.GetByUsername(username)
}

func (s *userService) ListConversationTargets(currentID uint) ([]*entity.User, error) {
	return s.userRepository.ListOthers(currentID)
}

func (s *userService) UpdateBio(userID uint, bio string) error {
	return s.userRepository.UpdateBio(userID, strings.TrimSpace(bio))
}

func (s *userService) SetAvatar(user *entity.User, originalName string, data []byte) (string, error) {
	if !s.files.AllowedExt(originalName) {
		return "", apperr.Validation("File type not allowed. Please upload an image file.")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := fmt.Sprintf("%s_profile_%d%s", SanitizeName(user.Username), time.Now().Unix(), ext)

	contentType, err := s.files.Save(storedName, data)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		s.files.Remove(storedName)
		return "", apperr.Validation("File type not allowed. Please upload an image file.")
	}

	if err := s.userRepository.UpdateAvatar(user.ID, storedName); err != nil {
		s.files.Remove(storedName)
		return "", err
	}
	s.Logf("user %q avatar set to %s", user.Username, storedName)
	return storedName, nil
}
