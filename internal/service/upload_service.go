package service

import (
	"time"

	"chatspace/internal/apperr"
	"chatspace/internal/applog"
	"chatspace/internal/entity"
	"chatspace/internal/repository"
)

type UploadService interface {
	// Store validates and writes an uploaded file, then records it. A
	// rejected file leaves no trace on disk or in the store.
	Store(ownerID uint, originalName string, data []byte) (*entity.Upload, error)
	List(ownerID uint) ([]*entity.Upload, error)
	// Delete removes one of the owner's uploads; requests for someone else's
	// upload come back not-found.
	Delete(ownerID, uploadID uint) error
}

type uploadService struct {
	uploadRepository repository.UploadRepository
	files            *FileStore
	logger           applog.Logger
}

func NewUploadService(uploadRepo repository.UploadRepository, files *FileStore, logger applog.Logger) UploadService {
	return &uploadService{
		uploadRepository: uploadRepo,
		files:            files,
		logger:           logger,
	}
}

func (s *uploadService) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

func (s *uploadService) Store(ownerID uint, originalName string, data []byte) (*entity.Upload, error) {
	if originalName == "" || len(data) == 0 {
		return nil, apperr.Validation("Please choose a file to upload.")
	}
	if !s.files.AllowedExt(originalName) {
		return nil, apperr.Validation("File type not allowed.")
	}

	storedName := s.files.UniqueName(SanitizeName(originalName))
	contentType, err := s.files.Save(storedName, data)
	if err != nil {
		return nil, err
	}

	upload := &entity.Upload{
		OwnerID:      ownerID,
		StoredName:   storedName,
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         int64(len(data)),
		CreatedAt:    time.Now(),
	}
	if err := s.uploadRepository.Create(upload); err != nil {
		s.files.Remove(storedName)
		return nil, err
	}
	s.Logf("stored upload %d (%s, %d bytes) for user %d", upload.ID, storedName, upload.Size, ownerID)
	return upload, nil
}

func (s *uploadService) List(ownerID uint) ([]*entity.Upload, error) {
	return s.uploadRepository.ListByOwner(ownerID)
}

func (s *uploadService) Delete(ownerID, uploadID uint) error {
	upload, err := s.uploadRepository.GetByID(uploadID)
	if err != nil {
		return err
	}
	if upload.OwnerID != ownerID {
		return apperr.NotFound("upload was not found")
	}
	if err := s.uploadRepository.Delete(uploadID); err != nil {
		return err
	}
	if err := s.files.Remove(upload.StoredName); err != nil {
		s.Logf("record %d deleted but file %s remains: %v", uploadID, upload.StoredName, err)
	}
	return nil
}
