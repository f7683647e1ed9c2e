package repository

import (
	"chatspace/internal/apperr"
	"chatspace/internal/entity"

	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(upload *entity.Upload) error
	GetByID(id uint) (*entity.Upload, error)
	ListByOwner(ownerID uint) ([]*entity.Upload, error)
	Delete(id uint) error
}

type SQLiteUploadRepository struct {
	db *gorm.DB
}

func NewSQLiteUploadRepository(db *gorm.DB) UploadRepository {
	return &SQLiteUploadRepository{db}
}

func (repo *SQLiteUploadRepository) Create(upload *entity.Upload) error {
	if err := repo.db.Create(upload).Error; err != nil {
		return apperr.Internal("storing upload record", err)
	}
	return nil
}

func (repo *SQLiteUploadRepository) GetByID(id uint) (*entity.Upload, error) {
	var upload entity.Upload
	if err := repo.db.First(&upload, id).Error; err != nil {
		return nil, translateNotFound(err, "upload was not found")
	}
	return &upload, nil
}

func (repo *SQLiteUploadRepository) ListByOwner(ownerID uint) ([]*entity.Upload, error) {
	var uploads []*entity.Upload
	err := repo.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&uploads).Error
	if err != nil {
		return nil, apperr.Internal("listing uploads", err)
	}
	return uploads, nil
}

func (repo *SQLiteUploadRepository) Delete(id uint) error {
	if err := repo.db.Delete(&entity.Upload{}, id).Error; err != nil {
		return apperr.Internal("deleting upload record", err)
	}
	return nil
}
