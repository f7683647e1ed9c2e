package repository

import (
	"errors"

	"chatspace/internal/apperr"
	"chatspace/internal/entity"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error

	GetByID(id uint) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	GetForLogin(username string) (*entity.User, error)
	ListOthers(excludeID uint) ([]*entity.User, error)

	UpdateBio(id uint, bio string) error
	UpdateAvatar(id uint, filename string) error
	Delete(id uint) error
}

type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(user *entity.User) error {
	if err := repo.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Validation("Username already exists. Please choose a different one.")
		}
		return apperr.Internal("creating user", err)
	}
	return nil
}

func (repo *SQLiteUserRepository) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := repo.db.First(&user, id).Error; err != nil {
		return nil, translateNotFound(err, "user was not found")
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	if err := repo.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateNotFound(err, "user was not found")
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) GetForLogin(username string) (*entity.User, error) {
	var user entity.User
	err := repo.db.Preload("Credential").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err, "user was not found")
	}
	return &user, nil
}

func (repo *SQLiteUserRepository) ListOthers(excludeID uint) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Where("id <> ?", excludeID).Order("username ASC").Find(&users).Error
	if err != nil {
		return nil, apperr.Internal("listing users", err)
	}
	return users, nil
}

func (repo *SQLiteUserRepository) UpdateBio(id uint, bio string) error {
	err := repo.db.Model(&entity.User{}).Where("id = ?", id).Update("bio", bio).Error
	if err != nil {
		return apperr.Internal("updating bio", err)
	}
	return nil
}

func (repo *SQLiteUserRepository) UpdateAvatar(id uint, filename string) error {
	err := repo.db.Model(&entity.User{}).Where("id = ?", id).Update("avatar_file", filename).Error
	if err != nil {
		return apperr.Internal("updating avatar", err)
	}
	return nil
}

func (repo *SQLiteUserRepository) Delete(id uint) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entity.UserCredential{}).Error; err != nil {
			return apperr.Internal("deleting credential", err)
		}
		if err := tx.Where("owner_id = ?", id).Delete(&entity.Upload{}).Error; err != nil {
			return apperr.Internal("deleting uploads", err)
		}
		if err := tx.Delete(&entity.User{}, id).Error; err != nil {
			return apperr.Internal("deleting user", err)
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func translateNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(msg, err)
}
