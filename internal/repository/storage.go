package repository

import (
	"chatspace/internal/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage gathers all the repositories over a single pooled gorm connection.
// The database is opened once at startup; nothing opens ad-hoc connections
// per request.
type Storage struct {
	db *gorm.DB

	userRepo    UserRepository
	messageRepo MessageRepository
	uploadRepo  UploadRepository
}

func Open(dbPath string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewStorage(db)
}

func NewStorage(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&entity.User{}, &entity.UserCredential{}, &entity.Message{}, &entity.Upload{}); err != nil {
		return nil, err
	}
	return &Storage{
		db:          db,
		userRepo:    NewSQLiteUserRepository(db),
		messageRepo: NewSQLiteMessageRepository(db),
		uploadRepo:  NewSQLiteUploadRepository(db),
	}, nil
}

func (s *Storage) Users() UserRepository       { return s.userRepo }
func (s *Storage) Messages() MessageRepository { return s.messageRepo }
func (s *Storage) Uploads() UploadRepository   { return s.uploadRepo }

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
