package service

import (
	"fmt"
	"testing"

	"chatspace/internal/applog"
	"chatspace/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStorage(t *testing.T) *repository.Storage {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	storage, err := repository.NewStorage(db)
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func testFileStore(t *testing.T) *FileStore {
	t.Helper()
	files, err := NewFileStore(t.TempDir(), []string{"png", "jpg", "jpeg", "gif", "txt"}, 1<<20)
	require.NoError(t, err)
	return files
}

func testLogger() applog.Logger {
	return applog.Nop()
}
