package repository

import (
	"context"
	"errors"
	"fmt"
	"study_tracker/internal/config"
	"study_tracker/internal/util"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

// RecordBackend 定义"一个键一份文档"的持久化介质：文件、数据库行或对象存储
type RecordBackend interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// NewRecordBackend 根据 storage.type 选择存储实现，db 仅在 database 模式下使用
func NewRecordBackend(cfg *config.Config, db *gorm.DB) (RecordBackend, error) {
	switch cfg.Storage.Type {
	case util.StorageFile:
		return NewFileBackend(cfg.Storage.LocalPath)
	case util.StorageDatabase:
		if db == nil {
			return nil, fmt.Errorf("database storage requires a database connection")
		}
		return NewDBBackend(db), nil
	case util.StorageMinio:
		return NewMinioBackend(&cfg.Storage)
	case util.StorageOSS:
		return NewOSSBackend(&cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
