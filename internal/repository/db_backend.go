package repository

import (
	"context"
	"errors"
	"study_tracker/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBBackend 将每份用户文档存为 user_documents 表中的一行
type DBBackend struct {
	DB *gorm.DB
}

func NewDBBackend(db *gorm.DB) *DBBackend {
	return &DBBackend{DB: db}
}

func (b *DBBackend) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := b.DB.WithContext(ctx).Model(&model.UserDocument{}).Where("user_id = ?", key).Count(&count).Error
	return count > 0, err
}

func (b *DBBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var doc model.UserDocument
	err := b.DB.WithContext(ctx).Where("user_id = ?", key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return []byte(doc.Document), nil
}

func (b *DBBackend) Write(ctx context.Context, key string, data []byte) error {
	doc := &model.UserDocument{
		UserID:   key,
		Document: string(data),
	}
	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(doc).Error
}

func (b *DBBackend) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := b.DB.WithContext(ctx).Model(&model.UserDocument{}).Order("user_id ASC").Pluck("user_id", &keys).Error
	return keys, err
}

func (b *DBBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
