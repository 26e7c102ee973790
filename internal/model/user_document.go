package model

import "time"

// UserDocument 数据库存储模式下的一行：整份 UserRecord 序列化为 JSON
type UserDocument struct {
	UserID    string    `gorm:"primaryKey;type:varchar(128)"`
	Document  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserDocument) TableName() string {
	return "user_documents"
}
