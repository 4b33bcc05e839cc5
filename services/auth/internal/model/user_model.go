package model

import (
	"time"
)

type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	AvatarURL string    `gorm:"type:varchar(500)"`
	Role      string    `gorm:"type:varchar(20);not null;default:'USER'"`
	Banned    bool      `gorm:"not null;default:false"`
	BanReason *string   `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}
