package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is the shared row shape of the users table, used by tooling that
// works across services (seeding). Services keep their own internal models.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"nombre"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	AvatarURL string    `gorm:"type:varchar(500)" json:"avatarUrl"`
	Role      UserRole  `gorm:"type:varchar(20);default:'USER'" json:"role"`
	Banned    bool      `gorm:"default:false" json:"baneado"`
	BanReason *string   `gorm:"type:text" json:"motivoBaneo,omitempty"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
