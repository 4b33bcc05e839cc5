package entity

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      UserRole  `json:"role"`
	Banned    bool      `json:"baneado"`
	BanReason *string   `json:"motivoBaneo,omitempty"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

// BanReasonText returns the stored reason, or "" when none is recorded.
func (u *User) BanReasonText() string {
	if u.BanReason == nil {
		return ""
	}
	return strings.TrimSpace(*u.BanReason)
}
