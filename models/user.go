package models

import "time"

// User is an account record. Username is derived from the email local
// part at registration and is unique alongside the email itself.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"size:190;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:190;uniqueIndex;not null" json:"username"`
	FullName  string    `gorm:"size:120;not null" json:"full_name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Avatar    *string   `gorm:"size:255" json:"avatar"`
	IsOnline  bool      `gorm:"not null;default:false" json:"is_online"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
