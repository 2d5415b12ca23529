package model

import "time"

// User is an account allowed to sign in to the dashboard.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	FirstName    string    `gorm:"size:64" json:"firstName,omitempty"`
	LastName     string    `gorm:"size:64" json:"lastName,omitempty"`
	Role         Role      `gorm:"size:32;not null" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
