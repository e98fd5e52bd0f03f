package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered customer or an admin
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	FullName       string         `json:"full_name"`
	HashedPassword string         `gorm:"not null" json:"-"` // never serialized
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser    bool           `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
