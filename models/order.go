package models

import (
	"math/rand"
	"time"

	"gorm.io/gorm"
)

const (
	orderIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderIDDigits  = "0123456789"
)

// GenerateOrderID returns a short human-readable order identifier:
// two uppercase letters followed by four digits, e.g. "KX4821".
// Identifiers are not guaranteed unique; a collision fails the insert
// and surfaces as a storage error (no regeneration retry).
func GenerateOrderID() string {
	b := make([]byte, 6)
	for i := 0; i < 2; i++ {
		b[i] = orderIDLetters[rand.Intn(len(orderIDLetters))]
	}
	for i := 2; i < 6; i++ {
		b[i] = orderIDDigits[rand.Intn(len(orderIDDigits))]
	}
	return string(b)
}

// Order represents a laundry pickup order
type Order struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	Service    string         `gorm:"not null" json:"service"`
	PickupDate time.Time      `gorm:"not null" json:"pickup_date"`
	TimeSlot   string         `gorm:"not null" json:"time_slot"`
	Address    string         `gorm:"not null" json:"address"`
	Notes      *string        `json:"notes"`
	Amount     float64        `gorm:"not null;default:0" json:"amount"`
	ItemsCount int            `gorm:"not null;default:0" json:"items_count"`
	Status     string         `gorm:"not null;default:'Pending'" json:"status"` // free text, no enforced transition set
	UserID     uint           `gorm:"not null;index" json:"user_id"`            // foreign key to users table
	User       User           `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate stamps a generated identifier when none was supplied
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = GenerateOrderID()
	}
	return nil
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
