package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerAddress is a saved delivery address for a member.
type CustomerAddress struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      string    `gorm:"column:user_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Phone       string    `gorm:"column:phone;not null"`
	AddressLine string    `gorm:"column:address_line;not null"`
	District    *string   `gorm:"column:district"`
	Province    *string   `gorm:"column:province"`
	PostalCode  *string   `gorm:"column:postal_code"`
	IsDefault   bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
