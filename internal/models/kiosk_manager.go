package models

import (
	"time"

	"github.com/google/uuid"
)

// KioskPhone has the same shape as Phone but lives in its own table so kiosk
// staff numbers never collide with citizen numbers.
type KioskPhone struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	CountryCode string    `gorm:"size:2;not null;uniqueIndex:idx_kiosk_phones_country_number" json:"countryCode"`
	Number      string    `gorm:"size:8;not null;uniqueIndex:idx_kiosk_phones_country_number" json:"number"`
	CreatedAt   time.Time `json:"createdAt"`
}

// KioskManager is a kiosk operator or volunteer that open cases can be assigned to.
type KioskManager struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"uid"`
	Email        string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName    string      `gorm:"size:80;not null" json:"firstName"`
	LastName     string      `gorm:"size:80;not null" json:"lastName"`
	KioskPhoneID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	KioskPhone   *KioskPhone `gorm:"foreignKey:KioskPhoneID" json:"kioskPhone,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
