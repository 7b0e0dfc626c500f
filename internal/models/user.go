package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phone is a citizen's contact number. A phone belongs to exactly one user
// and is removed together with it.
type Phone struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	CountryCode string    `gorm:"size:2;not null;uniqueIndex:idx_phones_country_number" json:"countryCode"`
	Number      string    `gorm:"size:8;not null;uniqueIndex:idx_phones_country_number" json:"number"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is a citizen who can submit cases.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"uid"`
	NRIC          string     `gorm:"size:9" json:"nric,omitempty"`
	Name          string     `gorm:"size:80;not null" json:"name"`
	Email         string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	DOB           *time.Time `json:"dob,omitempty"`
	Race          string     `gorm:"size:20;not null" json:"race"`
	Gender        string     `gorm:"size:10;not null" json:"gender"`
	NoOfChildren  int        `json:"noOfChildren"`
	MaritalStatus string     `gorm:"size:20;not null" json:"maritalStatus"`
	Occupation    string     `gorm:"size:80;not null" json:"occupation"`
	PostalCode    string     `gorm:"size:6" json:"postalCode,omitempty"`
	BlockHseNo    string     `gorm:"size:20" json:"blockHseNo,omitempty"`
	FloorNo       string     `gorm:"size:10" json:"floorNo,omitempty"`
	UnitNo        string     `gorm:"size:10" json:"unitNo,omitempty"`
	Address       string     `gorm:"size:255" json:"address,omitempty"`
	FlatType      string     `gorm:"size:40" json:"flatType,omitempty"`
	PhoneID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	Phone         *Phone     `gorm:"foreignKey:PhoneID" json:"phone,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// RefID builds the case reference from the user's address, e.g. "123-12-05-560012".
func (u *User) RefID() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{u.BlockHseNo, u.FloorNo, u.UnitNo, u.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, strings.ToUpper(p))
		}
	}
	return strings.Join(parts, "-")
}

