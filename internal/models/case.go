package models

import (
	"time"

	"github.com/google/uuid"
)

// Case statuses. Closed and completed are terminal.
const (
	CaseStatusOpen       = "open"
	CaseStatusProcessing = "processing"
	CaseStatusClosed     = "closed"
	CaseStatusCompleted  = "completed"
)

// Case categories.
const (
	CaseCategoryNormal   = "normal"
	CaseCategoryWelfare  = "welfare"
	CaseCategoryMinister = "minister"
)

// Case is a citizen service request taken in at a kiosk location.
//
// The partial unique index on user_id backs the one-open-case-per-user rule
// when two intake requests race past the service pre-check.
type Case struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"uid"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uniq_cases_user_open,where:status = 'open'" json:"userId"`
	NRIC         string     `gorm:"size:9" json:"nric,omitempty"`
	Subject      string     `gorm:"size:80;not null" json:"subject"`
	Description  string     `gorm:"size:280" json:"description"`
	Language     string     `gorm:"size:80" json:"language"`
	Status       string     `gorm:"size:20;not null;default:'open';index" json:"status"`
	Category     string     `gorm:"size:20;not null;default:'normal';index" json:"category"`
	Assignee     *uuid.UUID `gorm:"type:uuid;index" json:"assignee,omitempty"`
	Location     string     `gorm:"size:80;not null;index:idx_cases_location_created" json:"location"`
	QueueNo      int        `gorm:"not null" json:"queueNo"`
	RefID        string     `gorm:"size:120" json:"refId"`
	WhatsappCall bool       `gorm:"not null;default:false" json:"whatsappCall"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_cases_location_created" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsTerminal reports whether the case can no longer change status or category.
func (c *Case) IsTerminal() bool {
	return c.Status == CaseStatusClosed || c.Status == CaseStatusCompleted
}

// CasePatch lists the mutable fields of a case. Nil fields are left untouched.
type CasePatch struct {
	Status   *string
	Category *string
	Assignee *uuid.UUID
}

// Apply copies the non-nil fields of p onto c.
func (p CasePatch) Apply(c *Case) {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Assignee != nil {
		id := *p.Assignee
		c.Assignee = &id
	}
}

// Columns returns the patch as a GORM update map.
func (p CasePatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Assignee != nil {
		cols["assignee"] = *p.Assignee
	}
	return cols
}
