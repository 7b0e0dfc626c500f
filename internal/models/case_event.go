package models

import (
	"time"

	"github.com/google/uuid"
)

type CaseEventType string

const (
	CaseCreated     CaseEventType = "case_created"
	CaseAssigned    CaseEventType = "case_assigned"
	CaseCategorized CaseEventType = "case_categorized"
	StatusUpdated   CaseEventType = "status_updated"
	CaseDeleted     CaseEventType = "case_deleted"
)

// CaseEvent is one entry of a case's audit trail. Events outlive the case
// they describe, so there is no foreign key to cases.
type CaseEvent struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"caseId"`
	EventType     CaseEventType `gorm:"size:40;not null" json:"eventType"`
	PreviousValue string        `gorm:"size:80" json:"previousValue,omitempty"`
	NewValue      string        `gorm:"size:80" json:"newValue,omitempty"`
	Actor         string        `gorm:"size:64" json:"actor,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;index" json:"createdAt"`
	// Seq orders events written within the same timestamp.
	Seq           int64         `gorm:"autoIncrement;not null;index" json:"-"`
}
