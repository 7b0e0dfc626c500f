package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeyqueue/case-backend/internal/models"
)

type CaseEventRepository interface {
	Append(ctx context.Context, e *models.CaseEvent) error
	// ListByCase returns the events of a case, oldest first.
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.CaseEvent, error)
}

type gormCaseEventRepository struct {
	db *gorm.DB
}

func NewCaseEventRepository(db *gorm.DB) CaseEventRepository {
	return &gormCaseEventRepository{db: db}
}

func (r *gormCaseEventRepository) Append(ctx context.Context, e *models.CaseEvent) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("append case event: %w", translate(err))
	}
	return nil
}

func (r *gormCaseEventRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.CaseEvent, error) {
	events := make([]models.CaseEvent, 0)
	err := r.db.WithContext(ctx).Where("case_id = ?", caseID).Order("created_at ASC").Order("seq ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list case events: %w", err)
	}
	return events, nil
}
