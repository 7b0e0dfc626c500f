package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeyqueue/case-backend/internal/models"
)

// MaxListLimit caps every case listing. There is no pagination cursor.
const MaxListLimit = 100

// CaseFilter narrows a case listing. Nil fields are not filtered on.
type CaseFilter struct {
	Location *string
	Status   *string
	Category *string
	SortAsc  bool
	Limit    int
}

func (f CaseFilter) limit() int {
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		return MaxListLimit
	}
	return f.Limit
}

type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Case, error)
	// FindOpenByUser returns nil, nil when the user has no open case.
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.Case, error)
	// FindLatestByLocationAndDay returns the most recently created case at
	// location with dayStart <= createdAt < dayEnd, or nil, nil.
	FindLatestByLocationAndDay(ctx context.Context, location string, dayStart, dayEnd time.Time) (*models.Case, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch models.CasePatch) (*models.Case, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*models.Case, error)
	List(ctx context.Context, filter CaseFilter) ([]models.Case, error)
}

type gormCaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &gormCaseRepository{db: db}
}

func (r *gormCaseRepository) Create(ctx context.Context, c *models.Case) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create case: %w", translate(err))
	}
	return nil
}

func (r *gormCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	var c models.Case
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find case %s: %w", id, translate(err))
	}
	return &c, nil
}

func (r *gormCaseRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.CaseStatusOpen).
		Take(&c).Error
	return optional(&c, err, "find open case")
}

func (r *gormCaseRepository) FindLatestByLocationAndDay(ctx context.Context, location string, dayStart, dayEnd time.Time) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).
		Scopes(AtLocation(location), CreatedWithin(dayStart, dayEnd)).
		Order("created_at DESC").
		Order("queue_no DESC").
		Take(&c).Error
	return optional(&c, err, "find latest case")
}

func (r *gormCaseRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch models.CasePatch) (*models.Case, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return r.FindByID(ctx, id)
	}
	result := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return nil, fmt.Errorf("update case %s: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update case %s: %w", id, ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

func (r *gormCaseRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	var deleted models.Case
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Case{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete case %s: %w", id, translate(err))
	}
	return &deleted, nil
}

func (r *gormCaseRepository) List(ctx context.Context, filter CaseFilter) ([]models.Case, error) {
	query := r.db.WithContext(ctx).Model(&models.Case{}).Scopes(matching(filter))
	if filter.SortAsc {
		query = query.Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	cases := make([]models.Case, 0)
	if err := query.Limit(filter.limit()).Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

func optional[T any](v *T, err error, op string) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}
