package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeyqueue/case-backend/internal/models"
)

type KioskManagerRepository interface {
	Create(ctx context.Context, m *models.KioskManager) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.KioskManager, error)
	List(ctx context.Context, limit int) ([]models.KioskManager, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*models.KioskManager, error)
}

type gormKioskManagerRepository struct {
	db *gorm.DB
}

func NewKioskManagerRepository(db *gorm.DB) KioskManagerRepository {
	return &gormKioskManagerRepository{db: db}
}

func (r *gormKioskManagerRepository) Create(ctx context.Context, m *models.KioskManager) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.KioskPhone != nil {
			if err := tx.Create(m.KioskPhone).Error; err != nil {
				return err
			}
			m.KioskPhoneID = m.KioskPhone.ID
		}
		return tx.Omit("KioskPhone").Create(m).Error
	})
	if err != nil {
		return fmt.Errorf("create kiosk manager: %w", translate(err))
	}
	return nil
}

func (r *gormKioskManagerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.KioskManager, error) {
	var m models.KioskManager
	if err := r.db.WithContext(ctx).Preload("KioskPhone").First(&m, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find kiosk manager %s: %w", id, translate(err))
	}
	return &m, nil
}

func (r *gormKioskManagerRepository) List(ctx context.Context, limit int) ([]models.KioskManager, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	managers := make([]models.KioskManager, 0)
	err := r.db.WithContext(ctx).Preload("KioskPhone").Order("created_at DESC").Limit(limit).Find(&managers).Error
	if err != nil {
		return nil, fmt.Errorf("list kiosk managers: %w", err)
	}
	return managers, nil
}

func (r *gormKioskManagerRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*models.KioskManager, error) {
	var deleted models.KioskManager
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("KioskPhone").First(&deleted, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.KioskManager{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.KioskPhone{}, "id = ?", deleted.KioskPhoneID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete kiosk manager %s: %w", id, translate(err))
	}
	return &deleted, nil
}
