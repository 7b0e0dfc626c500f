package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meeyqueue/case-backend/internal/models"
)

type UserRepository interface {
	// Create stores the user together with its phone.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindByPhone returns nil, nil when no user owns the number.
	FindByPhone(ctx context.Context, countryCode, number string) (*models.User, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	// DeleteByID removes the user and its phone.
	DeleteByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.Phone != nil {
			if err := tx.Create(u.Phone).Error; err != nil {
				return err
			}
			u.PhoneID = u.Phone.ID
		}
		return tx.Omit("Phone").Create(u).Error
	})
	if err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Phone").First(&u, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, translate(err))
	}
	return &u, nil
}

func (r *gormUserRepository) FindByPhone(ctx context.Context, countryCode, number string) (*models.User, error) {
	var u models.User
	phone := r.db.Model(&models.Phone{}).
		Select("id").
		Where("country_code = ? AND number = ?", countryCode, number)
	err := r.db.WithContext(ctx).
		Preload("Phone").
		Where("phone_id = (?)", phone).
		Take(&u).Error
	return optional(&u, err, "find user by phone")
}

func (r *gormUserRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).Preload("Phone").Order("created_at DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *gormUserRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var deleted models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Phone").First(&deleted, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Phone{}, "id = ?", deleted.PhoneID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete user %s: %w", id, translate(err))
	}
	return &deleted, nil
}
