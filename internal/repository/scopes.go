package repository

import (
	"time"

	"gorm.io/gorm"
)

// AtLocation returns a GORM scope that filters cases by kiosk location.
func AtLocation(location string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("location = ?", location)
	}
}

// CreatedWithin filters on start <= created_at < end.
func CreatedWithin(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ? AND created_at < ?", start, end)
	}
}

func matching(filter CaseFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Location != nil {
			db = db.Scopes(AtLocation(*filter.Location))
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Category != nil {
			db = db.Where("category = ?", *filter.Category)
		}
		return db
	}
}
