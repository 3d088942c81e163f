package repository

import (
	"context"

	"home-flavours/models"

	"gorm.io/gorm"
)

type MenuItemFilter struct {
	TiffinMakerID *uint
	DayOfWeek     string
	AvailableOnly bool
}

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	Save(ctx context.Context, item *models.MenuItem) error
	FindByID(ctx context.Context, id uint) (*models.MenuItem, error)
	// FindOrCreate returns the row matching item's name, day and maker,
	// inserting item when none exists.
	FindOrCreate(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	List(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error)
	SetAvailability(ctx context.Context, id uint, available bool) error
	Delete(ctx context.Context, id uint) error
	DeleteByMaker(ctx context.Context, makerID uint) error
	Count(ctx context.Context) (int64, error)
}

type menuItemRepo struct{ db *gorm.DB }

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Omit("TiffinMaker").Create(item).Error)
}

func (r *menuItemRepo) Save(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Omit("TiffinMaker").Save(item).Error)
}

func (r *menuItemRepo) FindByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Preload("TiffinMaker").First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *menuItemRepo) FindOrCreate(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	query := r.db.WithContext(ctx).Where("name = ? AND day_of_week = ?", item.Name, item.DayOfWeek)
	if item.TiffinMakerID != nil {
		query = query.Where("tiffin_maker_id = ?", *item.TiffinMakerID)
	} else {
		query = query.Where("tiffin_maker_id IS NULL")
	}

	var existing []models.MenuItem
	if err := query.Order("id").Limit(1).Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}
	if err := r.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) List(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx)
	if filter.TiffinMakerID != nil {
		query = query.Where("tiffin_maker_id = ?", *filter.TiffinMakerID)
	}
	if filter.DayOfWeek != "" {
		query = query.Where("day_of_week = ?", filter.DayOfWeek)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := query.Order("day_of_week, name").Find(&items).Error
	return items, err
}

func (r *menuItemRepo) SetAvailability(ctx context.Context, id uint, available bool) error {
	res := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuItemRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuItemRepo) DeleteByMaker(ctx context.Context, makerID uint) error {
	return r.db.WithContext(ctx).Where("tiffin_maker_id = ?", makerID).Delete(&models.MenuItem{}).Error
}

func (r *menuItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, err
}
