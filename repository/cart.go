package repository

import (
	"context"

	"home-flavours/models"

	"gorm.io/gorm"
)

type CartRepository interface {
	Find(ctx context.Context, customerID, menuItemID uint) (*models.CartEntry, error)
	Create(ctx context.Context, entry *models.CartEntry) error
	// Increment adds n to an entry's quantity in a single UPDATE
	Increment(ctx context.Context, id uint, n int) error
	SetQuantity(ctx context.Context, customerID, id uint, quantity int) error
	ListByCustomer(ctx context.Context, customerID uint) ([]models.CartEntry, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
	DeleteEntry(ctx context.Context, customerID, id uint) error
	DeleteByCustomer(ctx context.Context, customerID uint) error
	DeleteByMenuItem(ctx context.Context, menuItemID uint) error
	DeleteByMaker(ctx context.Context, makerID uint) error
	DeleteAll(ctx context.Context) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func (r *cartRepo) Find(ctx context.Context, customerID, menuItemID uint) (*models.CartEntry, error) {
	var entry models.CartEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND menu_item_id = ?", customerID, menuItemID).
		First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *cartRepo) Create(ctx context.Context, entry *models.CartEntry) error {
	return translate(r.db.WithContext(ctx).Omit("MenuItem").Create(entry).Error)
}

func (r *cartRepo) Increment(ctx context.Context, id uint, n int) error {
	res := r.db.WithContext(ctx).Model(&models.CartEntry{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepo) SetQuantity(ctx context.Context, customerID, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartEntry{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepo) ListByCustomer(ctx context.Context, customerID uint) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := r.db.WithContext(ctx).
		Preload("MenuItem.TiffinMaker").
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&entries).Error
	return entries, err
}

func (r *cartRepo) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CartEntry{}).Where("customer_id = ?", customerID).Count(&n).Error
	return n, err
}

func (r *cartRepo) DeleteEntry(ctx context.Context, customerID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", id, customerID).Delete(&models.CartEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepo) DeleteByCustomer(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartEntry{}).Error
}

func (r *cartRepo) DeleteByMenuItem(ctx context.Context, menuItemID uint) error {
	return r.db.WithContext(ctx).Where("menu_item_id = ?", menuItemID).Delete(&models.CartEntry{}).Error
}

func (r *cartRepo) DeleteByMaker(ctx context.Context, makerID uint) error {
	sub := r.db.Model(&models.MenuItem{}).Select("id").Where("tiffin_maker_id = ?", makerID)
	return r.db.WithContext(ctx).Where("menu_item_id IN (?)", sub).Delete(&models.CartEntry{}).Error
}

// DeleteAll empties every cart
func (r *cartRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CartEntry{})
	return res.RowsAffected, res.Error
}
