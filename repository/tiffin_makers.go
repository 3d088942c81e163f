package repository

import (
	"context"

	"home-flavours/models"

	"gorm.io/gorm"
)

type TiffinMakerRepository interface {
	Create(ctx context.Context, maker *models.TiffinMaker) error
	Save(ctx context.Context, maker *models.TiffinMaker) error
	FindByID(ctx context.Context, id uint) (*models.TiffinMaker, error)
	FindByUserID(ctx context.Context, userID uint) (*models.TiffinMaker, error)
	FirstActive(ctx context.Context) (*models.TiffinMaker, error)
	List(ctx context.Context, activeOnly bool) ([]models.TiffinMaker, error)
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	CountActive(ctx context.Context) (int64, error)
}

type tiffinMakerRepo struct{ db *gorm.DB }

func (r *tiffinMakerRepo) Create(ctx context.Context, maker *models.TiffinMaker) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(maker).Error)
}

func (r *tiffinMakerRepo) Save(ctx context.Context, maker *models.TiffinMaker) error {
	return translate(r.db.WithContext(ctx).Omit("User").Save(maker).Error)
}

func (r *tiffinMakerRepo) FindByID(ctx context.Context, id uint) (*models.TiffinMaker, error) {
	var maker models.TiffinMaker
	if err := r.db.WithContext(ctx).Preload("User").First(&maker, id).Error; err != nil {
		return nil, translate(err)
	}
	return &maker, nil
}

func (r *tiffinMakerRepo) FindByUserID(ctx context.Context, userID uint) (*models.TiffinMaker, error) {
	var maker models.TiffinMaker
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&maker).Error; err != nil {
		return nil, translate(err)
	}
	return &maker, nil
}

func (r *tiffinMakerRepo) FirstActive(ctx context.Context) (*models.TiffinMaker, error) {
	var maker models.TiffinMaker
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").First(&maker).Error; err != nil {
		return nil, translate(err)
	}
	return &maker, nil
}

func (r *tiffinMakerRepo) List(ctx context.Context, activeOnly bool) ([]models.TiffinMaker, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var makers []models.TiffinMaker
	err := query.Order("rating desc, id").Find(&makers).Error
	return makers, err
}

func (r *tiffinMakerRepo) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.TiffinMaker{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tiffinMakerRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.TiffinMaker{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tiffinMakerRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.TiffinMaker{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
