package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"home-flavours/models"
	"home-flavours/repository"

	"github.com/romana/rlog"
)

type MakerProfileInput struct {
	BusinessName     string
	Location         string
	CuisineSpecialty string
	Rating           *float64
}

type MakerProfileUpdate struct {
	BusinessName     *string
	Location         *string
	CuisineSpecialty *string
}

// MakerService manages tiffin maker profiles
type MakerService struct {
	store *repository.Store
}

func NewMakerService(store *repository.Store) *MakerService {
	return &MakerService{store: store}
}

// CreateProfile opens a maker profile for a tiffin_maker user. At most
// one profile exists per user.
func (s *MakerService) CreateProfile(ctx context.Context, userID uint, in MakerProfileInput) (*models.TiffinMaker, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	if user.Role != models.RoleTiffinMaker {
		return nil, invalid("user %q is not a tiffin maker", user.Username)
	}
	if strings.TrimSpace(in.BusinessName) == "" || strings.TrimSpace(in.Location) == "" {
		return nil, invalid("business name and location are required")
	}
	rating := 0.0
	if in.Rating != nil {
		rating = *in.Rating
	}
	if rating < 0 || rating > 5 {
		return nil, invalid("rating must be between 0 and 5")
	}

	if _, err := s.store.TiffinMakers.FindByUserID(ctx, userID); err == nil {
		return nil, ErrMakerProfileExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	maker := models.TiffinMaker{
		UserID:           userID,
		BusinessName:     strings.TrimSpace(in.BusinessName),
		Location:         strings.TrimSpace(in.Location),
		CuisineSpecialty: in.CuisineSpecialty,
		Rating:           rating,
		IsActive:         true,
	}
	if err := s.store.TiffinMakers.Create(ctx, &maker); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMakerProfileExists
		}
		return nil, err
	}
	rlog.Infof("Tiffin maker %q created for user %d", maker.BusinessName, userID)
	return &maker, nil
}

// Profile returns the maker profile owned by userID
func (s *MakerService) Profile(ctx context.Context, userID uint) (*models.TiffinMaker, error) {
	maker, err := s.store.TiffinMakers.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoMakerProfile
	}
	return maker, err
}

func (s *MakerService) UpdateProfile(ctx context.Context, userID uint, in MakerProfileUpdate) (*models.TiffinMaker, error) {
	maker, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.BusinessName != nil {
		if strings.TrimSpace(*in.BusinessName) == "" {
			return nil, invalid("business name cannot be empty")
		}
		maker.BusinessName = strings.TrimSpace(*in.BusinessName)
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return nil, invalid("location cannot be empty")
		}
		maker.Location = strings.TrimSpace(*in.Location)
	}
	if in.CuisineSpecialty != nil {
		maker.CuisineSpecialty = *in.CuisineSpecialty
	}
	if err := s.store.TiffinMakers.Save(ctx, maker); err != nil {
		return nil, err
	}
	return maker, nil
}

// ListActive returns the makers customers can order from
func (s *MakerService) ListActive(ctx context.Context) ([]models.TiffinMaker, error) {
	return s.store.TiffinMakers.List(ctx, true)
}

func (s *MakerService) ListAll(ctx context.Context) ([]models.TiffinMaker, error) {
	return s.store.TiffinMakers.List(ctx, false)
}

func (s *MakerService) Get(ctx context.Context, id uint) (*models.TiffinMaker, error) {
	return s.store.TiffinMakers.FindByID(ctx, id)
}

func (s *MakerService) SetActive(ctx context.Context, id uint, active bool) error {
	if err := s.store.TiffinMakers.SetActive(ctx, id, active); err != nil {
		return err
	}
	rlog.Infof("Tiffin maker %d active=%t", id, active)
	return nil
}

// Delete removes a maker with no order history, along with its menu and
// any cart lines pointing at that menu.
func (s *MakerService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.TiffinMakers.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Orders.Count(ctx, repository.OrderFilter{TiffinMakerID: &id})
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasOrders
		}
		if err := tx.Cart.DeleteByMaker(ctx, id); err != nil {
			return err
		}
		if err := tx.MenuItems.DeleteByMaker(ctx, id); err != nil {
			return err
		}
		return tx.TiffinMakers.Delete(ctx, id)
	})
}
