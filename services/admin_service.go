package services

import (
	"context"
	"errors"

	"home-flavours/models"
	"home-flavours/repository"

	"github.com/romana/rlog"
)

// AdminService covers account management reserved for admins
type AdminService struct {
	store *repository.Store
	auth  *AuthService
}

func NewAdminService(store *repository.Store, auth *AuthService) *AdminService {
	return &AdminService{store: store, auth: auth}
}

func (s *AdminService) ListUsers(ctx context.Context, role models.UserRole, search string) ([]models.User, error) {
	if role != "" && !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	return s.store.Users.List(ctx, repository.UserFilter{Role: role, Search: search})
}

func (s *AdminService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.auth.CreateUser(ctx, in)
}

// DeleteUser removes an account with no order history together with its
// cart, sessions and maker profile.
func (s *AdminService) DeleteUser(ctx context.Context, actor Principal, id uint) error {
	if actor.UserID == id {
		return invalid("admins cannot delete their own account")
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Orders.Count(ctx, repository.OrderFilter{CustomerID: &id})
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasOrders
		}
		if maker, err := tx.TiffinMakers.FindByUserID(ctx, id); err == nil {
			n, err := tx.Orders.Count(ctx, repository.OrderFilter{TiffinMakerID: &maker.ID})
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrHasOrders
			}
			if err := tx.Cart.DeleteByMaker(ctx, maker.ID); err != nil {
				return err
			}
			if err := tx.MenuItems.DeleteByMaker(ctx, maker.ID); err != nil {
				return err
			}
			if err := tx.TiffinMakers.Delete(ctx, maker.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.Cart.DeleteByCustomer(ctx, id); err != nil {
			return err
		}
		if err := tx.Sessions.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	rlog.Infof("User %d deleted by admin %d", id, actor.UserID)
	return nil
}
