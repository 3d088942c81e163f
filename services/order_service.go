package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"home-flavours/models"
	"home-flavours/repository"
	"home-flavours/statemachine"

	"github.com/romana/rlog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PlaceOrderInput struct {
	DeliveryDate        *time.Time
	DeliveryAddress     string
	PaymentMethod       models.PaymentMethod
	SpecialInstructions string
}

type OrderService struct {
	store    *repository.Store
	cart     *CartService
	payments PaymentGateway
	notifier Notifier
	mailer   Mailer
	now      func() time.Time
}

func NewOrderService(store *repository.Store, cart *CartService, payments PaymentGateway, notifier Notifier, mailer Mailer) *OrderService {
	return &OrderService{
		store:    store,
		cart:     cart,
		payments: payments,
		notifier: notifier,
		mailer:   mailer,
		now:      time.Now,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDate(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

// PlaceOrder turns the customer's cart into a pending order. The whole
// checkout is one transaction: if any step fails, no order exists and the
// cart is left as it was.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID uint, in PlaceOrderInput) (*models.Order, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCOD
	}
	if !in.PaymentMethod.Valid() {
		return nil, invalid("payment method must be COD or GPay")
	}
	today := truncateDay(s.now())
	delivery := today
	if in.DeliveryDate != nil {
		delivery = truncateDay(*in.DeliveryDate)
		if delivery.Before(today) {
			return nil, invalid("delivery date cannot be in the past")
		}
	}

	unlock := s.cart.locks.Lock(customerID)
	defer unlock()

	var orderID uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		customer, err := tx.Users.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		address := strings.TrimSpace(in.DeliveryAddress)
		if address == "" {
			address = customer.Address
		}
		if address == "" {
			return invalid("delivery address is required")
		}

		entries, err := tx.Cart.ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrEmptyCart
		}

		order := models.Order{
			CustomerID:          customerID,
			TiffinMakerID:       entries[0].MenuItem.TiffinMakerID,
			OrderDate:           datatypes.Date(today),
			DeliveryDate:        datatypes.Date(delivery),
			PaymentMethod:       in.PaymentMethod,
			Status:              models.StatusPending,
			DeliveryAddress:     address,
			SpecialInstructions: in.SpecialInstructions,
			TotalAmount:         decimal.Zero,
		}
		for _, e := range entries {
			if !e.MenuItem.IsAvailable || (e.MenuItem.TiffinMaker != nil && !e.MenuItem.TiffinMaker.IsActive) {
				return fmt.Errorf("%w: %s", ErrItemUnavailable, e.MenuItem.Name)
			}
			item := models.OrderItem{
				MenuItemID:   e.MenuItemID,
				Quantity:     e.Quantity,
				PricePerUnit: e.MenuItem.Price,
				Name:         e.MenuItem.Name,
			}
			order.Items = append(order.Items, item)
			order.TotalAmount = order.TotalAmount.Add(item.LineTotal())
		}

		if err := tx.Orders.Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.Orders.AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: customerID,
			Note:      "Order placed",
		}); err != nil {
			return err
		}

		if order.PaymentMethod == models.PaymentGPay {
			ref, err := s.payments.CreatePayment(ctx, order.ID, order.TotalAmount)
			if err != nil {
				return err
			}
			if err := tx.Orders.SetPaymentReference(ctx, order.ID, ref); err != nil {
				return err
			}
		}

		if err := tx.Cart.DeleteByCustomer(ctx, customerID); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.store.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	rlog.Infof("Order %d placed by customer %d: %s via %s", order.ID, customerID, order.TotalAmount.StringFixed(2), order.PaymentMethod)

	s.publish(EventOrderPlaced, order)
	if s.mailer != nil && order.Customer.Email != "" {
		subject, body := orderConfirmation(order)
		if err := s.mailer.Send(ctx, order.Customer.Email, subject, body); err != nil {
			rlog.Warnf("Order %d confirmation mail: %v", order.ID, err)
		}
	}
	return order, nil
}

// publish pushes an order event to its customer and its maker
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.notifier == nil {
		return
	}
	event := Event{Type: eventType, Payload: order}
	s.notifier.Notify(order.CustomerID, event)
	if order.TiffinMaker != nil {
		s.notifier.Notify(order.TiffinMaker.UserID, event)
	}
}

// authorize checks that actor may see or act on order
func (s *OrderService) authorize(ctx context.Context, actor Principal, order *models.Order) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleCustomer:
		if order.CustomerID == actor.UserID {
			return nil
		}
	case models.RoleTiffinMaker:
		maker, err := s.store.TiffinMakers.FindByUserID(ctx, actor.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoMakerProfile
		}
		if err != nil {
			return err
		}
		if order.TiffinMakerID != nil && *order.TiffinMakerID == maker.ID {
			return nil
		}
	}
	return ErrForbidden
}

func (s *OrderService) Get(ctx context.Context, actor Principal, id uint) (*models.Order, error) {
	order, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle. The write only lands
// if the order is still in the status it was read in.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Principal, id uint, to models.OrderStatus, note string) (*models.Order, error) {
	if !to.Valid() {
		return nil, invalid("unknown status %q", to)
	}
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := statemachine.CanTransition(from, to, actor.Role); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Orders.UpdateStatus(ctx, id, from, to); err != nil {
			return err
		}
		return tx.Orders.AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  actor.UserID,
			Note:       note,
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rlog.Infof("Order %d: %s -> %s by %s %d", id, from, to, actor.Role, actor.UserID)
	s.publish(EventOrderUpdated, updated)
	return updated, nil
}

func (s *OrderService) Cancel(ctx context.Context, actor Principal, id uint, reason string) (*models.Order, error) {
	if reason == "" {
		reason = "Cancelled by customer"
	}
	return s.UpdateStatus(ctx, actor, id, models.StatusCancelled, reason)
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.store.Orders.List(ctx, repository.OrderFilter{CustomerID: &customerID})
}

// ListForMaker lists the orders of the caller's maker profile
func (s *OrderService) ListForMaker(ctx context.Context, userID uint, status models.OrderStatus, deliveryDate *time.Time) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	maker, err := s.store.TiffinMakers.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoMakerProfile
	}
	if err != nil {
		return nil, err
	}
	filter := repository.OrderFilter{TiffinMakerID: &maker.ID, Status: status}
	if deliveryDate != nil {
		d := truncateDay(*deliveryDate)
		filter.DeliveryDate = &d
	}
	return s.store.Orders.List(ctx, filter)
}

func (s *OrderService) ListAll(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown status %q", filter.Status)
	}
	return s.store.Orders.List(ctx, filter)
}
