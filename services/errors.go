package services

import (
	"errors"
	"fmt"

	"home-flavours/repository"
	"home-flavours/statemachine"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrConflict          = repository.ErrConflict
	ErrInvalidTransition = statemachine.ErrInvalidTransition

	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateAccount   = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("session expired or invalid")
	ErrForbidden          = errors.New("access denied")

	ErrUnknownDay         = errors.New("unknown day of week")
	ErrNotInCatalog       = errors.New("item is not on the weekly menu")
	ErrNoMakerProfile     = errors.New("no tiffin maker profile for this account")
	ErrMakerProfileExists = errors.New("tiffin maker profile already exists")
	ErrMenuItemInUse      = errors.New("menu item appears in past orders; mark it unavailable instead")
	ErrItemUnavailable    = errors.New("menu item is not available")

	ErrCartEntryNotFound = errors.New("cart entry not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMixedMakers       = errors.New("cart already holds items from another tiffin maker")
	ErrHasOrders         = errors.New("record has orders and cannot be deleted")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
