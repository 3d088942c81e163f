package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"home-flavours/models"
)

// ErrInvalidTransition is wrapped by every rejection from CanTransition
var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

// validTransitions is the authoritative state machine definition.
// Admins may perform any step a tiffin maker can.
var validTransitions = []Transition{
	// Maker confirms the order
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: models.RoleTiffinMaker},
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: models.RoleAdmin},
	// Anyone involved can cancel a pending order
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleTiffinMaker},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleAdmin},
	// Cooking starts, or the confirmed order is still cancellable
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: models.RoleTiffinMaker},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: models.RoleAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleTiffinMaker},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleAdmin},
	// Tiffin leaves the kitchen
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: models.RoleTiffinMaker},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: models.RoleAdmin},
	// Delivered to the customer
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleTiffinMaker},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for %s; valid transitions from %s are: %s",
		ErrInvalidTransition, from, to, actor, from, describeValidFrom(from))
}

// IsTerminal reports whether no transition leaves status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
