package models

import "errors"

// Order types chosen by the customer before browsing the menu.
const (
	OrderTypeDineIn  = "Dine-In"
	OrderTypeTakeOut = "Take-Out"
)

// Order statuses, in the only sequence the workflow allows.
const (
	StatusPending      = "Pending"
	StatusAcknowledged = "Acknowledged"
	StatusServing      = "Serving"
	StatusServed       = "Served"
)

// ErrInvalidTransition is returned when a status update does not name the
// immediate successor of the order's current status.
var ErrInvalidTransition = errors.New("invalid order status transition")

// nextStatus maps each status to its single legal successor. Served is
// terminal and has no entry.
var nextStatus = map[string]string{
	StatusPending:      StatusAcknowledged,
	StatusAcknowledged: StatusServing,
	StatusServing:      StatusServed,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAcknowledged, StatusServing, StatusServed:
		return true
	}
	return false
}

// ValidOrderType reports whether t is a known order type.
func ValidOrderType(t string) bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeOut
}

// CanAdvance checks that requested is the legal successor of current.
// Skipping ahead, moving backwards, and leaving the terminal Served state
// all fail with ErrInvalidTransition.
func CanAdvance(current, requested string) error {
	next, ok := nextStatus[current]
	if !ok || next != requested {
		return ErrInvalidTransition
	}
	return nil
}
