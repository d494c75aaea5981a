package models

import "fmt"

type OrderKind string

const (
	KindDining OrderKind = "dining"
	KindParcel OrderKind = "parcel"
	KindOnline OrderKind = "online"
)

type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "User"
	PrincipalAdmin PrincipalKind = "AdminUser"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusInProgress OrderStatus = "in-progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusFailed     OrderStatus = "failed"
)

// statusNext is the order state machine. Completed and cancelled are
// terminal; failed may recover when a late gateway settlement lands.
var statusNext = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusFailed},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusFailed},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusFailed},
	StatusFailed:     {StatusPending, StatusConfirmed},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

var paymentNext = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentFailed:    {PaymentPending, PaymentCompleted},
	PaymentCompleted: {},
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// CanTransition reports whether the state machine permits moving from one
// status to another. Equal values are always permitted (no-op).
func CanTransition(from, to OrderStatus) bool {
	if to == "" || to == from {
		return true
	}
	return contains(statusNext[from], to)
}

// Transition applies a status and/or payment-status change after validating
// it against the state machine. Pass the zero value to leave a field as-is;
// repeating the current value is a no-op. This is the only place order state
// moves, so every call site gets the same legality rules.
func Transition(o *Order, status OrderStatus, payment PaymentStatus) error {
	newStatus := o.Status
	if status != "" && status != o.Status {
		if !contains(statusNext[o.Status], status) {
			return fmt.Errorf("illegal status transition %s -> %s", o.Status, status)
		}
		newStatus = status
	}

	newPayment := o.PaymentStatus
	if payment != "" && payment != o.PaymentStatus {
		if !contains(paymentNext[o.PaymentStatus], payment) {
			return fmt.Errorf("illegal payment transition %s -> %s", o.PaymentStatus, payment)
		}
		newPayment = payment
	}

	// A delivered-and-settled order cannot carry a failed payment.
	if newStatus == StatusCompleted && newPayment == PaymentFailed {
		return fmt.Errorf("order cannot be completed with failed payment")
	}

	o.Status = newStatus
	o.PaymentStatus = newPayment
	return nil
}

func ValidOrderKind(k OrderKind) bool {
	return k == KindDining || k == KindParcel || k == KindOnline
}

func ValidPrincipalKind(k PrincipalKind) bool {
	return k == PrincipalUser || k == PrincipalAdmin
}
