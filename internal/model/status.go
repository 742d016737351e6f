package model

import "github.com/pkg/errors"

var ErrInvalidTransition = errors.New("invalid order status transition")

// OrderStatus tracks the lifecycle of an order. Transitions only move
// forward; Completed, Rejected and Canceled are terminal.
type OrderStatus uint8

const (
	StatusCreated OrderStatus = iota
	StatusSubmitted
	StatusPending
	StatusPartial
	StatusCompleted
	StatusRejected
	StatusCanceled
)

func (s OrderStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusSubmitted:
		return "submitted"
	case StatusPending:
		return "pending"
	case StatusPartial:
		return "partial"
	case StatusCompleted:
		return "completed"
	case StatusRejected:
		return "rejected"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCanceled:
		return true
	default:
		return false
	}
}

// Open reports whether an order in this status still counts as open.
func (s OrderStatus) Open() bool {
	switch s {
	case StatusCreated, StatusSubmitted, StatusPending, StatusPartial:
		return true
	default:
		return false
	}
}

func (s OrderStatus) rank() int {
	switch s {
	case StatusCreated:
		return 0
	case StatusSubmitted:
		return 1
	case StatusPending:
		return 2
	case StatusPartial:
		return 3
	case StatusCompleted, StatusRejected, StatusCanceled:
		return 4
	default:
		return -1
	}
}

// CanTransition reports whether moving from s to next is a legal forward
// step. Repeated partial fills keep an order in Partial, so that one
// same-state step is allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if s == StatusPartial && next == StatusPartial {
		return true
	}
	sr, nr := s.rank(), next.rank()
	return sr >= 0 && nr >= 0 && nr > sr
}
