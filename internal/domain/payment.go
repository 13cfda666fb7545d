package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
)

// PaymentOrder records a gateway order so verification can check it was
// issued to the same user for the same plan.
type PaymentOrder struct {
	OrderID   string      `json:"orderId"`
	OwnerID   uuid.UUID   `json:"ownerId"`
	PlanType  PlanType    `json:"planType"`
	Amount    int64       `json:"amount"`
	Currency  string      `json:"currency"`
	Status    OrderStatus `json:"status"`
	PaymentID *string     `json:"paymentId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
