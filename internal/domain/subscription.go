package domain

import (
	"time"

	"github.com/google/uuid"
)

type PlanType string

const (
	PlanStudentBasic   PlanType = "student_basic_monthly"
	PlanStudentStarter PlanType = "student_starter_monthly"
	PlanStudentPro     PlanType = "student_pro_monthly"
)

type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusInactive SubscriptionStatus = "inactive"
	StatusExpired  SubscriptionStatus = "expired"
)

// Subscription tracks which plan a user holds and how much of it has been
// consumed. There is at most one row per owner.
type Subscription struct {
	ID              uuid.UUID          `json:"id"`
	OwnerID         uuid.UUID          `json:"ownerId"`
	Status          SubscriptionStatus `json:"status"`
	PlanType        PlanType           `json:"planType"`
	ExpiresAt       *time.Time         `json:"expiresAt"`
	PaymentRef      *string            `json:"paymentRef"`
	AIDownloadsUsed int                `json:"aiDownloadsUsed"`
	TotalDownloads  int                `json:"totalDownloads"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// EffectiveStatus derives the status from the stored flag and the expiry.
// A missing expiry means payment is still pending.
func (s *Subscription) EffectiveStatus(now time.Time) SubscriptionStatus {
	if s == nil {
		return StatusInactive
	}
	if s.Status != StatusActive {
		return s.Status
	}
	if s.ExpiresAt == nil {
		return StatusInactive
	}
	if !s.ExpiresAt.After(now) {
		return StatusExpired
	}
	return StatusActive
}

func (s *Subscription) IsActive(now time.Time) bool {
	return s.EffectiveStatus(now) == StatusActive
}

// FreePlanExpiry is how far out a free activation is dated. The free tier has
// no real end; a null expiry is reserved for pending payments.
func FreePlanExpiry(now time.Time) time.Time {
	return now.AddDate(100, 0, 0)
}

const PaidPlanPeriod = 30 * 24 * time.Hour
