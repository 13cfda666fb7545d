package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/plan"

	"github.com/google/uuid"
)

type PlanInput struct {
	PlanType string `json:"planType" validate:"required,plantype"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	PlanType  string `json:"planType" validate:"required,plantype"`
}

type OrderResult struct {
	OrderID  string          `json:"orderId"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	KeyID    string          `json:"keyId"`
	PlanType domain.PlanType `json:"planType"`
}

type VerifyResult struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	Subscription *SubscriptionSnapshot `json:"subscription,omitempty"`
}

// SubscriptionSnapshot is the caller-facing view of a subscription with
// the status derived at read time.
type SubscriptionSnapshot struct {
	PlanType             domain.PlanType           `json:"planType"`
	PlanName             string                    `json:"planName,omitempty"`
	Status               domain.SubscriptionStatus `json:"status"`
	ExpiresAt            *time.Time                `json:"expiresAt"`
	AIDownloadsUsed      int                       `json:"aiDownloadsUsed"`
	TotalDownloads       int                       `json:"totalDownloads"`
	RemainingAIDownloads int                       `json:"remainingAiDownloads"`
	Templates            []domain.TemplateKind     `json:"templates"`
}

type SubscriptionService struct {
	subs     SubscriptionRepo
	payments PaymentRepo
	users    UserRepo
	gateway  PaymentGateway
	mailer   Mailer
	catalog  *plan.Catalog
	now      func() time.Time
}

// NewSubscriptionService wires the lifecycle. mailer may be nil.
func NewSubscriptionService(subs SubscriptionRepo, payments PaymentRepo, users UserRepo, gateway PaymentGateway, mailer Mailer, catalog *plan.Catalog) *SubscriptionService {
	return &SubscriptionService{
		subs:     subs,
		payments: payments,
		users:    users,
		gateway:  gateway,
		mailer:   mailer,
		catalog:  catalog,
		now:      time.Now,
	}
}

func (s *SubscriptionService) Current(ctx context.Context, owner uuid.UUID) (*SubscriptionSnapshot, error) {
	sub, err := s.subs.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load subscription: %w", err))
	}
	return s.snapshot(sub), nil
}

// ActivateFree grants the free tier. It is refused while any subscription
// is active, so it can never shorten or downgrade a paid period.
func (s *SubscriptionService) ActivateFree(ctx context.Context, owner uuid.UUID, pt domain.PlanType) (*SubscriptionSnapshot, error) {
	p, err := s.catalog.Get(pt)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"planType": "unknown plan type"})
	}
	if !p.Free {
		return nil, apperrors.ErrPlanNotFree
	}

	now := s.now().UTC()
	sub, err := s.subs.ActivateFree(ctx, owner, p.Type, domain.FreePlanExpiry(now), now)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionActive) {
			return nil, apperrors.ErrSubscriptionAlreadyActive
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("activate free plan: %w", err))
	}
	slog.Info("free plan activated", "user_id", owner, "plan", p.Type)
	return s.snapshot(sub), nil
}

func (s *SubscriptionService) CreateOrder(ctx context.Context, owner uuid.UUID, pt domain.PlanType) (*OrderResult, error) {
	p, err := s.catalog.Get(pt)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"planType": "unknown plan type"})
	}
	if p.Free {
		return nil, apperrors.BadRequest("The free plan does not require payment")
	}

	now := s.now().UTC()
	receipt := fmt.Sprintf("rb_%s_%d", owner.String()[:8], now.Unix())
	orderID, err := s.gateway.CreateOrder(ctx, p.Price, p.Currency, receipt)
	if err != nil {
		slog.Warn("payment order creation failed", "user_id", owner, "plan", p.Type, "error", err)
		return nil, upstreamError("Payment gateway", err)
	}

	order := &domain.PaymentOrder{
		OrderID:   orderID,
		OwnerID:   owner,
		PlanType:  p.Type,
		Amount:    p.Price,
		Currency:  p.Currency,
		Status:    domain.OrderCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.payments.CreateOrder(ctx, order); err != nil {
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("save order: %w", err))
	}

	return &OrderResult{
		OrderID:  orderID,
		Amount:   p.Price,
		Currency: p.Currency,
		KeyID:    s.gateway.KeyID(),
		PlanType: p.Type,
	}, nil
}

// VerifyPayment activates a paid plan once the gateway signature over
// orderId|paymentId checks out. Nothing is written when it does not.
func (s *SubscriptionService) VerifyPayment(ctx context.Context, owner uuid.UUID, in VerifyPaymentInput) (*VerifyResult, error) {
	if !s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		slog.Warn("payment signature rejected", "user_id", owner, "order_id", in.OrderID)
		return nil, apperrors.ErrPaymentSignatureInvalid
	}

	order, err := s.payments.GetOrder(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.BadRequest("Unknown payment order")
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load order: %w", err))
	}
	if order.OwnerID != owner {
		return nil, apperrors.BadRequest("Payment order belongs to another account")
	}
	if order.PlanType != domain.PlanType(in.PlanType) {
		return nil, apperrors.BadRequest("Plan does not match the payment order")
	}
	if order.Status == domain.OrderPaid {
		return s.replay(ctx, owner, order, in.PaymentID)
	}

	p, err := s.catalog.Get(order.PlanType)
	if err != nil {
		return nil, apperrors.BadRequest("Plan is no longer offered")
	}

	now := s.now().UTC()
	sub, err := s.payments.CompletePayment(ctx, PaymentCompletion{
		OrderID:   order.OrderID,
		OwnerID:   owner,
		PaymentID: in.PaymentID,
		PlanType:  p.Type,
		ExpiresAt: now.Add(time.Duration(p.DurationDays) * 24 * time.Hour),
		Now:       now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotPending) {
			// A concurrent verify got there first.
			fresh, gerr := s.payments.GetOrder(ctx, in.OrderID)
			if gerr != nil {
				return nil, apperrors.ErrOperationFailed.WithError(gerr)
			}
			return s.replay(ctx, owner, fresh, in.PaymentID)
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("complete payment: %w", err))
	}
	slog.Info("paid plan activated", "user_id", owner, "plan", p.Type, "order_id", order.OrderID)

	s.sendReceipt(ctx, owner, p, order, in.PaymentID, sub)

	return &VerifyResult{
		Success:      true,
		Message:      "Payment verified and subscription activated",
		Subscription: s.snapshot(sub),
	}, nil
}

// replay answers a verify for an order that is already paid. The same
// payment id is a harmless retry; anything else is rejected.
func (s *SubscriptionService) replay(ctx context.Context, owner uuid.UUID, order *domain.PaymentOrder, paymentID string) (*VerifyResult, error) {
	if order.PaymentID == nil || *order.PaymentID != paymentID {
		return nil, apperrors.BadRequest("Payment order was already completed")
	}
	sub, err := s.subs.GetByOwner(ctx, owner)
	if err != nil {
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load subscription: %w", err))
	}
	return &VerifyResult{
		Success:      true,
		Message:      "Payment already verified",
		Subscription: s.snapshot(sub),
	}, nil
}

func (s *SubscriptionService) sendReceipt(ctx context.Context, owner uuid.UUID, p plan.Plan, order *domain.PaymentOrder, paymentID string, sub *domain.Subscription) {
	if s.mailer == nil {
		return
	}
	u, err := s.users.GetByID(ctx, owner)
	if err != nil {
		slog.Warn("receipt skipped, user lookup failed", "user_id", owner, "error", err)
		return
	}
	r := Receipt{
		To:        u.Email,
		Name:      u.Name,
		PlanName:  p.Name,
		Amount:    order.Amount,
		Currency:  order.Currency,
		OrderID:   order.OrderID,
		PaymentID: paymentID,
	}
	if sub.ExpiresAt != nil {
		r.ExpiresAt = *sub.ExpiresAt
	}
	if err := s.mailer.SendReceipt(ctx, r); err != nil {
		slog.Warn("receipt email failed", "user_id", owner, "order_id", order.OrderID, "error", err)
	}
}

func (s *SubscriptionService) snapshot(sub *domain.Subscription) *SubscriptionSnapshot {
	snap := &SubscriptionSnapshot{
		PlanType:        sub.PlanType,
		Status:          sub.EffectiveStatus(s.now()),
		ExpiresAt:       sub.ExpiresAt,
		AIDownloadsUsed: sub.AIDownloadsUsed,
		TotalDownloads:  sub.TotalDownloads,
		Templates:       []domain.TemplateKind{},
	}
	if p, err := s.catalog.Get(sub.PlanType); err == nil {
		snap.PlanName = p.Name
		snap.Templates = p.Templates
		if rem := p.AIEnhancedDownloads - sub.AIDownloadsUsed; rem > 0 {
			snap.RemainingAIDownloads = rem
		}
	}
	return snap
}
