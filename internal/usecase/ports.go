package usecase

import (
	"context"
	"io"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/pkg/parser"

	"github.com/google/uuid"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ResumeRepo scopes every lookup to the owner; a résumé owned by someone
// else is reported as domain.ErrNotFound.
type ResumeRepo interface {
	Create(ctx context.Context, r *domain.Resume) error
	Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Resume, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Resume, error)
	Update(ctx context.Context, r *domain.Resume) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ConsumeRequest describes one successful download to be charged against a
// subscription. The store applies it only if the subscription still matches.
type ConsumeRequest struct {
	OwnerID  uuid.UUID
	PlanType domain.PlanType
	AI       bool
	AIQuota  int
	Now      time.Time
}

type SubscriptionRepo interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Subscription, error)
	// ActivateFree upserts a free subscription unless the owner holds one
	// that is active and unexpired at now, in which case it returns
	// domain.ErrSubscriptionActive and changes nothing.
	ActivateFree(ctx context.Context, ownerID uuid.UUID, planType domain.PlanType, expiresAt, now time.Time) (*domain.Subscription, error)
	// Consume increments the counters in one conditional write, returning
	// domain.ErrConsumeRejected when the subscription no longer qualifies.
	Consume(ctx context.Context, req ConsumeRequest) (*domain.Subscription, error)
}

// PaymentCompletion is applied atomically: the order moves from created to
// paid and the subscription is upserted for the new period.
type PaymentCompletion struct {
	OrderID   string
	OwnerID   uuid.UUID
	PaymentID string
	PlanType  domain.PlanType
	ExpiresAt time.Time
	Now       time.Time
}

type PaymentRepo interface {
	CreateOrder(ctx context.Context, o *domain.PaymentOrder) error
	GetOrder(ctx context.Context, orderID string) (*domain.PaymentOrder, error)
	// CompletePayment returns domain.ErrOrderNotPending if the order was
	// already paid.
	CompletePayment(ctx context.Context, c PaymentCompletion) (*domain.Subscription, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// Renderer converts a complete HTML document into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Enhancer rewrites one section of d in place.
type Enhancer interface {
	Enhance(ctx context.Context, section model.Section, d *model.ResumeData) error
}

type ResumeParser interface {
	Parse(ctx context.Context, doc parser.Document) (*parser.Result, error)
}

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type Receipt struct {
	To        string
	Name      string
	PlanName  string
	Amount    int64
	Currency  string
	OrderID   string
	PaymentID string
	ExpiresAt time.Time
}

type Mailer interface {
	SendReceipt(ctx context.Context, r Receipt) error
}
