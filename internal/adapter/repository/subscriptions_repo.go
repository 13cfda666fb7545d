package repository

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type SubscriptionsRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionsRepo(pool *pgxpool.Pool) *SubscriptionsRepo {
	return &SubscriptionsRepo{pool: pool}
}

const subscriptionColumns = `id, owner_id, status, plan_type, expires_at, payment_ref, ai_downloads_used, total_downloads, created_at, updated_at`

func (r *SubscriptionsRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Subscription, error) {
	return scanSubscription(r.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE owner_id = $1`, ownerID))
}

// ActivateFree relies on the conflict clause's WHERE: when the existing row
// is still active nothing is updated and no row comes back.
func (r *SubscriptionsRepo) ActivateFree(ctx context.Context, ownerID uuid.UUID, planType domain.PlanType, expiresAt, now time.Time) (*domain.Subscription, error) {
	sub, err := scanSubscription(r.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (id, owner_id, status, plan_type, expires_at, payment_ref, ai_downloads_used, total_downloads, created_at, updated_at)
		VALUES ($1, $2, 'active', $3, $4, NULL, 0, 0, $5, $5)
		ON CONFLICT (owner_id) DO UPDATE SET
			status = 'active',
			plan_type = EXCLUDED.plan_type,
			expires_at = EXCLUDED.expires_at,
			payment_ref = NULL,
			ai_downloads_used = 0,
			total_downloads = 0,
			updated_at = EXCLUDED.updated_at
		WHERE NOT (subscriptions.status = 'active' AND subscriptions.expires_at IS NOT NULL AND subscriptions.expires_at > $5)
		RETURNING `+subscriptionColumns,
		uuid.New(), ownerID, string(planType), expiresAt, now))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrSubscriptionActive
	}
	return sub, err
}

// Consume charges one download only while the subscription is still the
// one that was evaluated and, for AI exports, still has quota.
func (r *SubscriptionsRepo) Consume(ctx context.Context, req usecase.ConsumeRequest) (*domain.Subscription, error) {
	sub, err := scanSubscription(r.pool.QueryRow(ctx, `
		UPDATE subscriptions SET
			total_downloads = total_downloads + 1,
			ai_downloads_used = ai_downloads_used + CASE WHEN $3::boolean THEN 1 ELSE 0 END,
			updated_at = $5
		WHERE owner_id = $1
			AND plan_type = $2
			AND status = 'active'
			AND expires_at IS NOT NULL AND expires_at > $5
			AND (NOT $3::boolean OR ai_downloads_used < $4)
		RETURNING `+subscriptionColumns,
		req.OwnerID, string(req.PlanType), req.AI, req.AIQuota, req.Now))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrConsumeRejected
	}
	return sub, err
}

// upsertPaid starts a fresh paid period inside tx.
func upsertPaid(ctx context.Context, tx pgx.Tx, c usecase.PaymentCompletion) (*domain.Subscription, error) {
	return scanSubscription(tx.QueryRow(ctx, `
		INSERT INTO subscriptions (id, owner_id, status, plan_type, expires_at, payment_ref, ai_downloads_used, total_downloads, created_at, updated_at)
		VALUES ($1, $2, 'active', $3, $4, $5, 0, 0, $6, $6)
		ON CONFLICT (owner_id) DO UPDATE SET
			status = 'active',
			plan_type = EXCLUDED.plan_type,
			expires_at = EXCLUDED.expires_at,
			payment_ref = EXCLUDED.payment_ref,
			ai_downloads_used = 0,
			total_downloads = 0,
			updated_at = EXCLUDED.updated_at
		RETURNING `+subscriptionColumns,
		uuid.New(), c.OwnerID, string(c.PlanType), c.ExpiresAt, c.PaymentID, c.Now))
}

func scanSubscription(row row) (*domain.Subscription, error) {
	var (
		s        domain.Subscription
		status   string
		planType string
	)
	err := row.Scan(&s.ID, &s.OwnerID, &status, &planType, &s.ExpiresAt, &s.PaymentRef,
		&s.AIDownloadsUsed, &s.TotalDownloads, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	s.Status = domain.SubscriptionStatus(status)
	s.PlanType = domain.PlanType(planType)
	return &s, nil
}
