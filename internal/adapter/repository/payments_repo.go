package repository

import (
	"context"
	"fmt"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PaymentsRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentsRepo(pool *pgxpool.Pool) *PaymentsRepo {
	return &PaymentsRepo{pool: pool}
}

const orderColumns = `order_id, owner_id, plan_type, amount, currency, status, payment_id, created_at, updated_at`

func (r *PaymentsRepo) CreateOrder(ctx context.Context, o *domain.PaymentOrder) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_orders (`+orderColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.OrderID, o.OwnerID, string(o.PlanType), o.Amount, o.Currency, string(o.Status), o.PaymentID, o.CreatedAt, o.UpdatedAt)
	return translate(err)
}

func (r *PaymentsRepo) GetOrder(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	var (
		o        domain.PaymentOrder
		planType string
		status   string
	)
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM payment_orders WHERE order_id = $1`, orderID).
		Scan(&o.OrderID, &o.OwnerID, &planType, &o.Amount, &o.Currency, &status, &o.PaymentID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	o.PlanType = domain.PlanType(planType)
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// CompletePayment marks the order paid and starts the subscription period in
// one transaction. Either both happen or neither does.
func (r *PaymentsRepo) CompletePayment(ctx context.Context, c usecase.PaymentCompletion) (*domain.Subscription, error) {
	var sub *domain.Subscription
	err := r.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE payment_orders SET status = 'paid', payment_id = $2, updated_at = $3
			 WHERE order_id = $1 AND owner_id = $4 AND status = 'created'`,
			c.OrderID, c.PaymentID, c.Now, c.OwnerID)
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotPending
		}
		sub, err = upsertPaid(ctx, tx, c)
		if err != nil {
			return fmt.Errorf("activate subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}
