package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := infra.NewPool(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migration.RunMigrations(ctx, pool))
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@test.io", Name: "T", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewUsersRepo(pool).Create(context.Background(), u))
	return u.ID
}

func TestUsersDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	users := NewUsersRepo(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@test.io", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, u))

	dup := *u
	dup.ID = uuid.New()
	assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrDuplicate)

	_, err := users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResumesScopedToOwner(t *testing.T) {
	pool := testPool(t)
	resumes := NewResumesRepo(pool)
	ctx := context.Background()
	owner, other := seedUser(t, pool), seedUser(t, pool)
	now := time.Now().UTC()

	r := &domain.Resume{ID: uuid.New(), OwnerID: owner, Title: "CV", Template: domain.TemplateTechnical,
		Content: []byte(`{"personalInfo":{"fullName":"A"}}`), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, resumes.Create(ctx, r))

	got, err := resumes.Get(ctx, owner, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateTechnical, got.Template)
	assert.JSONEq(t, string(r.Content), string(got.Content))

	_, err = resumes.Get(ctx, other, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, resumes.Delete(ctx, other, r.ID), domain.ErrNotFound)
	require.NoError(t, resumes.Delete(ctx, owner, r.ID))
}

func TestActivateFreeAndConsume(t *testing.T) {
	pool := testPool(t)
	subs := NewSubscriptionsRepo(pool)
	ctx := context.Background()
	owner := seedUser(t, pool)
	now := time.Now().UTC()

	sub, err := subs.ActivateFree(ctx, owner, domain.PlanStudentBasic, domain.FreePlanExpiry(now), now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, sub.Status)

	_, err = subs.ActivateFree(ctx, owner, domain.PlanStudentBasic, domain.FreePlanExpiry(now), now)
	assert.ErrorIs(t, err, domain.ErrSubscriptionActive)

	sub, err = subs.Consume(ctx, usecase.ConsumeRequest{OwnerID: owner, PlanType: domain.PlanStudentBasic, Now: now})
	require.NoError(t, err)
	assert.Equal(t, 1, sub.TotalDownloads)

	_, err = subs.Consume(ctx, usecase.ConsumeRequest{OwnerID: owner, PlanType: domain.PlanStudentBasic, AI: true, AIQuota: 0, Now: now})
	assert.ErrorIs(t, err, domain.ErrConsumeRejected)

	_, err = subs.Consume(ctx, usecase.ConsumeRequest{OwnerID: owner, PlanType: domain.PlanStudentPro, Now: now})
	assert.ErrorIs(t, err, domain.ErrConsumeRejected)
}

func TestCompletePaymentOnce(t *testing.T) {
	pool := testPool(t)
	payments := NewPaymentsRepo(pool)
	ctx := context.Background()
	owner := seedUser(t, pool)
	now := time.Now().UTC()

	o := &domain.PaymentOrder{OrderID: "order_" + uuid.NewString(), OwnerID: owner, PlanType: domain.PlanStudentPro,
		Amount: 29900, Currency: "INR", Status: domain.OrderCreated, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, payments.CreateOrder(ctx, o))

	c := usecase.PaymentCompletion{OrderID: o.OrderID, OwnerID: owner, PaymentID: "pay_1",
		PlanType: domain.PlanStudentPro, ExpiresAt: now.Add(domain.PaidPlanPeriod), Now: now}
	sub, err := payments.CompletePayment(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStudentPro, sub.PlanType)
	require.NotNil(t, sub.PaymentRef)
	assert.Equal(t, "pay_1", *sub.PaymentRef)

	_, err = payments.CompletePayment(ctx, c)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)

	stored, err := payments.GetOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, stored.Status)
}
