package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/plan"
	"resume-builder/internal/testutil"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscriptionFixture struct {
	store   *testutil.Store
	gateway *testutil.Gateway
	mailer  *testutil.Mailer
	svc     *usecase.SubscriptionService
	owner   uuid.UUID
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()
	f := &subscriptionFixture{
		store:   testutil.NewStore(),
		gateway: testutil.NewGateway("rzp_secret"),
		mailer:  &testutil.Mailer{},
		owner:   uuid.New(),
	}
	require.NoError(t, f.store.Users().Create(context.Background(), &domain.User{
		ID: f.owner, Email: "asha@example.com", Name: "Asha",
	}))
	f.svc = usecase.NewSubscriptionService(f.store.Subscriptions(), f.store.Payments(), f.store.Users(), f.gateway, f.mailer, plan.Default())
	return f
}

func (f *subscriptionFixture) order(t *testing.T, pt domain.PlanType) *usecase.OrderResult {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), f.owner, pt)
	require.NoError(t, err)
	return o
}

func TestActivateFreeOnce(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	snap, err := f.svc.ActivateFree(ctx, f.owner, domain.PlanStudentBasic)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, snap.Status)
	assert.Equal(t, []domain.TemplateKind{domain.TemplateFresher}, snap.Templates)
	require.NotNil(t, snap.ExpiresAt)
	assert.True(t, snap.ExpiresAt.After(time.Now().AddDate(50, 0, 0)))

	_, err = f.svc.ActivateFree(ctx, f.owner, domain.PlanStudentBasic)
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionAlreadyActive)
}

func TestActivateFreeRefusesPaidPlanAndUnknownPlan(t *testing.T) {
	f := newSubscriptionFixture(t)

	_, err := f.svc.ActivateFree(context.Background(), f.owner, domain.PlanStudentPro)
	assert.ErrorIs(t, err, apperrors.ErrPlanNotFree)

	_, err = f.svc.ActivateFree(context.Background(), f.owner, "gold")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, f.store.Subscription(f.owner))
}

func TestActivateFreeCannotDowngradeActivePaidPlan(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 3))

	_, err := f.svc.ActivateFree(context.Background(), f.owner, domain.PlanStudentBasic)
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionAlreadyActive)
	assert.Equal(t, domain.PlanStudentPro, f.store.Subscription(f.owner).PlanType)
}

func TestActivateFreeAfterExpiry(t *testing.T) {
	f := newSubscriptionFixture(t)
	sub := testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 10)
	past := time.Now().Add(-time.Hour)
	sub.ExpiresAt = &past
	f.store.PutSubscription(sub)

	snap, err := f.svc.ActivateFree(context.Background(), f.owner, domain.PlanStudentBasic)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStudentBasic, snap.PlanType)
	assert.Equal(t, 0, snap.AIDownloadsUsed)
}

func TestCreateOrderUsesCatalogPrice(t *testing.T) {
	f := newSubscriptionFixture(t)

	o := f.order(t, domain.PlanStudentPro)
	assert.Equal(t, int64(29900), o.Amount)
	assert.Equal(t, "INR", o.Currency)
	assert.Equal(t, "rzp_test_key", o.KeyID)

	stored, err := f.store.Payments().GetOrder(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCreated, stored.Status)
	assert.Equal(t, f.owner, stored.OwnerID)

	_, err = f.svc.CreateOrder(context.Background(), f.owner, domain.PlanStudentBasic)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.gateway.Err = errors.New("connection refused")

	_, err := f.svc.CreateOrder(context.Background(), f.owner, domain.PlanStudentStarter)
	require.Error(t, err)
	assert.Equal(t, 503, apperrors.From(err).HTTPCode)
}

func TestVerifyPaymentActivatesPlan(t *testing.T) {
	f := newSubscriptionFixture(t)
	o := f.order(t, domain.PlanStudentPro)

	res, err := f.svc.VerifyPayment(context.Background(), f.owner, usecase.VerifyPaymentInput{
		OrderID:   o.OrderID,
		PaymentID: "pay_1",
		Signature: f.gateway.Sign(o.OrderID, "pay_1"),
		PlanType:  string(domain.PlanStudentPro),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.StatusActive, res.Subscription.Status)
	assert.Equal(t, 10, res.Subscription.RemainingAIDownloads)

	sub := f.store.Subscription(f.owner)
	require.NotNil(t, sub)
	require.NotNil(t, sub.PaymentRef)
	assert.Equal(t, "pay_1", *sub.PaymentRef)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *sub.ExpiresAt, time.Minute)

	require.Len(t, f.mailer.Receipts, 1)
	assert.Equal(t, "asha@example.com", f.mailer.Receipts[0].To)
	assert.Equal(t, int64(29900), f.mailer.Receipts[0].Amount)
}

func TestVerifyPaymentTamperedSignatureChangesNothing(t *testing.T) {
	f := newSubscriptionFixture(t)
	o := f.order(t, domain.PlanStudentPro)
	sig := f.gateway.Sign(o.OrderID, "pay_1")

	for _, in := range []usecase.VerifyPaymentInput{
		{OrderID: o.OrderID, PaymentID: "pay_2", Signature: sig},
		{OrderID: o.OrderID, PaymentID: "pay_1", Signature: flipLast(sig)},
		{OrderID: o.OrderID, PaymentID: "pay_1", Signature: ""},
	} {
		in.PlanType = string(domain.PlanStudentPro)
		_, err := f.svc.VerifyPayment(context.Background(), f.owner, in)
		assert.ErrorIs(t, err, apperrors.ErrPaymentSignatureInvalid)
	}

	assert.Nil(t, f.store.Subscription(f.owner))
	stored, err := f.store.Payments().GetOrder(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCreated, stored.Status)
	assert.Empty(t, f.mailer.Receipts)
}

func flipLast(s string) string {
	if s[len(s)-1] == '0' {
		return s[:len(s)-1] + "1"
	}
	return s[:len(s)-1] + "0"
}

func TestVerifyPaymentRejectsPlanSwap(t *testing.T) {
	f := newSubscriptionFixture(t)
	o := f.order(t, domain.PlanStudentStarter)

	_, err := f.svc.VerifyPayment(context.Background(), f.owner, usecase.VerifyPaymentInput{
		OrderID:   o.OrderID,
		PaymentID: "pay_1",
		Signature: f.gateway.Sign(o.OrderID, "pay_1"),
		PlanType:  string(domain.PlanStudentPro),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, f.store.Subscription(f.owner))
}

func TestVerifyPaymentRejectsOtherOwnersOrder(t *testing.T) {
	f := newSubscriptionFixture(t)
	o := f.order(t, domain.PlanStudentPro)

	_, err := f.svc.VerifyPayment(context.Background(), uuid.New(), usecase.VerifyPaymentInput{
		OrderID:   o.OrderID,
		PaymentID: "pay_1",
		Signature: f.gateway.Sign(o.OrderID, "pay_1"),
		PlanType:  string(domain.PlanStudentPro),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestVerifyPaymentReplay(t *testing.T) {
	f := newSubscriptionFixture(t)
	o := f.order(t, domain.PlanStudentStarter)
	in := usecase.VerifyPaymentInput{
		OrderID:   o.OrderID,
		PaymentID: "pay_1",
		Signature: f.gateway.Sign(o.OrderID, "pay_1"),
		PlanType:  string(domain.PlanStudentStarter),
	}

	_, err := f.svc.VerifyPayment(context.Background(), f.owner, in)
	require.NoError(t, err)
	first := f.store.Subscription(f.owner)

	res, err := f.svc.VerifyPayment(context.Background(), f.owner, in)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Payment already verified", res.Message)
	assert.Equal(t, first.ExpiresAt, f.store.Subscription(f.owner).ExpiresAt)
	assert.Len(t, f.mailer.Receipts, 1)

	other := in
	other.PaymentID = "pay_2"
	other.Signature = f.gateway.Sign(o.OrderID, "pay_2")
	_, err = f.svc.VerifyPayment(context.Background(), f.owner, other)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestVerifyPaymentResetsCounters(t *testing.T) {
	f := newSubscriptionFixture(t)
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentStarter, 1))
	o := f.order(t, domain.PlanStudentPro)

	res, err := f.svc.VerifyPayment(context.Background(), f.owner, usecase.VerifyPaymentInput{
		OrderID:   o.OrderID,
		PaymentID: "pay_9",
		Signature: f.gateway.Sign(o.OrderID, "pay_9"),
		PlanType:  string(domain.PlanStudentPro),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStudentPro, res.Subscription.PlanType)
	assert.Equal(t, 0, res.Subscription.AIDownloadsUsed)
}

func TestCurrentWithoutSubscription(t *testing.T) {
	f := newSubscriptionFixture(t)
	_, err := f.svc.Current(context.Background(), f.owner)
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
}
