package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/plan"
	"resume-builder/internal/testutil"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportFixture struct {
	store    *testutil.Store
	renderer *testutil.Renderer
	enhancer *testutil.Enhancer
	svc      *usecase.ExportService
	owner    uuid.UUID
}

func newExportFixture() *exportFixture {
	f := &exportFixture{
		store:    testutil.NewStore(),
		renderer: testutil.NewRenderer(),
		enhancer: &testutil.Enhancer{},
		owner:    uuid.New(),
	}
	f.svc = usecase.NewExportService(f.store.Resumes(), f.store.Subscriptions(), plan.Default(), f.renderer, f.enhancer)
	return f
}

func (f *exportFixture) export(r domain.Resume, ai bool) (*usecase.ExportResult, error) {
	return f.svc.Export(context.Background(), f.owner, usecase.ExportInput{ResumeID: r.ID.String(), AIEnhanced: ai})
}

func TestExportStarterFresher(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentStarter, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateFresher)

	res, err := f.export(r, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(res.PDF), "%PDF"))
	assert.Equal(t, "asha-rao-fresher.pdf", res.Filename)
	assert.Equal(t, 1, res.Subscription.TotalDownloads)
	assert.Equal(t, 0, res.Subscription.AIDownloadsUsed)
	require.Equal(t, 1, f.renderer.Calls())
	assert.Contains(t, f.renderer.HTMLs[0], "Asha Rao")
	assert.Empty(t, f.enhancer.Sections)
}

func TestExportDeniedTemplateSuggestsPro(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentStarter, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateTechnical)

	_, err := f.export(r, false)
	var denied *usecase.DeniedError
	require.True(t, errors.As(err, &denied))
	assert.True(t, denied.Eligibility.RedirectToPayment)
	assert.Equal(t, domain.PlanStudentPro, denied.Eligibility.SuggestedPlan)
	assert.ErrorIs(t, err, apperrors.ErrEntitlementDenied)
	assert.Equal(t, 0, f.renderer.Calls())
	assert.Equal(t, 0, f.store.Subscription(f.owner).TotalDownloads)
}

func TestExportWithoutSubscription(t *testing.T) {
	f := newExportFixture()
	r := f.store.SeedResume(f.owner, domain.TemplateFresher)

	_, err := f.export(r, false)
	var denied *usecase.DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, usecase.ReasonNoSubscription, denied.Eligibility.Reason)
	assert.Equal(t, 403, apperrors.From(err).HTTPCode)
}

func TestExportAIQuota(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentStarter, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateFresher)

	res, err := f.export(r, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Subscription.AIDownloadsUsed)
	assert.Equal(t, model.EnhanceableSections, f.enhancer.Sections)
	assert.Contains(t, f.renderer.HTMLs[0], "Enhanced: ")

	_, err = f.export(r, true)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExhausted)
	assert.Equal(t, 1, f.store.Subscription(f.owner).AIDownloadsUsed)

	// plain downloads are unaffected by the AI quota
	res, err = f.export(r, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Subscription.TotalDownloads)
}

func TestExportRequiresPaymentIsAPlainDownload(t *testing.T) {
	for _, pt := range []domain.PlanType{domain.PlanStudentBasic, domain.PlanStudentStarter} {
		t.Run(string(pt), func(t *testing.T) {
			f := newExportFixture()
			f.store.PutSubscription(testutil.ActiveSubscription(f.owner, pt, 0))
			r := f.store.SeedResume(f.owner, domain.TemplateFresher)

			res, err := f.svc.Export(context.Background(), f.owner, usecase.ExportInput{ResumeID: r.ID.String(), RequiresPayment: true})
			require.NoError(t, err)
			assert.Equal(t, 0, res.Subscription.AIDownloadsUsed)
			assert.Equal(t, 1, res.Subscription.TotalDownloads)
			assert.Empty(t, f.enhancer.Sections)
		})
	}
}

func TestExportChargesNewPlanWhenUpgradedMidExport(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentStarter, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateFresher)

	f.renderer.Before = func() {
		f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 0))
	}

	res, err := f.export(r, true)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStudentPro, res.Subscription.PlanType)
	assert.Equal(t, 1, res.Subscription.AIDownloadsUsed)
	assert.Equal(t, 1, res.Subscription.TotalDownloads)
}

// refusingSubs refuses every charge while reporting the subscription as
// usable.
type refusingSubs struct {
	usecase.SubscriptionRepo
	calls int
}

func (r *refusingSubs) Consume(ctx context.Context, req usecase.ConsumeRequest) (*domain.Subscription, error) {
	r.calls++
	return nil, domain.ErrConsumeRejected
}

func TestExportRepeatedRefusalIsConflict(t *testing.T) {
	store := testutil.NewStore()
	owner := uuid.New()
	store.PutSubscription(testutil.ActiveSubscription(owner, domain.PlanStudentPro, 0))
	r := store.SeedResume(owner, domain.TemplateTechnical)
	subs := &refusingSubs{SubscriptionRepo: store.Subscriptions()}
	svc := usecase.NewExportService(store.Resumes(), subs, plan.Default(), testutil.NewRenderer(), &testutil.Enhancer{})

	_, err := svc.Export(context.Background(), owner, usecase.ExportInput{ResumeID: r.ID.String()})
	assert.ErrorIs(t, err, apperrors.ErrDownloadConflict)
	assert.Equal(t, 409, apperrors.From(err).HTTPCode)
	assert.Equal(t, 2, subs.calls)

	var denied *usecase.DeniedError
	assert.False(t, errors.As(err, &denied))
}

func TestExportLostRaceDoesNotCharge(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 9))
	r := f.store.SeedResume(f.owner, domain.TemplateTechnical)

	// a concurrent export takes the last AI download while this one renders
	f.renderer.Before = func() {
		f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 10))
	}

	_, err := f.export(r, true)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExhausted)
	assert.Equal(t, 10, f.store.Subscription(f.owner).AIDownloadsUsed)
	assert.Equal(t, 0, f.store.Subscription(f.owner).TotalDownloads)
}

func TestExportRenderFailureDoesNotCharge(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateCorporate)
	f.renderer.Err = errors.New("chrome crashed")

	_, err := f.export(r, true)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.From(err).HTTPCode)
	assert.Equal(t, 0, f.store.Subscription(f.owner).AIDownloadsUsed)
}

func TestExportAIFailureIsUpstream(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateGeneral)
	f.enhancer.Err = errors.New("dial tcp: connection refused")

	_, err := f.export(r, true)
	require.Error(t, err)
	assert.Equal(t, 503, apperrors.From(err).HTTPCode)
	assert.Equal(t, 0, f.renderer.Calls())
}

func TestExportIncompletePersonalDetails(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 0))
	r := f.store.SeedResume(f.owner, domain.TemplateGeneral)
	d := testutil.SampleResume()
	d.PersonalInfo.Email = ""
	r.Content, _ = d.Encode()
	require.NoError(t, f.store.Resumes().Update(context.Background(), &r))

	_, err := f.export(r, false)
	ae := apperrors.From(err)
	assert.Equal(t, 400, ae.HTTPCode)
	assert.Equal(t, map[string]interface{}{"step": model.StepPersonal, "missing": []string{"personalInfo.email"}}, ae.Details)
}

func TestExportOtherOwnersResume(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 0))
	r := f.store.SeedResume(uuid.New(), domain.TemplateFresher)

	_, err := f.export(r, false)
	assert.ErrorIs(t, err, apperrors.ErrResumeNotFound)
}

func TestCheckIsReadOnly(t *testing.T) {
	f := newExportFixture()
	f.store.PutSubscription(testutil.ActiveSubscription(f.owner, domain.PlanStudentPro, 4))
	r := f.store.SeedResume(f.owner, domain.TemplateInternship)

	el, err := f.svc.Check(context.Background(), f.owner, r.ID, true)
	require.NoError(t, err)
	assert.True(t, el.CanDownload)
	require.NotNil(t, el.RemainingAIDownloads)
	assert.Equal(t, 6, *el.RemainingAIDownloads)
	assert.Equal(t, 4, f.store.Subscription(f.owner).AIDownloadsUsed)
	assert.Equal(t, 0, f.renderer.Calls())
}
