package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/plan"
	"resume-builder/internal/render"

	"github.com/google/uuid"
)

type ExportInput struct {
	ResumeID        string `json:"resumeId" validate:"required,uuid"`
	RequiresPayment bool   `json:"requiresPayment"`
	AIEnhanced      bool   `json:"aiEnhanced"`
}

// WantsAI reports whether the export should be charged as AI-enhanced.
// requiresPayment only asks for the entitlement check every export runs.
func (in ExportInput) WantsAI() bool {
	return in.AIEnhanced
}

type ExportResult struct {
	PDF          []byte
	Filename     string
	Subscription *domain.Subscription
}

// ExportService runs the download pipeline: check entitlement, render the
// chosen layout, print it to PDF, then charge the download.
type ExportService struct {
	resumes   ResumeRepo
	subs      SubscriptionRepo
	evaluator *Evaluator
	catalog   *plan.Catalog
	renderer  Renderer
	enhancer  Enhancer
	now       func() time.Time
}

// NewExportService wires the pipeline. enhancer may be nil, in which case
// AI-enhanced exports fail as an unavailable upstream.
func NewExportService(resumes ResumeRepo, subs SubscriptionRepo, catalog *plan.Catalog, renderer Renderer, enhancer Enhancer) *ExportService {
	return &ExportService{
		resumes:   resumes,
		subs:      subs,
		evaluator: NewEvaluator(catalog),
		catalog:   catalog,
		renderer:  renderer,
		enhancer:  enhancer,
		now:       time.Now,
	}
}

// Check is the read-only eligibility pre-flight.
func (s *ExportService) Check(ctx context.Context, owner, resumeID uuid.UUID, aiEnhanced bool) (Eligibility, error) {
	r, sub, err := s.load(ctx, owner, resumeID)
	if err != nil {
		return Eligibility{}, err
	}
	return s.evaluator.Evaluate(sub, r.Template, aiEnhanced, s.now()), nil
}

func (s *ExportService) Export(ctx context.Context, owner uuid.UUID, in ExportInput) (*ExportResult, error) {
	id, err := uuid.Parse(in.ResumeID)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"resumeId": "must be a valid id"})
	}
	r, sub, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	ai := in.WantsAI()
	el := s.evaluator.Evaluate(sub, r.Template, ai, s.now())
	if !el.CanDownload {
		return nil, &DeniedError{Eligibility: el}
	}

	d, err := model.Decode(r.Content)
	if err != nil {
		var se *model.SchemaError
		if errors.As(err, &se) {
			return nil, apperrors.Validation(se.Violations)
		}
		return nil, apperrors.BadRequest(err.Error())
	}
	if err := model.RequireExportable(d); err != nil {
		var ie *model.IncompleteError
		if errors.As(err, &ie) {
			return nil, apperrors.BadRequest("Complete the personal details before downloading").
				WithDetails(map[string]interface{}{"step": ie.Step, "missing": ie.Missing})
		}
		return nil, apperrors.BadRequest(err.Error())
	}

	if ai {
		if err := s.enhance(ctx, d); err != nil {
			return nil, err
		}
	}

	html, err := render.HTML(r.Template, d)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTemplate) {
			return nil, apperrors.ErrUnknownTemplate.WithError(err)
		}
		return nil, apperrors.ErrOperationFailed.WithError(err)
	}

	pdf, err := s.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		slog.Error("pdf render failed", "resume_id", r.ID, "template", r.Template, "error", err)
		return nil, apperrors.ErrOperationFailed.WithMessage("Could not generate the PDF, please try again").WithError(err)
	}

	updated, err := s.consume(ctx, owner, sub.PlanType, ai)
	if errors.Is(err, domain.ErrConsumeRejected) {
		updated, err = s.retryConsume(ctx, owner, r.Template, ai)
	}
	if err != nil {
		var ae *apperrors.AppError
		var denied *DeniedError
		if errors.As(err, &denied) || errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("record download: %w", err))
	}

	slog.Info("resume exported", "resume_id", r.ID, "template", r.Template, "ai", ai, "bytes", len(pdf))
	return &ExportResult{PDF: pdf, Filename: filename(r, d), Subscription: updated}, nil
}

func (s *ExportService) enhance(ctx context.Context, d *model.ResumeData) error {
	if s.enhancer == nil {
		return apperrors.Upstream("AI service", 0, errors.New("ai service not configured"))
	}
	for _, sec := range model.EnhanceableSections {
		if err := s.enhancer.Enhance(ctx, sec, d); err != nil {
			slog.Warn("ai enhancement failed", "section", sec, "error", err)
			return upstreamError("AI service", err)
		}
	}
	return nil
}

func (s *ExportService) consume(ctx context.Context, owner uuid.UUID, pt domain.PlanType, ai bool) (*domain.Subscription, error) {
	p, _ := s.catalog.Get(pt)
	return s.subs.Consume(ctx, ConsumeRequest{
		OwnerID:  owner,
		PlanType: pt,
		AI:       ai,
		AIQuota:  p.AIEnhancedDownloads,
		Now:      s.now(),
	})
}

// retryConsume runs after the subscription changed while the PDF was being
// rendered. A refusal is reported with the current reason; a plan that still
// allows the download is charged once more, and a second refusal is a
// conflict the client may retry.
func (s *ExportService) retryConsume(ctx context.Context, owner uuid.UUID, t domain.TemplateKind, ai bool) (*domain.Subscription, error) {
	sub, err := s.subs.GetByOwner(ctx, owner)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.ErrOperationFailed.WithError(err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		sub = nil
	}
	el := s.evaluator.Evaluate(sub, t, ai, s.now())
	if !el.CanDownload {
		return nil, &DeniedError{Eligibility: el}
	}

	updated, err := s.consume(ctx, owner, sub.PlanType, ai)
	if errors.Is(err, domain.ErrConsumeRejected) {
		slog.Warn("download charge refused twice", "user_id", owner, "plan", sub.PlanType)
		return nil, apperrors.ErrDownloadConflict
	}
	return updated, err
}

func (s *ExportService) load(ctx context.Context, owner, id uuid.UUID) (*domain.Resume, *domain.Subscription, error) {
	r, err := s.resumes.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperrors.ErrResumeNotFound
		}
		return nil, nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load resume: %w", err))
	}
	sub, err := s.subs.GetByOwner(ctx, owner)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load subscription: %w", err))
		}
		sub = nil
	}
	return r, sub, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func filename(r *domain.Resume, d *model.ResumeData) string {
	base := d.PersonalInfo.FullName
	if strings.TrimSpace(base) == "" {
		base = r.Title
	}
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" {
		slug = "resume"
	}
	return slug + "-" + string(r.Template) + ".pdf"
}
