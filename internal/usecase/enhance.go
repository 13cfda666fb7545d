package usecase

import (
	"context"
	"errors"
	"fmt"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

type EnhanceInput struct {
	Section string `json:"section" validate:"required,oneof=summary experience projects"`
}

type EnhanceResult struct {
	Section model.Section `json:"section"`
	Content interface{}   `json:"content"`
}

// EnhanceService returns an AI-rewritten copy of one section. The stored
// résumé is not modified; the builder decides whether to keep it.
type EnhanceService struct {
	resumes  ResumeRepo
	enhancer Enhancer
}

func NewEnhanceService(resumes ResumeRepo, enhancer Enhancer) *EnhanceService {
	return &EnhanceService{resumes: resumes, enhancer: enhancer}
}

func (s *EnhanceService) Enhance(ctx context.Context, owner, id uuid.UUID, in EnhanceInput) (*EnhanceResult, error) {
	sec, err := model.ParseSection(in.Section)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"section": "must be one of: summary experience projects"})
	}
	if s.enhancer == nil {
		return nil, apperrors.Upstream("AI service", 0, errors.New("ai service not configured"))
	}

	r, err := s.resumes.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrResumeNotFound
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load resume: %w", err))
	}
	d, err := model.Decode(r.Content)
	if err != nil {
		return nil, apperrors.BadRequest("Stored resume content is invalid")
	}

	if err := s.enhancer.Enhance(ctx, sec, d); err != nil {
		return nil, upstreamError("AI service", err)
	}

	out := &EnhanceResult{Section: sec}
	switch sec {
	case model.SectionSummary:
		out.Content = d.ProfessionalSummary
	case model.SectionExperience:
		out.Content = d.Experience
	case model.SectionProjects:
		out.Content = d.Projects
	}
	return out, nil
}
