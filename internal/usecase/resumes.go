package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

type SaveResumeInput struct {
	Title    string          `json:"title" validate:"max=200"`
	Template string          `json:"template" validate:"required,template"`
	Content  json.RawMessage `json:"content"`
}

// ResumeView is a stored résumé together with its builder progress.
type ResumeView struct {
	domain.Resume
	Progress model.Progress `json:"progress"`
}

type ResumeService struct {
	repo ResumeRepo
	now  func() time.Time
}

func NewResumeService(repo ResumeRepo) *ResumeService {
	return &ResumeService{repo: repo, now: time.Now}
}

func (s *ResumeService) Create(ctx context.Context, owner uuid.UUID, in SaveResumeInput) (*ResumeView, error) {
	tmpl, content, err := checkResumeInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	r := &domain.Resume{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     titleOrDefault(in.Title),
		Template:  tmpl,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("create resume: %w", err))
	}
	return view(r), nil
}

func (s *ResumeService) Get(ctx context.Context, owner, id uuid.UUID) (*ResumeView, error) {
	r, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return view(r), nil
}

func (s *ResumeService) List(ctx context.Context, owner uuid.UUID) ([]domain.Resume, error) {
	list, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("list resumes: %w", err))
	}
	if list == nil {
		list = []domain.Resume{}
	}
	return list, nil
}

// Update replaces title, template and content; content is stored verbatim.
func (s *ResumeService) Update(ctx context.Context, owner, id uuid.UUID, in SaveResumeInput) (*ResumeView, error) {
	tmpl, content, err := checkResumeInput(in)
	if err != nil {
		return nil, err
	}
	r, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) != "" {
		r.Title = strings.TrimSpace(in.Title)
	}
	r.Template = tmpl
	r.Content = content
	r.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrResumeNotFound
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("update resume: %w", err))
	}
	return view(r), nil
}

func (s *ResumeService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.ErrResumeNotFound
		}
		return apperrors.ErrOperationFailed.WithError(fmt.Errorf("delete resume: %w", err))
	}
	return nil
}

func (s *ResumeService) load(ctx context.Context, owner, id uuid.UUID) (*domain.Resume, error) {
	r, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrResumeNotFound
		}
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("load resume: %w", err))
	}
	return r, nil
}

func checkResumeInput(in SaveResumeInput) (domain.TemplateKind, json.RawMessage, error) {
	tmpl, err := domain.ParseTemplateKind(in.Template)
	if err != nil {
		return "", nil, apperrors.ErrUnknownTemplate.WithDetails(map[string]string{"template": in.Template})
	}

	content := in.Content
	if len(content) == 0 || string(content) == "null" {
		content, _ = model.Empty().Encode()
	}
	if err := model.ValidateJSON(content); err != nil {
		var se *model.SchemaError
		if errors.As(err, &se) {
			return "", nil, apperrors.Validation(se.Violations)
		}
		return "", nil, apperrors.BadRequest(err.Error())
	}
	return tmpl, content, nil
}

func view(r *domain.Resume) *ResumeView {
	d, err := model.Decode(r.Content)
	if err != nil {
		// Stored content that no longer decodes is still returned as-is.
		d = model.Empty()
	}
	return &ResumeView{Resume: *r, Progress: model.Evaluate(d)}
}

func titleOrDefault(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "Untitled resume"
	}
	return t
}
