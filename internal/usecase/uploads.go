package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/domain"
	"resume-builder/pkg/parser"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var resumeFileTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var photoTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ParseInput struct {
	Filename string
	Data     []byte
	Template string
	Title    string
}

type ParseResult struct {
	Resume     *ResumeView     `json:"resume"`
	Confidence float64         `json:"confidence"`
	Extracted  map[string]bool `json:"extracted"`
	SourceURL  string          `json:"sourceUrl,omitempty"`
}

type UploadService struct {
	resumes       ResumeRepo
	parser        ResumeParser
	store         ObjectStore
	maxBytes      int64
	maxPhotoBytes int64
	now           func() time.Time
}

// NewUploadService wires uploads. parser and store may be nil: parsing then
// fails as an unavailable upstream, originals are not kept, and photo
// uploads are refused.
func NewUploadService(resumes ResumeRepo, p ResumeParser, store ObjectStore, maxBytes, maxPhotoBytes int64) *UploadService {
	return &UploadService{
		resumes:       resumes,
		parser:        p,
		store:         store,
		maxBytes:      maxBytes,
		maxPhotoBytes: maxPhotoBytes,
		now:           time.Now,
	}
}

// Parse extracts ResumeData from an uploaded document and saves it as a new
// résumé.
func (s *UploadService) Parse(ctx context.Context, owner uuid.UUID, in ParseInput) (*ParseResult, error) {
	if len(in.Data) == 0 {
		return nil, apperrors.BadRequest("File is empty")
	}
	if int64(len(in.Data)) > s.maxBytes {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxBytes": s.maxBytes})
	}
	mt := mimetype.Detect(in.Data)
	if !matches(mt, resumeFileTypes) {
		return nil, apperrors.ErrUnsupportedFileType.WithDetails(map[string]string{"detected": mt.String(), "allowed": "PDF, DOC, DOCX"})
	}

	tmpl := domain.TemplateFresher
	if strings.TrimSpace(in.Template) != "" {
		t, err := domain.ParseTemplateKind(in.Template)
		if err != nil {
			return nil, apperrors.ErrUnknownTemplate.WithDetails(map[string]string{"template": in.Template})
		}
		tmpl = t
	}

	if s.parser == nil {
		return nil, apperrors.Upstream("Resume parser", 0, errors.New("parser not configured"))
	}

	res, err := s.parser.Parse(ctx, parser.Document{
		Filename:    path.Base(in.Filename),
		ContentType: mt.String(),
		Data:        in.Data,
	})
	if err != nil {
		slog.Warn("resume parse failed", "user_id", owner, "error", err)
		return nil, upstreamError("Resume parser", err)
	}

	content, err := res.Data.Encode()
	if err != nil {
		return nil, apperrors.ErrOperationFailed.WithError(err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" && res.Data.PersonalInfo.FullName != "" {
		title = res.Data.PersonalInfo.FullName + " (imported)"
	}
	if title == "" {
		title = strings.TrimSuffix(path.Base(in.Filename), path.Ext(in.Filename))
	}

	now := s.now().UTC()
	r := &domain.Resume{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     titleOrDefault(title),
		Template:  tmpl,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.resumes.Create(ctx, r); err != nil {
		return nil, apperrors.ErrOperationFailed.WithError(fmt.Errorf("save parsed resume: %w", err))
	}

	// the original is kept only once it backs a saved résumé
	var sourceURL string
	if s.store != nil {
		key := fmt.Sprintf("uploads/%s/%s%s", owner, uuid.NewString(), mt.Extension())
		url, err := s.store.Put(ctx, key, mt.String(), bytes.NewReader(in.Data))
		if err != nil {
			slog.Warn("storing original upload failed", "user_id", owner, "error", err)
		} else {
			sourceURL = url
		}
	}

	return &ParseResult{
		Resume:     view(r),
		Confidence: res.Confidence,
		Extracted:  res.Extracted,
		SourceURL:  sourceURL,
	}, nil
}

// UploadPhoto stores a profile photo and returns its public URL.
func (s *UploadService) UploadPhoto(ctx context.Context, owner uuid.UUID, data []byte) (string, error) {
	if s.store == nil {
		return "", apperrors.ErrStorageUnavailable
	}
	if len(data) == 0 {
		return "", apperrors.BadRequest("File is empty")
	}
	if int64(len(data)) > s.maxPhotoBytes {
		return "", apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxBytes": s.maxPhotoBytes})
	}
	mt := mimetype.Detect(data)
	if !matches(mt, photoTypes) {
		return "", apperrors.ErrUnsupportedFileType.WithDetails(map[string]string{"detected": mt.String(), "allowed": "JPEG, PNG, WEBP"})
	}

	key := fmt.Sprintf("photos/%s/%s%s", owner, uuid.NewString(), mt.Extension())
	url, err := s.store.Put(ctx, key, mt.String(), bytes.NewReader(data))
	if err != nil {
		return "", upstreamError("File storage", err)
	}
	return url, nil
}

func matches(mt *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if mt.Is(a) {
			return true
		}
	}
	return false
}
