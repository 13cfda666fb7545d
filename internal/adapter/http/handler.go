package http

import (
	"context"
	"io"
	"mime/multipart"

	"resume-builder/internal/apperrors"
	"resume-builder/internal/plan"
	"resume-builder/internal/usecase"
	"resume-builder/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Limiter counts requests per key; nil disables rate limiting.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Services struct {
	Auth          *usecase.AuthService
	Resumes       *usecase.ResumeService
	Subscriptions *usecase.SubscriptionService
	Export        *usecase.ExportService
	Enhance       *usecase.EnhanceService
	Uploads       *usecase.UploadService
	Catalog       *plan.Catalog
	Validator     *validator.Validator
	Limiter       Limiter
}

type Handler struct {
	Services
}

func NewHandler(s Services) *Handler {
	return &Handler{Services: s}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) Plans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": h.Catalog.All()})
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var in usecase.RegisterInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	res, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var in usecase.LoginInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	res, err := h.Auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	u, err := h.Auth.Me(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *Handler) ListResumes(c *fiber.Ctx) error {
	list, err := h.Resumes.List(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"resumes": list})
}

func (h *Handler) CreateResume(c *fiber.Ctx) error {
	var in usecase.SaveResumeInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	v, err := h.Resumes.Create(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(v)
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	v, err := h.Resumes.Get(c.UserContext(), userID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *Handler) UpdateResume(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	var in usecase.SaveResumeInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	v, err := h.Resumes.Update(c.UserContext(), userID(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (h *Handler) DeleteResume(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	if err := h.Resumes.Delete(c.UserContext(), userID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckExport answers 200 whether or not the download is allowed.
func (h *Handler) CheckExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Query("resumeId"))
	if err != nil {
		return apperrors.Validation(map[string]string{"resumeId": "must be a valid id"})
	}
	el, err := h.Export.Check(c.UserContext(), userID(c), id, c.QueryBool("aiEnhanced"))
	if err != nil {
		return err
	}
	return c.JSON(el)
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	var in usecase.ExportInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	res, err := h.Export.Export(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(res.Filename)
	return c.Send(res.PDF)
}

func (h *Handler) EnhanceSection(c *fiber.Ctx) error {
	id, err := resumeID(c)
	if err != nil {
		return err
	}
	var in usecase.EnhanceInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	res, err := h.Enhance.Enhance(c.UserContext(), userID(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) ParseResume(c *fiber.Ctx) error {
	fh, data, err := formFile(c)
	if err != nil {
		return err
	}
	res, err := h.Uploads.Parse(c.UserContext(), userID(c), usecase.ParseInput{
		Filename: fh.Filename,
		Data:     data,
		Template: c.FormValue("template"),
		Title:    c.FormValue("title"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) UploadPhoto(c *fiber.Ctx) error {
	_, data, err := formFile(c)
	if err != nil {
		return err
	}
	url, err := h.Uploads.UploadPhoto(c.UserContext(), userID(c), data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

func (h *Handler) GetSubscription(c *fiber.Ctx) error {
	snap, err := h.Subscriptions.Current(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (h *Handler) ActivateFree(c *fiber.Ctx) error {
	var in usecase.PlanInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	snap, err := h.Subscriptions.ActivateFree(c.UserContext(), userID(c), planType(in.PlanType))
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	var in usecase.PlanInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	res, err := h.Subscriptions.CreateOrder(c.UserContext(), userID(c), planType(in.PlanType))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) VerifyPayment(c *fiber.Ctx) error {
	var in usecase.VerifyPaymentInput
	if err := h.bind(c, &in); err != nil {
		return err
	}
	res, err := h.Subscriptions.VerifyPayment(c.UserContext(), userID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// bind parses the JSON body into dst and runs its validate tags.
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.BadRequest("Invalid request body").WithError(err)
	}
	if err := h.Validator.Validate(dst); err != nil {
		if ve, ok := err.(*validator.ValidationError); ok {
			return apperrors.Validation(ve.Errors)
		}
		return apperrors.BadRequest(err.Error())
	}
	return nil
}

func resumeID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrResumeNotFound
	}
	return id, nil
}

func formFile(c *fiber.Ctx) (*multipart.FileHeader, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, apperrors.Validation(map[string]string{"file": "is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperrors.ErrOperationFailed.WithError(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, apperrors.ErrOperationFailed.WithError(err)
	}
	return fh, data, nil
}
