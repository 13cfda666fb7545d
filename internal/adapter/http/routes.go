package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the fiber app with every route registered. bodyLimit must
// leave room for the largest upload plus multipart overhead.
func NewApp(h *Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "resume-builder",
		ErrorHandler: ErrorHandler,
		BodyLimit:    bodyLimit,
	})

	app.Use(requestid.New())
	app.Use(RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))

	Register(app, h)
	return app
}

func Register(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)
	app.Get("/plans", h.Plans)

	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)

	auth := RequireAuth(h.Auth)
	app.Get("/auth/me", auth, h.Me)

	app.Get("/subscription", auth, h.GetSubscription)
	app.Post("/subscription/activate-free", auth, h.ActivateFree)

	app.Post("/payment/create-order", auth, h.CreateOrder)
	app.Post("/payment/verify", auth, h.VerifyPayment)

	app.Post("/uploads/photo", auth, h.UploadPhoto)

	r := app.Group("/resume", auth)
	r.Get("/", h.ListResumes)
	r.Post("/", h.CreateResume)
	// static paths before /:id
	r.Get("/export", h.CheckExport)
	r.Post("/export", h.ExportPDF)
	r.Post("/parse", RateLimit(h.Limiter, "parse"), h.ParseResume)
	r.Get("/:id", h.GetResume)
	r.Put("/:id", h.UpdateResume)
	r.Delete("/:id", h.DeleteResume)
	r.Post("/:id/enhance", RateLimit(h.Limiter, "enhance"), h.EnhanceSection)
}
