package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/handlers"
	"github.com/voicenative/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	appHandler *handlers.AppHandler,
	reportHandler *handlers.ReportHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	adminHandler *handlers.AdminHandler,
	webhookHandler *handlers.WebhookHandler,
	contactHandler *handlers.ContactHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
	sitemapHandler *handlers.SitemapHandler,
) {
	// Sitemap lives outside /api so crawlers find it at the usual path.
	app.Get("/sitemap.xml", sitemapHandler.Sitemap)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public directory
	api.Get("/apps", appHandler.ListApps)
	api.Get("/apps/featured", appHandler.FeaturedApps)
	api.Get("/apps/:slug", appHandler.GetApp)
	api.Get("/categories", appHandler.ListCategories)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - applied per route so the JWT
	// middleware never touches public paths
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	api.Post("/apps", middleware.JWTProtected(cfg), appHandler.SubmitApp)
	api.Put("/apps/:id", middleware.JWTProtected(cfg), appHandler.UpdateApp)
	api.Get("/my/apps", middleware.JWTProtected(cfg), appHandler.MyApps)
	api.Post("/apps/:id/upvote", middleware.JWTProtected(cfg), appHandler.ToggleUpvote)
	api.Post("/apps/:id/interest", middleware.JWTProtected(cfg), appHandler.ToggleInterest)

	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.SubmitReport)
	api.Post("/contact", middleware.JWTProtected(cfg), contactHandler.Submit)
	api.Post("/uploads", middleware.JWTProtected(cfg), uploadHandler.UploadImage)

	// Owner dashboard
	api.Get("/apps/:id/analytics", middleware.JWTProtected(cfg), analyticsHandler.GetInterestAnalytics)
	api.Get("/apps/:id/interested-users", middleware.JWTProtected(cfg), analyticsHandler.GetInterestedUsers)
	api.Get("/apps/:id/interested-users/export", middleware.JWTProtected(cfg), analyticsHandler.ExportInterestedUsers)
	api.Post("/apps/:id/unlock", middleware.JWTProtected(cfg), analyticsHandler.CreateCheckoutSession)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/apps", adminHandler.ListApps)
	admin.Post("/apps/:id/approve", adminHandler.ApproveApp)
	admin.Post("/apps/:id/reject", adminHandler.RejectApp)
	admin.Post("/apps/:id/hide", adminHandler.HideApp)
	admin.Post("/apps/:id/feature", adminHandler.ToggleFeatured)
	admin.Delete("/apps/:id", adminHandler.DeleteApp)
	admin.Get("/reports", adminHandler.ListReports)
	admin.Put("/reports/:id", adminHandler.ResolveReport)
	admin.Get("/contact-messages", adminHandler.ListContactMessages)

	// Payment webhooks — signature-verified, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/checkout", webhookHandler.HandleCheckout)
}
