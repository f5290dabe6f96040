package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/headspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/headspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/appointment"
	ucChat "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/chat"
	ucFidelity "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/fidelity"
	ucUser "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/user"
	"github.com/BruksfildServices01/headspa-scheduler/internal/validators"
)

// Deps são os singletons montados no main (ou nos testes).
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger
	Clock  *timezone.Clock

	Locker   domain.DateLocker
	Redis    *redis.Client // nil sem Redis
	Store    storage.ObjectStore
	Audit    *audit.Dispatcher
	Notifier ucAppointment.Notifier
	Hub      *ucChat.Hub // nil: criado aqui

	EmailDomainChecker validators.DomainChecker
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	cfg := d.Config
	db := d.DB

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(metrics.Middleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	statsRepo := infraRepo.NewStatsGormRepository(db)
	fidelityRepo := infraRepo.NewFidelityGormRepository(db)
	chatRepo := infraRepo.NewChatGormRepository(db)
	userRepo := infraRepo.NewUserGormRepository(db)

	hub := d.Hub
	if hub == nil {
		hub = ucChat.NewHub()
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		d.Locker,
		d.Clock,
		d.Audit,
		d.Notifier,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		d.Locker,
		d.Clock,
		d.Audit,
		d.Notifier,
	)

	updateStatusUC := ucAppointment.NewUpdateAppointmentStatus(
		appointmentRepo,
		d.Locker,
		d.Clock,
		d.Audit,
		d.Notifier,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo,
		d.Locker,
		d.Clock,
		d.Audit,
		d.Notifier,
	)

	appointmentQueries := ucAppointment.NewQueries(appointmentRepo, d.Clock)
	appointmentStats := ucAppointment.NewStats(statsRepo, d.Clock)

	fidelitySvc := ucFidelity.NewService(fidelityRepo, d.Clock, d.Audit)
	chatSvc := ucChat.NewService(chatRepo, hub, d.Clock, d.Audit)
	userSvc := ucUser.NewService(userRepo, d.Audit)
	userStats := ucUser.NewStats(userRepo, d.Clock)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, d.EmailDomainChecker)
	meHandler := handlers.NewMeHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		updateStatusUC,
		updateAppointmentUC,
		appointmentQueries,
		appointmentStats,
	)

	formulaHandler := handlers.NewFormulaHandler(db, d.Audit)
	fidelityHandler := handlers.NewFidelityHandler(fidelitySvc)
	galleryHandler := handlers.NewGalleryHandler(db, d.Store, d.Audit)
	articleHandler := handlers.NewArticleHandler(db, d.Store, d.Clock, d.Audit)
	bannerHandler := handlers.NewBannerHandler(db, d.Store, d.Audit)
	clientFileHandler := handlers.NewClientFileHandler(db, d.Audit)
	chatHandler := handlers.NewChatHandler(chatSvc)
	userHandler := handlers.NewUserHandler(userSvc, userStats)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, d.Clock)
	healthHandler := handlers.NewHealthHandler(db, d.Redis)

	// ======================================================
	// 🩺 HEALTH / METRICS
	// ======================================================
	r.GET("/health/live", healthHandler.Live)
	r.GET("/health/ready", healthHandler.Ready)
	r.GET("/metrics", metrics.Handler())

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	{
		auth := middleware.AuthMiddleware(cfg)
		adminOnly := middleware.RequireAdmin()

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", auth, meHandler.GetMe)

		// ------------------------------
		// 💆 FORMULAS
		// ------------------------------
		formulas := api.Group("/formulas")
		{
			formulas.GET("", formulaHandler.List)
			formulas.GET("/:id", middleware.OptionalAuth(cfg), formulaHandler.Get)
			formulas.POST("", auth, adminOnly, formulaHandler.Create)
			formulas.PUT("/:id", auth, adminOnly, formulaHandler.Update)
			formulas.DELETE("/:id", auth, adminOnly, formulaHandler.Delete)
		}

		// ------------------------------
		// 🖼️ GALLERY
		// ------------------------------
		gallery := api.Group("/gallery")
		{
			gallery.GET("", galleryHandler.List)
			gallery.POST("", auth, adminOnly, galleryHandler.Create)
			gallery.PUT("/:id", auth, adminOnly, galleryHandler.Update)
			gallery.DELETE("/:id", auth, adminOnly, galleryHandler.Delete)
		}

		// ------------------------------
		// 📰 ARTICLES
		// ------------------------------
		articles := api.Group("/articles")
		{
			articles.GET("", middleware.OptionalAuth(cfg), articleHandler.List)
			articles.GET("/:slug", middleware.OptionalAuth(cfg), articleHandler.Get)
			articles.POST("", auth, adminOnly, articleHandler.Create)
			articles.PUT("/:slug", auth, adminOnly, articleHandler.Update)
			articles.DELETE("/:slug", auth, adminOnly, articleHandler.Delete)
		}

		// ------------------------------
		// 🎞️ BANNERS
		// ------------------------------
		banners := api.Group("/banners")
		{
			banners.GET("", bannerHandler.List)
			banners.GET("/:page_name", bannerHandler.Get)
			banners.POST("", auth, adminOnly, bannerHandler.Upsert)
			banners.DELETE("/:id", auth, adminOnly, bannerHandler.Delete)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(auth)
		{
			// ------------------------------
			// AGENDAMENTOS (papéis checados no caso de uso)
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/my", appointmentHandler.ListMine)
			secured.GET("/appointments/history", appointmentHandler.History)
			secured.GET("/appointments/admin", appointmentHandler.AdminList)
			secured.GET("/appointments/upcoming", appointmentHandler.Upcoming)
			secured.GET("/appointments/stats/counts-by-status", appointmentHandler.StatusCounts)
			secured.GET("/appointments/stats/formula-popularity", appointmentHandler.FormulaPopularity)
			secured.GET("/appointments/stats/monthly-trend", appointmentHandler.MonthlyTrend)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.PUT("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)

			// ------------------------------
			// ⭐ FIDELITY
			// ------------------------------
			secured.POST("/fidelity/watch-ad", fidelityHandler.WatchAd)
			secured.GET("/fidelity/my-level", fidelityHandler.MyLevel)
			secured.GET("/fidelity/ad-history", fidelityHandler.AdHistory)

			// ------------------------------
			// 📜 AUDIT
			// ------------------------------
			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)

			// ------------------------------
			// 💬 CHAT
			// ------------------------------
			secured.GET("/chat", chatHandler.Conversations)
			secured.GET("/chat/stream", chatHandler.Stream)
			secured.GET("/chat/:id/messages", chatHandler.Messages)
			secured.POST("/chat/start-with-admin", chatHandler.StartWithAdmin)
			secured.POST("/chat/admin/start-conversation/:clientId", chatHandler.AdminStart)
			secured.POST("/chat/send-message", chatHandler.Send)

			// ------------------------------
			// 🗂️ FICHES CLIENTS
			// ------------------------------
			clientFiles := secured.Group("/client-files", adminOnly)
			{
				clientFiles.GET("", clientFileHandler.List)
				clientFiles.GET("/:id", clientFileHandler.Get)
				clientFiles.POST("", clientFileHandler.Create)
				clientFiles.PUT("/:id", clientFileHandler.Update)
				clientFiles.DELETE("/:id", clientFileHandler.Delete)
			}

			// ------------------------------
			// 👤 USERS (rotas fixas antes de /:id)
			// ------------------------------
			secured.GET("/users", userHandler.List)
			secured.GET("/users/admins", userHandler.Admins)
			secured.GET("/users/count", userHandler.Count)
			secured.GET("/users/recent", userHandler.Recent)
			secured.GET("/users/registrations-last-7-days", userHandler.RegistrationsLastWeek)
			secured.GET("/users/stats/counts-by-role", userHandler.CountsByRole)
			secured.GET("/users/stats/fidelity-engagement", userHandler.FidelityEngagement)
			secured.GET("/users/email/:email", userHandler.GetByEmail)
			secured.GET("/users/:id", userHandler.Get)
			secured.POST("/users/add", userHandler.Create)
			secured.PUT("/users/admin/:id", userHandler.UpdateAdmin)
			secured.PUT("/users/:id", userHandler.Update)
			secured.DELETE("/users/:id", userHandler.Delete)
		}
	}
}
