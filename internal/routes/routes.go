package routes

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/config"
	"github.com/BruksfildServices01/studio-manager/internal/guard"
	"github.com/BruksfildServices01/studio-manager/internal/handlers"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/notify"
	"github.com/BruksfildServices01/studio-manager/internal/payments"
	"github.com/BruksfildServices01/studio-manager/internal/storage"
	ucAppointment "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

// App reúne o que as rotas precisam, montado no boot.
type App struct {
	Config    *config.Config
	Deps      views.Deps
	Registry  *views.Registry
	Templates *template.Template
	Notifier  *notify.Notifier
	Payments  *payments.Service
	Logos     *storage.Logos
	AuditLogs backend.Table[models.AuditLog]
	// Resolver nil desliga a checagem de domínio do e-mail.
	Resolver validators.Resolver
}

func RegisterRoutes(r *gin.Engine, app App) {
	cfg := app.Config
	deps := app.Deps
	store := deps.Backend.Store

	cookies := middleware.CookieOptions{Secure: cfg.CookieSecure, TokenTTL: cfg.SessionTTL}

	if app.Templates != nil {
		r.SetHTMLTemplate(app.Templates)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.Tabs(app.Registry, cookies))
	r.Use(middleware.CSRF([]byte(cfg.CSRFKey), cfg.CookieSecure, cfg.CORSOrigins))

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	confirmUC := ucAppointment.NewConfirmAppointment(store.Appointments, deps.Audit)
	cancelUC := ucAppointment.NewCancelAppointment(store.Appointments, deps.Audit)
	completeUC := ucAppointment.NewCompleteAppointment(store.Appointments, store.Transactions, deps.Audit, deps.Clock)

	booking := views.NewBooking(deps)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(cookies, app.Resolver, deps.Logger)
	meHandler := handlers.NewMeHandler()

	appointmentHandler := handlers.NewAppointmentHandler(store, confirmUC, cancelUC, completeUC, app.Payments, deps.Audit)
	clientHandler := handlers.NewClientHandler(store)
	serviceHandler := handlers.NewServiceHandler(store)
	transactionHandler := handlers.NewTransactionHandler(store)
	settingsHandler := handlers.NewSettingsHandler(app.Logos)
	dashboardHandler := handlers.NewDashboardHandler(app.Notifier, deps.Audit, deps.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(app.AuditLogs)

	publicHandler := handlers.NewPublicHandler(booking)
	publicWebHandler := handlers.NewPublicWebHandler(booking)
	appWebHandler := handlers.NewAppWebHandler(authHandler, cfg.AllowAdminSignup)

	// ======================================================
	// 🛡️ GUARDS
	// ======================================================
	g := guard.New(middleware.SessionOf, 5*time.Second)
	htmlDeny := guard.HTMLResponder{LoadingTemplate: "loading.html"}
	jsonDeny := guard.JSONResponder{}

	// ======================================================
	// 🌍 ROTAS WEB (HTML)
	// ======================================================
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, guard.AuthPath) })

	r.GET(guard.AuthPath, appWebHandler.AuthPage)
	r.POST("/web/auth/signin", appWebHandler.SignIn)
	r.POST("/web/auth/signup", appWebHandler.SignUp)
	r.POST("/web/auth/signout", appWebHandler.SignOut)
	r.GET(guard.UnauthorizedPath, appWebHandler.Unauthorized)

	r.GET("/web/public/agendar", publicWebHandler.ShowBookingPage)
	r.POST("/web/public/agendar", publicWebHandler.SubmitBooking)

	r.GET("/web/app/:view", g.Require(models.RoleAdmin, htmlDeny), appWebHandler.App)
	r.GET(guard.ClientHome, g.Require(models.RoleClient, htmlDeny), appWebHandler.Client)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/studio", publicHandler.Studio)
			publicAPI.GET("/services", publicHandler.Services)
			publicAPI.GET("/slots", publicHandler.Slots)
			publicAPI.POST("/bookings", publicHandler.Book)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/signin", authHandler.SignIn)
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/signout", authHandler.SignOut)
		api.GET("/session", authHandler.Session)

		// ------------------------------
		// 👤 CLIENTE
		// ------------------------------
		me := api.Group("/me")
		me.Use(g.Require(models.RoleClient, jsonDeny))
		{
			me.GET("", meHandler.Profile)
			me.GET("/appointments", meHandler.Appointments)
			me.GET("/services", meHandler.Services)
		}

		// ------------------------------
		// 🔐 ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(g.Require(models.RoleAdmin, jsonDeny))
		{
			admin.GET("/dashboard", dashboardHandler.Get)
			admin.GET("/dashboard/next", dashboardHandler.Next)
			admin.GET("/dashboard/raffle", dashboardHandler.Raffle)
			admin.GET("/status", dashboardHandler.Status)
			admin.POST("/notifications", dashboardHandler.Notify)

			// APPOINTMENTS
			admin.GET("/appointments", appointmentHandler.List)
			admin.GET("/appointments/week", appointmentHandler.Week)
			admin.GET("/appointments/pickers", appointmentHandler.Pickers)
			admin.POST("/appointments", appointmentHandler.Create)
			admin.PUT("/appointments/:id", appointmentHandler.Update)
			admin.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			admin.POST("/appointments/:id/payment-link", appointmentHandler.PaymentLink)
			admin.DELETE("/appointments/:id", appointmentHandler.Delete)

			// CLIENTS
			admin.GET("/clients", clientHandler.List)
			admin.POST("/clients", clientHandler.Create)
			admin.PUT("/clients/:id", clientHandler.Update)
			admin.DELETE("/clients/:id", clientHandler.Delete)

			// SERVICES
			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PUT("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)

			// FINANCE
			admin.GET("/transactions", transactionHandler.List)
			admin.POST("/transactions", transactionHandler.Create)
			admin.PUT("/transactions/:id", transactionHandler.Update)
			admin.DELETE("/transactions/:id", transactionHandler.Delete)
			admin.GET("/transaction-categories", transactionHandler.Categories)
			admin.POST("/transaction-categories", transactionHandler.CreateCategory)
			admin.PUT("/transaction-categories/:id", transactionHandler.UpdateCategory)

			// SETTINGS
			admin.GET("/settings", settingsHandler.Get)
			admin.PUT("/settings", settingsHandler.Save)
			admin.POST("/settings/logo", settingsHandler.UploadLogo)
			admin.GET("/settings/qrcode", settingsHandler.QRCode)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
