package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/rylimitless/asamp-backend-go/internal/config"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/middleware"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Squad        SquadHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Notification NotificationHandler
	Report       ReportHandler
	Audit        AuditHandler
	Cron         CronHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "asamp-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService))
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Profile)
			})
		})

		// SSE streams authenticate with their own short-lived token
		// carried in the query string.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Scheduler triggers
		r.Route("/cron", func(r chi.Router) {
			r.Use(middleware.CronSecret(cfg.Cron.Secret))
			r.Post("/reminders/run", h.Cron.RunCheckoutReminders)
			r.Post("/reports/run", h.Cron.RunScheduledReports)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", h.User.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", h.User.Update)
				})
			})

			r.Route("/squads", func(r chi.Router) {
				r.Get("/", h.Squad.List)
				r.Get("/{id}", h.Squad.GetByID)
				r.Get("/{id}/members", h.Squad.Members)

				// The service rejects leads editing squads that are
				// not theirs.
				r.Group(func(r chi.Router) {
					r.Use(middleware.SquadLeadOrAdmin)
					r.Put("/{id}", h.Squad.Update)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Squad.Create)
					r.Delete("/{id}", h.Squad.Delete)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/my", h.Attendance.ListMine)
				r.Get("/{id}", h.Attendance.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.SquadLeadOrAdmin)
					r.Get("/", h.Attendance.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", h.Leave.Create)
				r.Get("/", h.Leave.List)
				r.Get("/{id}", h.Leave.GetByID)
				r.Patch("/{id}/status", h.Leave.UpdateStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/stream/ticket", h.Notification.StreamTicket)
				r.Patch("/read-all", h.Notification.MarkAllRead)
				r.Patch("/{id}/read", h.Notification.MarkRead)
				r.Delete("/{id}", h.Notification.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.SquadLeadOrAdmin)
				r.Get("/", h.Report.List)
				r.Get("/export", h.Report.Export)
				r.Get("/{id}", h.Report.GetByID)
				r.Post("/{id}/generate", h.Report.Generate)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Report.Create)
					r.Put("/{id}", h.Report.Update)
					r.Delete("/{id}", h.Report.Delete)
				})
			})

			r.Route("/audit-logs", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Audit.List)
			})
		})
	})
	return r
}
