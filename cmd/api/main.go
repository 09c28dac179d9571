package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/config"
	appHTTP "github.com/rylimitless/asamp-backend-go/internal/handler/http"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/cron"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/database"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/email"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/oauth"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/sse"
	"github.com/rylimitless/asamp-backend-go/internal/repository/postgresql"
	attendanceService "github.com/rylimitless/asamp-backend-go/internal/service/attendance"
	auditService "github.com/rylimitless/asamp-backend-go/internal/service/audit"
	authService "github.com/rylimitless/asamp-backend-go/internal/service/auth"
	"github.com/rylimitless/asamp-backend-go/internal/service/compliance"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
	leaveService "github.com/rylimitless/asamp-backend-go/internal/service/leave"
	notificationService "github.com/rylimitless/asamp-backend-go/internal/service/notification"
	reportService "github.com/rylimitless/asamp-backend-go/internal/service/report"
	squadService "github.com/rylimitless/asamp-backend-go/internal/service/squad"
	userService "github.com/rylimitless/asamp-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "asamp-backend"),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	squadRepo := postgresql.NewSquadRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	hub := sse.NewHub()
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, logger, notificationService.Config{})

	dispatcher := hooks.NewDispatcher(logger)
	dispatcher.Register(auditService.NewRecorder(auditRepo, logger))
	dispatcher.Register(leaveService.NewNotifier(notificationSvc, userRepo, squadRepo))

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		userRepo,
		squadRepo,
		compliance.DefaultPolicy(),
		dispatcher,
		logger,
	)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, userRepo, squadRepo, dispatcher)
	squadSvc := squadService.NewSquadService(db, squadRepo, userRepo, dispatcher)
	userSvc := userService.NewUserService(userRepo, squadRepo, dispatcher)
	authSvc := authService.NewAuthService(userRepo, jwtService, googleService, dispatcher)
	reportSvc := reportService.NewReportService(
		reportRepo,
		attendanceRepo,
		userRepo,
		squadRepo,
		emailService,
		notificationSvc,
		logger,
	)

	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, userRepo, notificationSvc, emailService)
	reportJobs := cron.NewReportJobs(reportSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs.RegisterJobs(scheduler, cfg.Cron.ReminderEvery)
	reportJobs.RegisterJobs(scheduler, cfg.Cron.ReportRunsEvery)
	scheduler.Start()

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, jwtService, googleService, cfg.App.FrontendURL),
		User:         appHTTP.NewUserHandler(userSvc),
		Squad:        appHTTP.NewSquadHandler(squadSvc, userSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, jwtService, hub),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Audit:        appHTTP.NewAuditHandler(auditRepo),
		Cron:         appHTTP.NewCronHandler(attendanceJobs, reportJobs),
	}

	router := appHTTP.NewRouter(cfg, jwtService, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	scheduler.Stop()
	notificationSvc.Stop()
}
