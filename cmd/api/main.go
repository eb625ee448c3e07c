package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/config"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/grafik-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/grafik-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/grafik-backend-go/internal/service/auth"
	departmentService "github.com/cmlabs-hris/grafik-backend-go/internal/service/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/service/file"
	grafikService "github.com/cmlabs-hris/grafik-backend-go/internal/service/grafik"
	holidayService "github.com/cmlabs-hris/grafik-backend-go/internal/service/holiday"
	podanieService "github.com/cmlabs-hris/grafik-backend-go/internal/service/podanie"
	reportService "github.com/cmlabs-hris/grafik-backend-go/internal/service/report"
	settingsService "github.com/cmlabs-hris/grafik-backend-go/internal/service/settings"
	shiftTypeService "github.com/cmlabs-hris/grafik-backend-go/internal/service/shifttype"
	userService "github.com/cmlabs-hris/grafik-backend-go/internal/service/user"
)

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	migrations, err := fs.Sub(postgresql.Migrations, "migrations")
	if err != nil {
		log.Fatal("Failed to open migrations:", err)
	}
	if err := db.Migrate(ctx, migrations); err != nil {
		log.Fatal("Failed to apply migrations:", err)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	membershipRepo := postgresql.NewMembershipRepository(db)
	shiftTypeRepo := postgresql.NewShiftTypeRepository(db)
	entryRepo := postgresql.NewEntryRepository(db)
	dayOffRepo := postgresql.NewDayOffRepository(db)
	templateRepo := postgresql.NewTemplateRepository(db)
	dictionaryRepo := postgresql.NewDictionaryRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	if err := fixtures.NewSeeder(templateRepo, dictionaryRepo, shiftTypeRepo, settingsRepo).Seed(ctx); err != nil {
		log.Fatal("Failed to seed defaults:", err)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	hub := sse.NewHub()
	appMetrics := metrics.New()
	appMetrics.ObserveStreams(hub.TotalSubscribers)
	renderer := pdf.NewRenderer(cfg.Planner.FontDir)

	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(tx, userRepo, JWTService, JWTRepository)
	userSvc := userService.NewUserService(userRepo, cfg.Planner.DefaultLeaveDays)
	departmentSvc := departmentService.NewDepartmentService(tx, departmentRepo, membershipRepo, userRepo)
	shiftTypeSvc := shiftTypeService.NewShiftTypeService(tx, shiftTypeRepo)
	holidaySvc := holidayService.NewHolidayService(dayOffRepo)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, fileService)
	templateSvc := podanieService.NewTemplateService(templateRepo, dictionaryRepo, settingsSvc, renderer)
	podanieSvc := podanieService.NewPodanieService(
		tx,
		requestRepo,
		templateRepo,
		dictionaryRepo,
		userRepo,
		shiftTypeRepo,
		departmentRepo,
		membershipRepo,
		settingsSvc,
		renderer,
		emailService,
		appMetrics,
		cfg.App.BaseURL,
	)
	grafikSvc := grafikService.NewGrafikService(
		tx,
		entryRepo,
		shiftTypeRepo,
		departmentRepo,
		membershipRepo,
		departmentSvc,
		holidaySvc,
		settingsRepo,
		podanieSvc,
		hub,
		appMetrics,
		grafikService.Config{FreeDayCode: cfg.Planner.FreeDayCode, LeaveCode: cfg.Planner.LeaveCode},
	)
	if cfg.Admin.Email != "" {
		_, err := userSvc.Create(ctx, user.CreateUserRequest{
			Email:    cfg.Admin.Email,
			FullName: cfg.Admin.FullName,
			Password: cfg.Admin.Password,
			IsAdmin:  true,
		})
		switch {
		case err == nil:
			slog.Info("Created administrator account", "email", cfg.Admin.Email)
		case !errors.Is(err, user.ErrUserEmailExists):
			log.Fatal("Failed to create administrator account:", err)
		}
	}
	reportSvc := reportService.NewReportService(departmentRepo, membershipRepo, userRepo, grafikSvc, renderer)

	scheduler := cron.NewScheduler(slog.Default())
	scheduler.Observe(appMetrics.JobRun)
	if err := cron.NewPlannerJobs(grafikSvc, JWTRepository, JWTService, cfg.Planner.AutoPlanCron, cfg.Planner.AutoPlanDayOfMonth).RegisterJobs(scheduler); err != nil {
		log.Fatal("Failed to register cron jobs:", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL),
		User:       appHTTP.NewUserHandler(userSvc),
		Department: appHTTP.NewDepartmentHandler(departmentSvc),
		ShiftType:  appHTTP.NewShiftTypeHandler(shiftTypeSvc),
		Grafik:     appHTTP.NewGrafikHandler(grafikSvc, departmentSvc, userSvc, hub),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Podanie:    appHTTP.NewPodanieHandler(podanieSvc),
		Template:   appHTTP.NewTemplateHandler(templateSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
		Report:     appHTTP.NewReportHandler(reportSvc, departmentSvc),
	}, appMetrics)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	fmt.Printf("Server running at http://localhost%s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Println("Server error:", err)
	}
}
