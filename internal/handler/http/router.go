package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/config"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Department DepartmentHandler
	ShiftType  ShiftTypeHandler
	Grafik     GrafikHandler
	Holiday    HolidayHandler
	Podanie    PodanieHandler
	Template   TemplateHandler
	Settings   SettingsHandler
	Report     ReportHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "grafik"),
		slog.String("env", cfg.App.Env),
	)

	origins := cfg.App.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
		// Event streams stay open for hours; logging them once on close
		// says nothing useful.
		Skip: func(req *http.Request, respStatus int) bool {
			return strings.HasSuffix(req.URL.Path, "/events")
		},
	}))
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Storage.Type == "local" {
		prefix := strings.TrimRight(cfg.Storage.BaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Storage.BasePath))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		// Event stream: accepts ?token= as well as the bearer token.
		r.With(middleware.StreamAuth(JWTService)).Get("/grafik/events", h.Grafik.Events)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.User.Me)
			r.Post("/auth/change-password", h.Auth.ChangePassword)
			r.Post("/auth/sse-token", h.Auth.SSEToken)

			r.Get("/departments", h.Department.List)

			// Administrators and heads of the department
			r.Route("/departments/{id}", func(r chi.Router) {
				r.Get("/staff", h.Department.Staff)
				r.Put("/staff", h.Department.UpdateStaff)
				r.Get("/reports/vacation", h.Report.DepartmentVacation)
			})
			r.Get("/shift-types", h.ShiftType.List)
			r.Get("/holidays", h.Holiday.List)

			r.Route("/grafik", func(r chi.Router) {
				r.Get("/", h.Grafik.MonthView)
				r.Post("/entries", h.Grafik.Upsert)
				r.Post("/entries/batch", h.Grafik.Batch)
				r.Delete("/entries", h.Grafik.Delete)
				r.Post("/auto-plan", h.Grafik.AutoPlan)
			})

			r.Route("/podania", func(r chi.Router) {
				r.Get("/", h.Podanie.List)
				r.Post("/", h.Podanie.Create)
				r.Get("/form", h.Podanie.Form)
				r.Get("/{id}", h.Podanie.Get)
				r.Delete("/{id}", h.Podanie.Delete)
				r.Get("/{id}/pdf", h.Podanie.PDF)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Put("/{id}", h.User.Update)
				})

				r.Route("/departments", func(r chi.Router) {
					r.Post("/", h.Department.Create)
					r.Get("/{id}", h.Department.Get)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
					r.Get("/{id}/members", h.Department.Members)
					r.Put("/{id}/members", h.Department.SyncMembers)
				})

				r.Route("/shift-types", func(r chi.Router) {
					r.Post("/", h.ShiftType.Create)
					r.Put("/order", h.ShiftType.Reorder)
					r.Get("/{id}", h.ShiftType.Get)
					r.Put("/{id}", h.ShiftType.Update)
					r.Delete("/{id}", h.ShiftType.Delete)
					r.Patch("/{id}/active", h.ShiftType.ToggleActive)
				})

				r.Route("/days-off", func(r chi.Router) {
					r.Get("/", h.Holiday.ListDaysOff)
					r.Post("/", h.Holiday.CreateDayOff)
					r.Put("/{id}", h.Holiday.UpdateDayOff)
					r.Delete("/{id}", h.Holiday.DeleteDayOff)
				})

				r.Route("/templates", func(r chi.Router) {
					r.Get("/", h.Template.List)
					r.Post("/", h.Template.Create)
					r.Post("/preview", h.Template.Preview)
					r.Post("/import", h.Template.Import)
					r.Get("/placeholders", h.Template.Placeholders)
					r.Get("/{id}", h.Template.Get)
					r.Put("/{id}", h.Template.Update)
					r.Delete("/{id}", h.Template.Delete)
				})

				r.Route("/dictionaries/{kind}", func(r chi.Router) {
					r.Get("/", h.Template.ListDictionary)
					r.Post("/", h.Template.CreateDictionaryItem)
					r.Put("/{id}", h.Template.UpdateDictionaryItem)
					r.Delete("/{id}", h.Template.DeleteDictionaryItem)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", h.Settings.Get)
					r.Put("/", h.Settings.Update)
					r.Post("/logo", h.Settings.UploadLogo)
					r.Delete("/logo", h.Settings.DeleteLogo)
				})

				r.Get("/reports/vacation", h.Report.Vacation)
			})
		})
	})
	return r
}
