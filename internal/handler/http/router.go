package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/presencehr/attendance-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	Env         string
	UploadsPath string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	latenessHandler LatenessHandler,
	absenceHandler AbsenceHandler,
	deviceHandler DeviceHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// justification attachments
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsPath))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Device feed: punch terminals authenticate at the network layer,
		// not with user JWTs.
		r.Post("/devices/events", deviceHandler.ReceivePunch)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/users/me", employeeHandler.GetMe)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", employeeHandler.List)
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/{id}", employeeHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", employeeHandler.Create)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Archive)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Get("/statistics", attendanceHandler.Statistics)
				r.Get("/{id}", attendanceHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionAttendancePunch)).Post("/punch", attendanceHandler.ManualPunch)
			})

			r.Route("/latenesses", func(r chi.Router) {
				r.Get("/", latenessHandler.List)
				r.Get("/{id}", latenessHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionLatenessJustify)).Post("/{id}/justify", latenessHandler.Justify)
				r.With(middleware.RequirePermission(user.PermissionLatenessValidate)).Post("/{id}/validate", latenessHandler.Validate)
			})

			r.Route("/absences", func(r chi.Router) {
				r.Get("/", absenceHandler.List)
				r.Get("/{id}", absenceHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionAbsenceJustify)).Post("/{id}/justify", absenceHandler.Justify)
				r.With(middleware.RequirePermission(user.PermissionAbsenceValidate)).Post("/{id}/validate", absenceHandler.Validate)
				r.With(middleware.RequirePermission(user.PermissionAbsenceSweep)).Post("/sweep", absenceHandler.Sweep)
			})

			r.Route("/devices/events", func(r chi.Router) {
				r.Get("/", deviceHandler.List)
				r.With(middleware.RequirePermission(user.PermissionDeviceViewAll)).Get("/{id}", deviceHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionDeviceReprocess)).Post("/reprocess", deviceHandler.Reprocess)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/attendance", reportHandler.Attendance)
				r.Get("/attendance/export", reportHandler.ExportExcel)
			})
		})
	})

	return r
}
