package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/presencehr/attendance-backend-go/internal/config"
	attendanceDomain "github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/presencehr/attendance-backend-go/internal/handler/http"
	"github.com/presencehr/attendance-backend-go/internal/pkg/cron"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/pkg/jwt"
	"github.com/presencehr/attendance-backend-go/internal/pkg/storage"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	absenceService "github.com/presencehr/attendance-backend-go/internal/service/absence"
	attendanceService "github.com/presencehr/attendance-backend-go/internal/service/attendance"
	authService "github.com/presencehr/attendance-backend-go/internal/service/auth"
	deviceService "github.com/presencehr/attendance-backend-go/internal/service/device"
	"github.com/presencehr/attendance-backend-go/internal/service/file"
	latenessService "github.com/presencehr/attendance-backend-go/internal/service/lateness"
	reportService "github.com/presencehr/attendance-backend-go/internal/service/report"
	userService "github.com/presencehr/attendance-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	expectedStart, err := attendanceDomain.ParseTimeOfDay(cfg.Workday.ExpectedStart)
	if err != nil {
		log.Fatal("Invalid WORKDAY_EXPECTED_START: ", err)
	}
	cutoff, err := attendanceDomain.ParseTimeOfDay(cfg.Workday.Cutoff)
	if err != nil {
		log.Fatal("Invalid WORKDAY_CUTOFF: ", err)
	}
	policy := attendanceDomain.WorkdayPolicy{ExpectedStart: expectedStart, Cutoff: cutoff}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	latenessRepo := postgresql.NewLatenessRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileSvc := file.NewFileService(fileStorage)

	recorder := attendanceService.NewPunchRecorder(db, attendanceRepo, latenessRepo, policy)

	authSvc := authService.NewAuthService(db, userRepo, jwtService, jwtRepo)
	userSvc := userService.NewUserService(db, userRepo, jwtRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, userRepo, reportRepo, recorder, policy)
	deviceSvc := deviceService.NewDeviceService(db, eventRepo, userRepo, recorder)
	latenessSvc := latenessService.NewLatenessService(db, latenessRepo, fileSvc)
	absenceSvc := absenceService.NewAbsenceService(db, absenceRepo, attendanceRepo, userRepo, fileSvc)
	reportSvc := reportService.NewReportService(db, reportRepo, policy)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(userSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	latenessHandler := appHTTP.NewLatenessHandler(latenessSvc)
	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc)
	deviceHandler := appHTTP.NewDeviceHandler(deviceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: cfg.App.Env, UploadsPath: cfg.Storage.BasePath},
		jwtService,
		authHandler,
		employeeHandler,
		attendanceHandler,
		latenessHandler,
		absenceHandler,
		deviceHandler,
		reportHandler,
	)

	if cfg.Sweeper.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAbsenceJobs(absenceSvc).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
