package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/uniadmit/admission-intake/internal/allocation"
	"github.com/uniadmit/admission-intake/internal/config"
	"github.com/uniadmit/admission-intake/internal/database"
	"github.com/uniadmit/admission-intake/internal/handler"
	"github.com/uniadmit/admission-intake/internal/middleware"
	"github.com/uniadmit/admission-intake/internal/queue"
	"github.com/uniadmit/admission-intake/internal/repository"
	"github.com/uniadmit/admission-intake/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the response cache. A nil client
	// disables both and the API keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	masters := repository.NewMasterRepo(db)
	programs := repository.NewProgramRepo(db)
	quotas := repository.NewQuotaRepo(db)
	applicants := repository.NewApplicantRepo(db)
	admissions := repository.NewAdmissionRepo(db)
	documents := repository.NewDocumentRepo(db)
	dashboard := repository.NewDashboardRepo(db)

	coordinator := allocation.NewCoordinator(allocation.NewMySQLStore(db))

	authH := handler.NewAuthHandler(cfg, users, tokens)
	masterH := handler.NewMasterHandler(masters)
	programH := handler.NewProgramHandler(programs, quotas)
	applicantH := handler.NewApplicantHandler(applicants)
	admissionH := handler.NewAdmissionHandler(coordinator, admissions)
	documentH := handler.NewDocumentHandler(documents)
	dashboardH := handler.NewDashboardHandler(dashboard)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterMasters(e, masterH, cfg.JWTSecret)
	router.RegisterPrograms(e, programH, cfg.JWTSecret)
	router.RegisterApplicants(e, applicantH, documentH, cfg.JWTSecret)
	router.RegisterAdmissions(e, admissionH, cfg.JWTSecret)
	router.RegisterDocuments(e, documentH, cfg.JWTSecret)
	router.RegisterDashboard(e, dashboardH, cfg.JWTSecret)

	// Background consumer logs confirmed admissions; it reconnects on
	// its own and never stops the server.
	go func() {
		if err := queue.StartAdmissionConsumer(); err != nil {
			log.Printf("admission consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
