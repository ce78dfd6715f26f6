package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	"personafeedback/config"
	httpdelivery "personafeedback/internal/delivery/http"
	"personafeedback/internal/delivery/http/controllers"
	"personafeedback/internal/delivery/http/middleware"

	"personafeedback/internal/adapters/auth"
	"personafeedback/internal/adapters/email"
	"personafeedback/internal/repository/postgres"
	"personafeedback/internal/repository/sqlite"
	"personafeedback/internal/services"
	"personafeedback/internal/testdef"

	_ "personafeedback/docs"
)

const bcryptCost = 10

// @title PersonaFeedback API
// @version 1.0
// @description Personality tests with anonymous 360-degree feedback invitations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	dedup, dedupDB, err := sqlite.NewDedupStore(cfg.DedupDBPath)
	if err != nil {
		log.Fatalf("failed to open dedup store: %v", err)
	}
	defer dedupDB.Close()

	registry, err := testdef.Load()
	if err != nil {
		log.Fatalf("failed to load test definitions: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	resultRepo := postgres.NewTestResultRepository(db)
	invRepo := postgres.NewInvitationRepository(db)
	respRepo := postgres.NewResponseRepository(db)
	msgRepo := postgres.NewUIMessageRepository(db)
	langRepo := postgres.NewLanguageRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcryptCost)
	tokens := auth.NewJWTManager(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userSvc := services.NewUserService(userRepo, roleRepo, loginCodeRepo, hasher, tokens, cfg.TokenExpiry, emailSvc)
	resultSvc := services.NewTestResultService(resultRepo, registry)
	invSvc := services.NewInvitationService(invRepo, resultRepo, userRepo, registry, dedup, emailSvc, cfg.PublicBaseURL)
	feedbackSvc := services.NewFeedbackService(respRepo, invRepo, resultRepo, invSvc, registry, dedup)
	msgSvc := services.NewMessageService(msgRepo, langRepo, userSvc)

	// HTTP
	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:       controllers.NewAuthController(logger, userSvc),
		Tests:      controllers.NewTestController(logger, registry, resultSvc),
		Invitation: controllers.NewInvitationController(logger, invSvc),
		Feedback:   controllers.NewFeedbackController(logger, invSvc, feedbackSvc),
		Admin:      controllers.NewAdminController(logger, msgSvc),
	}, tokens)

	handler := middleware.CORS(cfg.AllowedOrigins,
		middleware.DeviceID(
			middleware.LoggingMiddleware(logger, mux)))

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
