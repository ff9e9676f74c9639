package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/plugilode/corpintel/internal/auth"
	"github.com/plugilode/corpintel/internal/config"
	"github.com/plugilode/corpintel/internal/database"
	"github.com/plugilode/corpintel/internal/entity"
	"github.com/plugilode/corpintel/internal/handler"
	middlewarepkg "github.com/plugilode/corpintel/internal/middleware"
	"github.com/plugilode/corpintel/internal/repository"
	"github.com/plugilode/corpintel/internal/router"
	"github.com/plugilode/corpintel/internal/seed"
	"github.com/plugilode/corpintel/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		recordsRepo  repository.RecordsRepository
		usersRepo    repository.UsersRepository
		contactsRepo repository.ContactsRepository
	)

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()

		recordsRepo = repository.NewPGXRecordsRepository(pool)
		usersRepo = repository.NewPGXUsersRepository(pool)
		contactsRepo = repository.NewPGXContactsRepository(pool)
		log.Printf("storage=postgres")
	} else {
		records, err := loadSeed(cfg.SeedFile)
		if err != nil {
			log.Fatalf("failed to load seed records: %v", err)
		}

		memRepo, err := repository.NewMemoryRecordsRepository(records)
		if err != nil {
			log.Fatalf("failed to build memory store: %v", err)
		}
		memUsers := repository.NewMemoryUsersRepository()
		if err := bootstrapAdmin(memUsers, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to bootstrap admin user: %v", err)
		}

		recordsRepo = memRepo
		usersRepo = memUsers
		contactsRepo = repository.NewMemoryContactsRepository()
		log.Printf("storage=memory records=%d", len(records))
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	recordsService := service.NewRecordsService(recordsRepo)
	queryService := service.NewQueryService(cfg.DefaultCountry)
	verificationService := service.NewVerificationService(recordsRepo)
	validator := service.NewContactValidator(cfg.DefaultRegion)
	contactService := service.NewContactService(contactsRepo, validator)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Users:        handler.NewUserAdminHandler(userService),
		Records:      handler.NewRecordsHandler(recordsService, queryService),
		Insights:     handler.NewInsightHandler(recordsService),
		Verification: handler.NewVerificationHandler(verificationService),
		Contact:      handler.NewContactHandler(contactService),
		AdminUpload:  handler.NewAdminUploadHandler(recordsService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func loadSeed(path string) ([]entity.Record, error) {
	if path != "" {
		return seed.RecordsFromFile(path)
	}
	return seed.Records()
}

// bootstrapAdmin creates the initial admin account for memory-backed runs so
// the secured endpoints stay reachable without a migration step.
func bootstrapAdmin(users repository.UsersRepository, email, password string) error {
	if email == "" || password == "" {
		log.Printf("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.Create(context.Background(), email, string(hash), "admin")
	return err
}
