package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"rollcall/internal/config"
	"rollcall/internal/handlers"
	"rollcall/internal/migrations"
	"rollcall/internal/repositories"
	"rollcall/internal/routes"
	"rollcall/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "rollcall/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	if err := runMigrations(context.Background(), db); err != nil {
		log.Fatal("Ошибка миграций: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	checkinRepo := repositories.NewCheckinRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.VerifyTTL, cfg.Auth.SessionTTL)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	uploadService, err := services.NewS3UploadService(cfg.S3)
	if err != nil {
		log.Fatal("Ошибка инициализации S3: ", err)
	}

	userService := services.NewUserService(userRepo)
	checkinService := services.NewCheckinService(checkinRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, emailService, cfg.Server.BaseURL)
	checkinHandler := handlers.NewCheckinHandler(userService, checkinService, uploadService, cfg.Files.TmpDir)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler, checkinHandler, []byte(cfg.Auth.JWTSecret))

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
