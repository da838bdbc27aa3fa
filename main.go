package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Rufidatul726/jotter-backend/config"
	"github.com/Rufidatul726/jotter-backend/database"
	"github.com/Rufidatul726/jotter-backend/handlers"
	"github.com/Rufidatul726/jotter-backend/logger"
	"github.com/Rufidatul726/jotter-backend/middleware"
	"github.com/Rufidatul726/jotter-backend/models"
	"github.com/Rufidatul726/jotter-backend/repositories"
	"github.com/Rufidatul726/jotter-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting jotter backend")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	if err := database.InitMySQL(&cfg.Database); err != nil {
		log.Fatalf("init mysql failed: %v", err)
	}

	database.DB.AutoMigrate(
		&models.User{},
		&models.FileNode{},
	)
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(cfg.Storage.BasePath, "files"), 0o755); err != nil {
		log.Fatalf("create files dir failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.Storage.BasePath, "thumbnails"), 0o755); err != nil {
		log.Fatalf("create thumbnails dir failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer)
	handlers.SetServices(serviceContainer)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)
		protected.PUT("/auth/name", handlers.ChangeName)
		protected.PUT("/auth/password", handlers.ChangePassword)
		protected.DELETE("/auth/account", handlers.DeleteAccount)

		protected.GET("/user/storage", handlers.GetStorageUsage)

		protected.GET("/files", handlers.ListFiles)
		protected.GET("/files/all", handlers.ListAllFiles)
		protected.GET("/files/favorites", handlers.ListFavoriteFiles)
		protected.GET("/files/hidden", handlers.ListHiddenFiles)
		protected.GET("/files/by-date", handlers.ListFilesByDate)
		protected.POST("/files/upload", handlers.UploadFiles)
		protected.GET("/files/:id/download", handlers.DownloadFile)
		protected.PUT("/files/:id/favorite", handlers.ToggleFavorite)
		protected.PUT("/files/:id/hide", handlers.ToggleHidden)
		protected.PUT("/files/:id/lock", handlers.LockFile)
		protected.POST("/files/:id/unlock", handlers.UnlockFile)
		protected.PUT("/files/:id/rename", handlers.RenameFile)
		protected.DELETE("/files/:id", handlers.DeleteFile)
	}
}
