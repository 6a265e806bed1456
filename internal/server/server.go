package server

import (
	"log"
	"strings"
	"time"

	"anoa.com/campusbridge/internal/config"
	"anoa.com/campusbridge/internal/handler"
	"anoa.com/campusbridge/internal/middleware"
	"anoa.com/campusbridge/internal/repository"
	"anoa.com/campusbridge/internal/service"
	"anoa.com/campusbridge/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var mediaStorage storage.MediaStorage
	if cfg.CloudinaryCloudName != "" || cfg.CloudinaryAPIKey != "" {
		var err error
		mediaStorage, err = storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
	} else {
		log.Println("cloudinary not configured, post media uploads disabled")
	}

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	authSvc := service.NewAuthService(userRepo)
	adminSvc := service.NewAdminService(userRepo)
	messageSvc := service.NewMessageService(messageRepo, userRepo, notificationSvc, redisClient, cfg.MessageCooldown)
	postSvc := service.NewPostService(postRepo, mediaStorage, redisClient, cfg.PostCooldown)
	commentSvc := service.NewCommentService(commentRepo, postRepo, userRepo, notificationSvc)
	likeSvc := service.NewLikeService(likeRepo, postRepo, commentRepo, notificationSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	userHandler := handler.NewUserHandler(userRepo)
	messageHandler := handler.NewMessageHandler(messageSvc)
	postHandler := handler.NewPostHandler(postSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	likeHandler := handler.NewLikeHandler(likeSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := engine.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login", authHandler.Login)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireOfficial())
		{
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users", adminHandler.GetAllUsers)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}

		api.GET("/users/me", userHandler.Me)

		api.POST("/messages", messageHandler.SendMessage)
		api.GET("/messages/inbox", messageHandler.GetInbox)
		api.GET("/messages/thread/:userId", messageHandler.GetThread)
		api.PATCH("/messages/:id/read", messageHandler.MarkAsRead)
		api.DELETE("/messages/:id", messageHandler.DeleteMessage)

		api.POST("/posts", postHandler.CreatePost)
		api.GET("/posts", postHandler.GetFeed)
		api.GET("/posts/:id", postHandler.GetPostByID)
		api.PUT("/posts/:id", postHandler.UpdatePost)
		api.DELETE("/posts/:id", postHandler.DeletePost)
		api.POST("/posts/:id/like", likeHandler.TogglePostLike)

		api.POST("/posts/:id/comments", commentHandler.CreateComment)
		api.GET("/posts/:id/comments", commentHandler.GetCommentsByPostID)
		api.DELETE("/comments/:id", commentHandler.DeleteComment)
		api.POST("/comments/:id/like", likeHandler.ToggleCommentLike)

		api.GET("/notifications", notificationHandler.GetNotifications)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.PATCH("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	}

	return &Server{engine: engine, cfg: cfg}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}
