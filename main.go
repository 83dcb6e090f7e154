package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fantasy-book-hub/internal/auth"
	"fantasy-book-hub/internal/config"
	"fantasy-book-hub/internal/db"
	"fantasy-book-hub/internal/handlers"
	"fantasy-book-hub/internal/logger"
	"fantasy-book-hub/internal/middleware"
	"fantasy-book-hub/internal/observability"
	"fantasy-book-hub/internal/rabbitmq"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Debug); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zap.L().Sync()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		zap.L().Fatal("failed to connect to db", zap.Error(err))
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, "audit.bookhub", "fantasy-book-hub", cfg.Environment)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)

	userRepo := repositories.NewUserRepo(database)
	bookRepo := repositories.NewBookRepo(database)
	reviewRepo := repositories.NewReviewRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	discussionRepo := repositories.NewDiscussionRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, hasher, audit)
	userHandler := handlers.NewUserHandler(userRepo, hasher, audit)
	bookHandler := handlers.NewBookHandler(bookRepo, audit)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, bookRepo, audit)
	groupHandler := handlers.NewGroupHandler(groupRepo, audit)
	discussionHandler := handlers.NewDiscussionHandler(discussionRepo, messageRepo, groupRepo, bookRepo, audit)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(logger.GinLogger())
	router.Use(logger.GinRecovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(middleware.Identify(tokens))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	router.GET("/users", userHandler.ListUsers)
	router.GET("/users/:user_id", userHandler.GetUser)
	router.PATCH("/users/:user_id", userHandler.UpdateUser)
	router.DELETE("/users/:user_id", userHandler.DeleteUser)

	router.GET("/books", bookHandler.ListBooks)
	router.POST("/books", bookHandler.CreateBook)
	router.GET("/books/:book_id", bookHandler.GetBook)
	router.DELETE("/books/:book_id", bookHandler.DeleteBook)
	router.GET("/authors", bookHandler.ListAuthors)
	router.GET("/topics", bookHandler.ListTopics)

	router.GET("/books/:book_id/reviews", reviewHandler.ListBookReviews)
	router.POST("/books/:book_id/reviews", reviewHandler.CreateReview)
	router.DELETE("/reviews/:review_id", reviewHandler.DeleteReview)

	router.POST("/groups", groupHandler.CreateGroup)
	router.GET("/groups", groupHandler.ListGroups)
	router.GET("/groups/:group_id", groupHandler.GetGroup)
	router.PATCH("/groups/:group_id", groupHandler.UpdateGroup)
	router.DELETE("/groups/:group_id", groupHandler.DeleteGroup)
	router.POST("/groups/:group_id/join", groupHandler.JoinGroup)
	router.POST("/groups/:group_id/leave", groupHandler.LeaveGroup)
	router.GET("/groups/:group_id/members", groupHandler.ListMembers)

	router.GET("/groups/:group_id/discussions", discussionHandler.ListGroupDiscussions)
	router.POST("/groups/:group_id/discussions", discussionHandler.CreateDiscussion)
	router.GET("/discussions/:discussion_id", discussionHandler.GetDiscussion)
	router.PATCH("/discussions/:discussion_id", discussionHandler.UpdateDiscussion)
	router.DELETE("/discussions/:discussion_id", discussionHandler.DeleteDiscussion)
	router.GET("/discussions/:discussion_id/messages", discussionHandler.ListMessages)
	router.POST("/discussions/:discussion_id/messages", discussionHandler.PostMessage)

	zap.L().Info("starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("server error", zap.Error(err))
	}
}
