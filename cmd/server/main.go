package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alertdesk_go/internal/config"
	"alertdesk_go/internal/handler"
	"alertdesk_go/internal/middleware"
	"alertdesk_go/internal/repository"
	"alertdesk_go/internal/service"
	"alertdesk_go/pkg/database"
	"alertdesk_go/pkg/log"
	"alertdesk_go/pkg/mail"
	"alertdesk_go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("ALERTDESK_CONFIG"); p != "" {
		configPath = p
	}
	config.Init(configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	database.InitMySQL(cfg.Database.MySQL.DSN)
	if err := database.RunMigrate(); err != nil {
		log.Fatal("Failed to run migrations", err)
	}
	if cfg.Database.Redis.Addr != "" {
		database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	} else {
		log.Warnf("Redis is not configured: logout blacklist and runtime feature flags are disabled")
	}

	// 仓库与 post-save 信号
	signals := repository.NewPostSave()
	userRepo := repository.NewUserRepository(database.DB)
	alertRepo := repository.NewAlertRepository(database.DB, signals.Alert)
	analysisRepo := repository.NewAnalysisRepository(database.DB, signals.Analysis)
	commentRepo := repository.NewCommentRepository(database.DB, signals.Comment)
	tagRepo := repository.NewTagRepository(database.DB)
	relationRepo := repository.NewTagRelationRepository(database.DB)
	taggerRepo := repository.NewDataTaggerRepository(database.DB)

	// 通知与自动打标接收者
	flags := service.NewFeatureFlags(database.RDB, cfg.EmailsEnabled())
	mailer := mail.New(mail.Options{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		NoVerify: cfg.Mail.NoVerify,
	})
	notifier := service.NewCommentNotifier(flags, service.NewCommentEmailComposer(mailer, cfg.Server.BaseURL), userRepo)
	tagger := service.NewTagger(tagRepo, relationRepo, taggerRepo)
	service.RegisterReceivers(signals, notifier, tagger)

	jwtManager := token.NewJWTManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpireHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshTokenExpireDays)*24*time.Hour,
	)
	userService := service.NewUserService(userRepo, jwtManager, database.RDB)
	alertService := service.NewAlertService(alertRepo, analysisRepo, commentRepo, relationRepo)
	tagService := service.NewTagService(tagRepo, relationRepo, taggerRepo)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	userHandler := handler.NewUserHandler(userService)
	alertHandler := handler.NewAlertHandler(alertService)
	tagHandler := handler.NewTagHandler(tagService, flags)

	api := r.Group("/api/v1")
	{
		api.POST("/users/register", userHandler.Register)
		api.POST("/users/login", userHandler.Login)
	}

	auth := api.Group("", middleware.AuthMiddleware(jwtManager, userService, database.RDB))
	{
		auth.GET("/users/me", userHandler.GetProfile)
		auth.POST("/users/logout", userHandler.Logout)

		auth.GET("/alerts", alertHandler.ListAlerts)
		auth.POST("/alerts", alertHandler.CreateAlert)
		auth.GET("/alerts/:id", alertHandler.GetAlert)
		auth.PUT("/alerts/:id", alertHandler.UpdateAlert)
		auth.PUT("/alerts/:id/analysis", alertHandler.SaveAnalysis)
		auth.POST("/alerts/:id/comments", alertHandler.AddComment)
		auth.PUT("/comments/:id", alertHandler.UpdateComment)

		auth.GET("/tags", tagHandler.ListTags)
		auth.GET("/tag-relations", tagHandler.ListRelations)
	}

	admin := auth.Group("/admin", middleware.AdminAuthMiddleware())
	{
		admin.POST("/tags", tagHandler.CreateTag)
		admin.GET("/datataggers", tagHandler.ListDataTaggers)
		admin.POST("/datataggers", tagHandler.CreateDataTagger)
		admin.PUT("/features/emails", tagHandler.SetEmailNotifications)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务监听失败: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	service.UnregisterReceivers(signals)

	log.Info("服务已优雅关闭")
}
