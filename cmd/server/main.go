package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"VidTube/internal/auth"
	"VidTube/internal/config"
	"VidTube/internal/data"
	"VidTube/internal/handler"
	"VidTube/internal/middleware"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/internal/router"
	"VidTube/internal/service"
	"VidTube/internal/storage"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"
	"VidTube/pkg/redis"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 加载配置，.env文件可选
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("配置加载失败: %v", err)
	}
	// 初始化logger
	logger.InitLogger(cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化Redis
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ，并确保互动事件队列存在
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueEngagement); err != nil {
		logger.Log.Fatalf("声明队列失败: %v", err)
	}
	logger.Log.Info("RabbitMQ连接成功")

	// 这个mysql包是gorm的第三方承包商，mysql.Open()后还是只能执行原始SQL语句，gorm.Open()后可以执行gorm的简化语句
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatalf("获取数据库连接池失败: %v", err)
	}
	defer sqlDB.Close()
	logger.Log.Info("数据库连接成功")
	// db.AutoMigrate(),没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
	err = db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Tweet{},
		&model.Like{},
		&model.Subscription{},
		&model.WatchHistoryEntry{},
	)
	if err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	assetStorage, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Fatalf("初始化对象存储失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(db)

	uow := data.NewUnitOfWork(db, data.Repositories{
		Videos:        videoRepo,
		Comments:      commentRepo,
		Tweets:        tweetRepo,
		Likes:         likeRepo,
		Subscriptions: subRepo,
		WatchHistory:  historyRepo,
	})

	tokens, err := auth.NewTokenService(userRepo, cfg.Token)
	if err != nil {
		logger.Log.Fatalf("初始化token服务失败: %v", err)
	}
	publisher := rabbitmq.NewPublisher(rabbitMQConn)

	userService := service.NewUserService(userRepo, tokens, assetStorage)
	videoService := service.NewVideoService(videoRepo, uow, assetStorage, publisher)
	tweetService := service.NewTweetService(tweetRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	likeService := service.NewLikeService(videoRepo, commentRepo, tweetRepo, uow, publisher)
	subscriptionService := service.NewSubscriptionService(userRepo, subRepo, uow)
	aggregator := service.NewAggregator(userRepo, videoRepo, subRepo, likeRepo, historyRepo)

	opts := handler.Options{
		UploadTmpDir: cfg.UploadTmpDir,
		CookieSecure: cfg.CookieSecure,
		AccessTTL:    cfg.Token.AccessTTL,
		RefreshTTL:   cfg.Token.RefreshTTL,
	}
	rabbitMQCheck := func(ctx context.Context) error {
		if rabbitMQConn.IsClosed() {
			return errors.New("connection closed")
		}
		return nil
	}
	healthChecks := map[string]handler.HealthCheck{
		"mysql":    sqlDB.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		"rabbitmq": rabbitMQCheck,
	}
	handlers := router.Handlers{
		User:         handler.NewUserHandler(userService, aggregator, opts),
		Video:        handler.NewVideoHandler(videoService, aggregator, opts),
		Comment:      handler.NewCommentHandler(commentService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Like:         handler.NewLikeHandler(likeService, aggregator),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Health:       handler.NewHealthHandler(healthChecks),
	}
	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimitPerMinute, time.Minute, cfg.AuthRateLimitBurst, 10*time.Minute)

	r := router.SetupRouter(handlers, middleware.AuthMiddleware(tokens, userRepo), authLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Infof("服务器将在: %s端口启动", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("收到退出信号，开始关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("服务器关闭失败")
	}
	logger.Log.Info("服务器已退出")
}
