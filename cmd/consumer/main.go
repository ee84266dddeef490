package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"VidTube/internal/config"
	"VidTube/internal/repository"
	"VidTube/internal/service"
	"VidTube/pkg/logger"
	"VidTube/pkg/rabbitmq"
	"VidTube/pkg/redis"

	"github.com/streadway/amqp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 消费者进程：连接mysql、redis、rabbitMQ，把互动事件投影成视频/评论/动态上的点赞数和播放量
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("配置加载失败: %v", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 连接数据库
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 计数变化后要删除视频缓存
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueEngagement); err != nil {
		logger.Log.Fatalf("声明队列失败: %v", err)
	}

	projector := service.NewEngagementProjector(
		repository.NewVideoRepository(db, redisClient),
		repository.NewCommentRepository(db),
		repository.NewTweetRepository(db),
	)
	consumeEngagement(ctx, rabbitMQConn, projector)
}

// 互动事件消费者：1、通过mq的TCP连接创建channel 2、注册消费者，手动确认 3、持续消费消息，交给projector处理 4、根据处理结果Ack或Nack
func consumeEngagement(ctx context.Context, conn *amqp.Connection, projector *service.EngagementProjector) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 每次最多预取32条，处理完再拿新的
	if err := ch.Qos(32, 0, false); err != nil {
		logger.Log.Fatalf("设置Qos失败: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueueEngagement, // queue
		"",                      // consumer
		false,                   // auto-ack: 处理成功后再手动确认
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册互动事件消费者: %v", err)
	}
	logger.Log.Info(" [*] 等待互动事件中. 按 CTRL+C 退出")

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("收到退出信号，消费者停止")
			return
		case d, ok := <-msgs:
			// msgs是通道，连接断开时会被关闭
			if !ok {
				logger.Log.Error("消息通道已关闭，消费者退出")
				return
			}
			handleDelivery(ctx, d, projector)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, projector *service.EngagementProjector) {
	logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)

	err := projector.Handle(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, service.ErrMalformedEvent):
		// 对于无法解析的“坏消息”，通知mq处理失败，并直接删除
		logCtx.WithError(err).Error("丢弃格式错误的消息")
		_ = d.Nack(false, false)
	default:
		// 其他类型错误，才要求重试
		logCtx.WithError(err).Error("处理消息失败，将进行重试")
		_ = d.Nack(false, true)
	}
}
