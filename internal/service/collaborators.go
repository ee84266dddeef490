package service

import (
	"context"

	"VidTube/internal/model"
	"VidTube/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueEngagement = "vidtube.engagement.queue"

	ActionLike   = "like"
	ActionUnlike = "unlike"
	ActionView   = "view"
)

// EngagementMessage 在MQ中传递的互动事件，消费者据此维护点赞数和播放量
type EngagementMessage struct {
	UserID     uint64           `json:"user_id"`
	TargetKind model.TargetKind `json:"target_kind"`
	TargetID   uint64           `json:"target_id"`
	Action     string           `json:"action"` // "like" / "unlike" / "view"
}

// EventPublisher 由 pkg/rabbitmq.Publisher 实现
type EventPublisher interface {
	Publish(queue string, msg interface{}) error
}

// AssetStorage 对象存储：上传本地文件、按PublicID删除，两者都可能失败，且不参与数据库事务
type AssetStorage interface {
	Upload(ctx context.Context, localPath string) (model.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// 事件是尽力而为的：主操作已经提交，发布失败只记日志
func publishEngagement(pub EventPublisher, msg EngagementMessage) {
	if pub == nil {
		return
	}
	if err := pub.Publish(QueueEngagement, msg); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id":     msg.UserID,
			"target_kind": msg.TargetKind,
			"target_id":   msg.TargetID,
			"action":      msg.Action,
		}).WithError(err).Warn("发布互动事件失败")
	}
}

// 替换或删除之后清理旧文件，失败只记日志，不回滚主操作
func deleteAssetQuietly(ctx context.Context, storage AssetStorage, asset model.Asset) {
	if storage == nil || asset.PublicID == "" {
		return
	}
	if err := storage.Delete(ctx, asset.PublicID); err != nil {
		logger.Log.WithField("public_id", asset.PublicID).WithError(err).Warn("删除旧文件失败")
	}
}
