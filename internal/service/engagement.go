package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"VidTube/internal/apperr"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrMalformedEvent 消息本身有问题，重新投递也不会成功，消费者应该直接丢弃
var ErrMalformedEvent = errors.New("malformed engagement event")

// EngagementProjector 消费互动事件，维护视频/评论/动态上冗余的点赞数和播放量
type EngagementProjector struct {
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

func NewEngagementProjector(
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *EngagementProjector {
	return &EngagementProjector{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Handle 处理一条消息体：格式错误返回ErrMalformedEvent，对象已被删除时忽略，其它存储错误原样返回交给消费者重试
func (p *EngagementProjector) Handle(ctx context.Context, body []byte) error {
	var msg EngagementMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	logCtx := logger.Log.WithFields(logrus.Fields{
		"user_id":     msg.UserID,
		"target_kind": msg.TargetKind,
		"target_id":   msg.TargetID,
		"action":      msg.Action,
	})
	if msg.TargetID == 0 || !msg.TargetKind.Valid() {
		return fmt.Errorf("%w: invalid target %s:%d", ErrMalformedEvent, msg.TargetKind, msg.TargetID)
	}

	var err error
	switch msg.Action {
	case ActionLike:
		err = p.adjustLikes(ctx, msg.TargetKind, msg.TargetID, 1)
	case ActionUnlike:
		err = p.adjustLikes(ctx, msg.TargetKind, msg.TargetID, -1)
	case ActionView:
		if msg.TargetKind != model.TargetVideo {
			return fmt.Errorf("%w: view on %s", ErrMalformedEvent, msg.TargetKind)
		}
		err = p.videoRepo.IncrementViews(ctx, msg.TargetID)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrMalformedEvent, msg.Action)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		logCtx.Warn("互动对象已不存在，忽略该事件")
		return nil
	}
	if err != nil {
		return err
	}

	// 计数变了，缓存里的视频要失效
	if msg.TargetKind == model.TargetVideo {
		if cacheErr := p.videoRepo.DeleteVideoCache(ctx, msg.TargetID); cacheErr != nil {
			logCtx.WithError(cacheErr).Warn("删除视频缓存失败")
		}
	}
	logCtx.Debug("互动事件处理完成")
	return nil
}

func (p *EngagementProjector) adjustLikes(ctx context.Context, kind model.TargetKind, id uint64, delta int) error {
	switch kind {
	case model.TargetVideo:
		return p.videoRepo.AdjustLikeCount(ctx, id, delta)
	case model.TargetComment:
		return p.commentRepo.AdjustLikeCount(ctx, id, delta)
	case model.TargetTweet:
		return p.tweetRepo.AdjustLikeCount(ctx, id, delta)
	}
	return fmt.Errorf("%w: invalid kind %s", ErrMalformedEvent, kind)
}
