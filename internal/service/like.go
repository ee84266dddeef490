package service

import (
	"context"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"

	"github.com/sirupsen/logrus"
)

type LikeService interface {
	// ToggleLike 已点赞则取消，未点赞则点赞，返回操作之后的状态
	ToggleLike(ctx context.Context, identity auth.Identity, target model.LikeTarget) (bool, error)
}

type likeService struct {
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	uow         data.UnitOfWork
	publisher   EventPublisher
}

func NewLikeService(
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
	uow data.UnitOfWork,
	publisher EventPublisher,
) LikeService {
	return &likeService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		uow:         uow,
		publisher:   publisher,
	}
}

// 点赞开关：1、检查点赞对象是否存在 2、事务中查找已有记录，有则删除，无则插入 3、提交后发布事件，由消费者维护点赞数
func (s *likeService) ToggleLike(ctx context.Context, identity auth.Identity, target model.LikeTarget) (bool, error) {
	if !target.Kind.Valid() {
		return false, apperr.Validation("不支持的点赞类型")
	}
	if target.ID == 0 {
		return false, apperr.Validation("无效的点赞对象ID")
	}
	if err := s.ensureTarget(ctx, identity, target); err != nil {
		return false, err
	}

	var liked bool
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		existing, err := repos.LikeRepo.Find(ctx, identity.UserID, target)
		if err != nil {
			return err
		}
		if existing != nil {
			liked = false
			return repos.LikeRepo.Delete(ctx, existing.ID)
		}
		liked = true
		return repos.LikeRepo.Create(ctx, &model.Like{
			LikedBy:    identity.UserID,
			TargetKind: target.Kind,
			TargetID:   target.ID,
		})
	})
	if err != nil {
		return false, err
	}

	action := ActionUnlike
	if liked {
		action = ActionLike
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"target":  target.String(),
		"action":  action,
	}).Info("点赞状态已切换")
	publishEngagement(s.publisher, EngagementMessage{
		UserID:     identity.UserID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
		Action:     action,
	})
	return liked, nil
}

func (s *likeService) ensureTarget(ctx context.Context, identity auth.Identity, target model.LikeTarget) error {
	switch target.Kind {
	case model.TargetVideo:
		video, err := s.videoRepo.FindByID(ctx, target.ID)
		if err != nil {
			return err
		}
		if !video.IsPublished && video.OwnerID != identity.UserID {
			return apperr.NotFound("视频不存在")
		}
		return nil
	case model.TargetComment:
		_, err := s.commentRepo.FindByID(ctx, target.ID)
		return err
	case model.TargetTweet:
		_, err := s.tweetRepo.FindByID(ctx, target.ID)
		return err
	}
	return apperr.Validation("不支持的点赞类型")
}
