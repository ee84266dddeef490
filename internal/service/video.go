package service

import (
	"context"
	"fmt"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const defaultVideoDescription = "No Description for the video"

type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	Duration      float64 // 秒，由客户端提供
}

type VideoService interface {
	Publish(ctx context.Context, identity auth.Identity, in PublishVideoInput) (*model.Video, error)
	GetVideoByID(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error)
	// title和description为空表示不修改，但不能都为空
	Update(ctx context.Context, identity auth.Identity, videoID uint64, title, description string) (*model.Video, error)
	Delete(ctx context.Context, identity auth.Identity, videoID uint64) error
	TogglePublish(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error)
	// Watch 记录一次观看：写入观看历史并发布播放事件
	Watch(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo repository.VideoRepository
	uow       data.UnitOfWork
	storage   AssetStorage
	publisher EventPublisher
}

func NewVideoService(videoRepo repository.VideoRepository, uow data.UnitOfWork, storage AssetStorage, publisher EventPublisher) VideoService {
	return &videoService{
		videoRepo: videoRepo,
		uow:       uow,
		storage:   storage,
		publisher: publisher,
	}
}

// 发布视频：1、校验标题和文件 2、上传视频和封面 3、入库
func (s *videoService) Publish(ctx context.Context, identity auth.Identity, in PublishVideoInput) (*model.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("标题不能为空")
	}
	if in.VideoPath == "" {
		return nil, apperr.Validation("缺少视频文件")
	}
	if in.ThumbnailPath == "" {
		return nil, apperr.Validation("缺少封面文件")
	}
	if in.Duration < 0 {
		return nil, apperr.Validation("视频时长不能为负数")
	}
	if s.storage == nil {
		return nil, apperr.Internal("对象存储未配置", nil)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = defaultVideoDescription
	}

	videoFile, err := s.storage.Upload(ctx, in.VideoPath)
	if err != nil {
		return nil, apperr.Internal("视频上传失败", err)
	}
	thumbnail, err := s.storage.Upload(ctx, in.ThumbnailPath)
	if err != nil {
		deleteAssetQuietly(ctx, s.storage, videoFile)
		return nil, apperr.Internal("封面上传失败", err)
	}

	video := &model.Video{
		OwnerID:     identity.UserID,
		Title:       title,
		Description: description,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
		Duration:    in.Duration,
		IsPublished: true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		deleteAssetQuietly(ctx, s.storage, videoFile)
		deleteAssetQuietly(ctx, s.storage, thumbnail)
		return nil, err
	}
	return video, nil
}

// 根据videoID查找视频：1、查找Redis缓存 2、通过SingleFlight进行数据库查找 3、未发布的视频只有作者自己能看到
func (s *videoService) GetVideoByID(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != identity.UserID {
		return nil, apperr.NotFound("视频不存在")
	}
	return video, nil
}

func (s *videoService) loadVideo(ctx context.Context, videoID uint64) (*model.Video, error) {
	logCtx := logger.Log.WithField("video_id", videoID)

	video, err := s.videoRepo.GetVideoCache(ctx, videoID)
	if err != nil {
		// Redis本身出错了，降级直接查库
		logCtx.WithError(err).Warn("读取视频缓存失败")
	} else if video != nil {
		return video, nil
	}

	// 缓存未命中，同一时间对同一个视频的查询只有一个会真正落到数据库
	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(ctx, videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		if cacheErr := s.videoRepo.SetVideoCache(ctx, dbVideo); cacheErr != nil {
			logCtx.WithError(cacheErr).Warn("写入视频缓存失败")
		}
		return dbVideo, nil
	})
	if err != nil {
		return nil, err
	}
	// singleflight的结果是共享的，复制一份再返回
	v := *result.(*model.Video)
	return &v, nil
}

// 修改操作一律查库拿到最新的owner，不走缓存
func (s *videoService) loadOwned(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(video.OwnerID, identity); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) Update(ctx context.Context, identity auth.Identity, videoID uint64, title, description string) (*model.Video, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" && description == "" {
		return nil, apperr.Validation("标题和简介不能都为空")
	}
	if _, err := s.loadOwned(ctx, identity, videoID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if title != "" {
		fields["title"] = title
	}
	if description != "" {
		fields["description"] = description
	}
	if err := s.videoRepo.UpdateDetails(ctx, videoID, fields); err != nil {
		return nil, err
	}
	s.invalidate(ctx, videoID)
	return s.videoRepo.FindByID(ctx, videoID)
}

// 删除视频：1、校验所有者 2、删库 3、清缓存 4、尽力删除对象存储里的文件
func (s *videoService) Delete(ctx context.Context, identity auth.Identity, videoID uint64) error {
	video, err := s.loadOwned(ctx, identity, videoID)
	if err != nil {
		return err
	}
	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return err
	}
	s.invalidate(ctx, videoID)
	deleteAssetQuietly(ctx, s.storage, video.VideoFile)
	deleteAssetQuietly(ctx, s.storage, video.Thumbnail)
	return nil
}

func (s *videoService) TogglePublish(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	video, err := s.loadOwned(ctx, identity, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.videoRepo.SetPublished(ctx, videoID, !video.IsPublished); err != nil {
		return nil, err
	}
	s.invalidate(ctx, videoID)
	video.IsPublished = !video.IsPublished
	return video, nil
}

// 观看：1、确认视频对调用者可见 2、在事务中把视频移到观看历史末尾 3、发布播放事件，由消费者累加播放量
func (s *videoService) Watch(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	video, err := s.GetVideoByID(ctx, identity, videoID)
	if err != nil {
		return nil, err
	}
	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		return repos.WatchHistoryRepo.Append(ctx, identity.UserID, videoID)
	})
	if err != nil {
		return nil, err
	}
	publishEngagement(s.publisher, EngagementMessage{
		UserID:     identity.UserID,
		TargetKind: model.TargetVideo,
		TargetID:   videoID,
		Action:     ActionView,
	})
	return video, nil
}

func (s *videoService) invalidate(ctx context.Context, videoID uint64) {
	if err := s.videoRepo.DeleteVideoCache(ctx, videoID); err != nil {
		logger.Log.WithField("video_id", videoID).WithError(err).Warn("删除视频缓存失败")
	}
}
