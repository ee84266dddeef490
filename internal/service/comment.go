package service

import (
	"context"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/model"
	"VidTube/internal/repository"
)

const (
	defaultCommentPageSize = 20
	maxCommentPageSize     = 100
)

type CommentPage struct {
	Comments []model.Comment
	Total    int64
	Page     int
	PageSize int
}

type CommentService interface {
	CreateComment(ctx context.Context, identity auth.Identity, videoID uint64, content string) (*model.Comment, error)
	GetComments(ctx context.Context, identity auth.Identity, videoID uint64, page, pageSize int) (*CommentPage, error)
	DeleteComment(ctx context.Context, identity auth.Identity, commentID uint64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

// 未发布的视频对作者以外的人等同于不存在
func (s *commentService) visibleVideo(ctx context.Context, identity auth.Identity, videoID uint64) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !video.IsPublished && video.OwnerID != identity.UserID {
		return apperr.NotFound("视频不存在")
	}
	return nil
}

// 发表评论：1、校验内容 2、检查视频是否存在 3、入库后回填作者信息
func (s *commentService) CreateComment(ctx context.Context, identity auth.Identity, videoID uint64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("评论内容不能为空")
	}
	if err := s.visibleVideo(ctx, identity, videoID); err != nil {
		return nil, err
	}
	comment := &model.Comment{
		VideoID: videoID,
		OwnerID: identity.UserID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Owner = model.User{
		BaseModel: model.BaseModel{ID: identity.UserID},
		Username:  identity.Username,
		FullName:  identity.FullName,
	}
	return comment, nil
}

func (s *commentService) GetComments(ctx context.Context, identity auth.Identity, videoID uint64, page, pageSize int) (*CommentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultCommentPageSize
	}
	if pageSize > maxCommentPageSize {
		pageSize = maxCommentPageSize
	}
	if err := s.visibleVideo(ctx, identity, videoID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.GetCommentsByVideoID(ctx, videoID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: comments, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *commentService) DeleteComment(ctx context.Context, identity auth.Identity, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(comment.OwnerID, identity); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
