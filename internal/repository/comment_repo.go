package repository

import (
	"context"

	"VidTube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	// 分页获取某个视频下的评论，最新的在前面
	GetCommentsByVideoID(ctx context.Context, videoID uint64, offset, limit int) ([]model.Comment, error)
	CountByVideoID(ctx context.Context, videoID uint64) (int64, error)
	Delete(ctx context.Context, commentID uint64) error
	AdjustLikeCount(ctx context.Context, commentID uint64, delta int) error

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error, "评论不存在")
}

func (r *commentRepository) FindByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Owner").First(&comment, commentID).Error; err != nil {
		return nil, translate(err, "评论不存在")
	}
	return &comment, nil
}

// 预加载评论的Owner信息，避免N+1查询
func (r *commentRepository) GetCommentsByVideoID(ctx context.Context, videoID uint64, offset, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("video_id = ?", videoID).
		Order("created_at desc, id desc").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, translate(err, "评论不存在")
}

func (r *commentRepository) CountByVideoID(ctx context.Context, videoID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, translate(err, "评论不存在")
}

func (r *commentRepository) Delete(ctx context.Context, commentID uint64) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Comment{}, commentID).Error, "评论不存在")
}

func (r *commentRepository) AdjustLikeCount(ctx context.Context, commentID uint64, delta int) error {
	return translate(adjustCounter(r.db.WithContext(ctx), &model.Comment{}, commentID, "like_count", delta), "评论不存在")
}
