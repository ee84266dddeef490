package repository

import (
	"context"

	"VidTube/internal/apperr"
	"VidTube/internal/model"
	"VidTube/internal/pipeline"

	"gorm.io/gorm"
)

type LikeRepository interface {
	// Find 找不到时返回 (nil, nil)
	Find(ctx context.Context, userID uint64, target model.LikeTarget) (*model.Like, error)
	Create(ctx context.Context, like *model.Like) error
	Delete(ctx context.Context, likeID uint64) error
	// LikedVideoIDs 按点赞的先后顺序返回用户点过赞的视频ID
	LikedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error)

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Find(ctx context.Context, userID uint64, target model.LikeTarget) (*model.Like, error) {
	var likes []model.Like
	err := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Limit(1).Find(&likes).Error
	if err != nil {
		return nil, translate(err, "点赞记录不存在")
	}
	if len(likes) == 0 {
		return nil, nil
	}
	return &likes[0], nil
}

func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	return translate(r.db.WithContext(ctx).Create(like).Error, "点赞记录不存在")
}

// 硬删除：软删除的行仍然占着唯一索引，再点赞就会冲突
func (r *likeRepository) Delete(ctx context.Context, likeID uint64) error {
	return translate(r.db.WithContext(ctx).Unscoped().Delete(&model.Like{}, likeID).Error, "点赞记录不存在")
}

func (r *likeRepository) LikedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	p, err := pipeline.New(
		pipeline.Match{Conditions: []pipeline.Condition{
			pipeline.Eq("liked_by", userID),
			pipeline.Eq("target_kind", model.TargetVideo),
		}},
		pipeline.Sort{Field: "id"},
	)
	if err != nil {
		return nil, apperr.Internal("构造查询失败", err)
	}
	var ids []uint64
	err = p.Apply(r.db.WithContext(ctx).Model(&model.Like{})).Pluck("target_id", &ids).Error
	return ids, translate(err, "点赞记录不存在")
}
