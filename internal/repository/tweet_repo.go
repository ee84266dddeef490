package repository

import (
	"context"

	"VidTube/internal/model"

	"gorm.io/gorm"
)

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error)
	FindByOwner(ctx context.Context, ownerID uint64) ([]model.Tweet, error)
	UpdateContent(ctx context.Context, tweetID uint64, content string) error
	Delete(ctx context.Context, tweetID uint64) error
	AdjustLikeCount(ctx context.Context, tweetID uint64, delta int) error

	WithTx(tx *gorm.DB) TweetRepository
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) WithTx(tx *gorm.DB) TweetRepository {
	return &tweetRepository{db: tx}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return translate(r.db.WithContext(ctx).Create(tweet).Error, "动态不存在")
}

func (r *tweetRepository) FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).Preload("Owner").First(&tweet, tweetID).Error; err != nil {
		return nil, translate(err, "动态不存在")
	}
	return &tweet, nil
}

// 最新的在前面
func (r *tweetRepository) FindByOwner(ctx context.Context, ownerID uint64) ([]model.Tweet, error) {
	var tweets []model.Tweet
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ?", ownerID).Order("created_at desc, id desc").Find(&tweets).Error
	return tweets, translate(err, "动态不存在")
}

func (r *tweetRepository) UpdateContent(ctx context.Context, tweetID uint64, content string) error {
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", tweetID).Update("content", content).Error
	return translate(err, "动态不存在")
}

func (r *tweetRepository) Delete(ctx context.Context, tweetID uint64) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Tweet{}, tweetID).Error, "动态不存在")
}

func (r *tweetRepository) AdjustLikeCount(ctx context.Context, tweetID uint64, delta int) error {
	return translate(adjustCounter(r.db.WithContext(ctx), &model.Tweet{}, tweetID, "like_count", delta), "动态不存在")
}
