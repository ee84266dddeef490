package repository

import (
	"context"

	"VidTube/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	// Find 找不到时返回 (nil, nil)
	Find(ctx context.Context, channelID, subscriberID uint64) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, subID uint64) error

	// 频道的订阅者数量
	CountSubscribers(ctx context.Context, channelID uint64) (int64, error)
	// 用户订阅了多少个频道
	CountSubscribedTo(ctx context.Context, subscriberID uint64) (int64, error)
	SubscriberIDs(ctx context.Context, channelID uint64) ([]uint64, error)
	ChannelIDs(ctx context.Context, subscriberID uint64) ([]uint64, error)

	WithTx(tx *gorm.DB) SubscriptionRepository
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: tx}
}

func (r *subscriptionRepository) Find(ctx context.Context, channelID, subscriberID uint64) (*model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Limit(1).Find(&subs).Error
	if err != nil {
		return nil, translate(err, "订阅关系不存在")
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return &subs[0], nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error, "订阅关系不存在")
}

// 和点赞一样硬删除，避免唯一索引冲突
func (r *subscriptionRepository) Delete(ctx context.Context, subID uint64) error {
	return translate(r.db.WithContext(ctx).Unscoped().Delete(&model.Subscription{}, subID).Error, "订阅关系不存在")
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, translate(err, "订阅关系不存在")
}

func (r *subscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, translate(err, "订阅关系不存在")
}

func (r *subscriptionRepository) SubscriberIDs(ctx context.Context, channelID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).Order("id asc").Pluck("subscriber_id", &ids).Error
	return ids, translate(err, "订阅关系不存在")
}

func (r *subscriptionRepository) ChannelIDs(ctx context.Context, subscriberID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).Order("id asc").Pluck("channel_id", &ids).Error
	return ids, translate(err, "订阅关系不存在")
}
