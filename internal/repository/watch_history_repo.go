package repository

import (
	"context"

	"VidTube/internal/model"

	"gorm.io/gorm"
)

type WatchHistoryRepository interface {
	// Append 把视频移到历史的末尾，同一个视频只保留一条
	Append(ctx context.Context, userID, videoID uint64) error
	// VideoIDs 按观看顺序返回，最近看的在最后
	VideoIDs(ctx context.Context, userID uint64) ([]uint64, error)

	WithTx(tx *gorm.DB) WatchHistoryRepository
}

type watchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) WithTx(tx *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: tx}
}

// 先删旧的再插新的，新记录的自增ID最大，自然排在最后；调用方需要保证在事务里执行
func (r *watchHistoryRepository) Append(ctx context.Context, userID, videoID uint64) error {
	db := r.db.WithContext(ctx)
	err := db.Unscoped().Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&model.WatchHistoryEntry{}).Error
	if err != nil {
		return translate(err, "观看记录不存在")
	}
	return translate(db.Create(&model.WatchHistoryEntry{UserID: userID, VideoID: videoID}).Error, "观看记录不存在")
}

func (r *watchHistoryRepository) VideoIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.WatchHistoryEntry{}).
		Where("user_id = ?", userID).Order("id asc").Pluck("video_id", &ids).Error
	return ids, translate(err, "观看记录不存在")
}
