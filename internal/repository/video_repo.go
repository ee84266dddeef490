package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"VidTube/internal/model"
	"VidTube/internal/pipeline"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, videoID uint64) (*model.Video, error)
	FindByIDs(ctx context.Context, videoIDs []uint64) ([]model.Video, error)
	FindByOwner(ctx context.Context, ownerID uint64) ([]model.Video, error)
	// Aggregate 按管道声明的阶段顺序执行查询
	Aggregate(ctx context.Context, p pipeline.Pipeline) ([]model.Video, error)

	UpdateDetails(ctx context.Context, videoID uint64, fields map[string]interface{}) error
	SetPublished(ctx context.Context, videoID uint64, published bool) error
	Delete(ctx context.Context, videoID uint64) error

	IncrementViews(ctx context.Context, videoID uint64) error
	AdjustLikeCount(ctx context.Context, videoID uint64, delta int) error

	GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error)
	SetVideoCache(ctx context.Context, video *model.Video) error
	DeleteVideoCache(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// rdb可以为nil（事务里、消费者进程里），此时不读写缓存
func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回一个使用事务、不带缓存的实例
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return translate(r.db.WithContext(ctx).Create(video).Error, "视频不存在")
}

// 利用videoID找视频，preload其中的Owner
func (r *videoRepository) FindByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).Preload("Owner").First(&video, videoID).Error; err != nil {
		return nil, translate(err, "视频不存在")
	}
	return &video, nil
}

// 已删除的视频不会出现在结果里，调用方自己处理缺失
func (r *videoRepository) FindByIDs(ctx context.Context, videoIDs []uint64) ([]model.Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.WithContext(ctx).Where("id IN ?", videoIDs).Find(&videos).Error
	return videos, translate(err, "视频不存在")
}

func (r *videoRepository) FindByOwner(ctx context.Context, ownerID uint64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").Find(&videos).Error
	return videos, translate(err, "视频不存在")
}

func (r *videoRepository) Aggregate(ctx context.Context, p pipeline.Pipeline) ([]model.Video, error) {
	var videos []model.Video
	err := p.Apply(r.db.WithContext(ctx).Model(&model.Video{})).Find(&videos).Error
	return videos, translate(err, "视频不存在")
}

func (r *videoRepository) UpdateDetails(ctx context.Context, videoID uint64, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).Updates(fields).Error
	return translate(err, "视频不存在")
}

// Updates(map) 才能把false写进去，结构体方式会忽略零值
func (r *videoRepository) SetPublished(ctx context.Context, videoID uint64, published bool) error {
	return r.UpdateDetails(ctx, videoID, map[string]interface{}{"is_published": published})
}

func (r *videoRepository) Delete(ctx context.Context, videoID uint64) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Video{}, videoID).Error, "视频不存在")
}

// UPDATE `videos` SET `views` = `views` + 1 WHERE id = ?
func (r *videoRepository) IncrementViews(ctx context.Context, videoID uint64) error {
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return translate(err, "视频不存在")
}

func (r *videoRepository) AdjustLikeCount(ctx context.Context, videoID uint64, delta int) error {
	return translate(adjustCounter(r.db.WithContext(ctx), &model.Video{}, videoID, "like_count", delta), "视频不存在")
}

// 返回存储单个视频信息的字符串Key
func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("vidtube:video:info:%d", videoID)
}

// 从Redis缓存中获取单个Video，缓存不存在但Redis正常时返回 (nil, nil)
func (r *videoRepository) GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) SetVideoCache(ctx context.Context, video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	// 过期时间加上随机性防止缓存雪崩
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

func (r *videoRepository) DeleteVideoCache(ctx context.Context, videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, r.keyVideoInfo(videoID)).Err()
}

// adjustCounter 原子地加减计数列，减的时候不会减到0以下
func adjustCounter(db *gorm.DB, m interface{}, id uint64, column string, delta int) error {
	switch {
	case delta > 0:
		return db.Model(m).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	case delta < 0:
		return db.Model(m).Where("id = ? AND "+column+" >= ?", id, -delta).UpdateColumn(column, gorm.Expr(column+" - ?", -delta)).Error
	}
	return nil
}
