package service

import (
	"context"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/model"
	"VidTube/internal/pipeline"
	"VidTube/internal/repository"
)

const (
	// 搜索分页时跳过的条数固定按每页10条计算，和请求的limit无关
	listSkipPageSize = 10
	defaultListLimit = 2
	maxListLimit     = 100
)

// 允许排序的字段，键是接口上的写法，值是列名
var sortableVideoFields = map[string]string{
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"duration":  "duration",
	"likeCount": "like_count",
}

// 查询结果只暴露这些列
var publicVideoColumns = []string{
	"id", "created_at", "updated_at", "owner_id", "title", "description",
	"video_file_public_id", "video_file_url", "thumbnail_public_id", "thumbnail_url",
	"duration", "views", "like_count", "is_published",
}

// ChannelProfile 频道主页，只包含可以公开的字段
type ChannelProfile struct {
	FullName          string
	Username          string
	Email             string
	Avatar            string
	CoverImage        string
	SubscriberCount   int64
	SubscribedToCount int64
	IsSubscribed      bool
}

// OwnerSummary 观看历史里视频作者的精简信息
type OwnerSummary struct {
	Username string
	FullName string
	Avatar   string
}

type WatchedVideo struct {
	Video model.Video
	Owner OwnerSummary
}

type VideoQuery struct {
	OwnerID  uint64
	Query    string
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

type VideoPage struct {
	Videos   []model.Video
	Length   int
	NextPage int // 0 表示没有分页（未提供搜索词时返回全部）
}

// Aggregator 只读的组合查询，一次调用会做多次独立的读，不保证读之间的一致性
type Aggregator interface {
	BuildChannelProfile(ctx context.Context, username string, viewerID uint64) (*ChannelProfile, error)
	BuildWatchHistory(ctx context.Context, viewerID uint64) ([]WatchedVideo, error)
	BuildLikedVideos(ctx context.Context, viewerID uint64) ([]model.Video, error)
	ListVideos(ctx context.Context, q VideoQuery) (*VideoPage, error)
}

type aggregator struct {
	users   repository.UserRepository
	videos  repository.VideoRepository
	subs    repository.SubscriptionRepository
	likes   repository.LikeRepository
	history repository.WatchHistoryRepository
}

func NewAggregator(
	users repository.UserRepository,
	videos repository.VideoRepository,
	subs repository.SubscriptionRepository,
	likes repository.LikeRepository,
	history repository.WatchHistoryRepository,
) Aggregator {
	return &aggregator{
		users:   users,
		videos:  videos,
		subs:    subs,
		likes:   likes,
		history: history,
	}
}

// 频道主页：1、按用户名找到频道 2、统计订阅者和订阅数 3、查看者是否已订阅
func (a *aggregator) BuildChannelProfile(ctx context.Context, username string, viewerID uint64) (*ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.Validation("用户名不能为空")
	}
	channel, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	subscriberCount, err := a.subs.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	subscribedToCount, err := a.subs.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	sub, err := a.subs.Find(ctx, channel.ID, viewerID)
	if err != nil {
		return nil, err
	}

	return &ChannelProfile{
		FullName:          channel.FullName,
		Username:          channel.Username,
		Email:             channel.Email,
		Avatar:            channel.Avatar.URL,
		CoverImage:        channel.CoverImage.URL,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      sub != nil,
	}, nil
}

// 观看历史：按观看顺序返回，已经被删除的视频或作者直接跳过
func (a *aggregator) BuildWatchHistory(ctx context.Context, viewerID uint64) ([]WatchedVideo, error) {
	ids, err := a.history.VideoIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	videos, err := a.videosInOrder(ctx, ids)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]uint64, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := a.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	ownerByID := make(map[uint64]model.User, len(owners))
	for _, u := range owners {
		ownerByID[u.ID] = u
	}

	result := make([]WatchedVideo, 0, len(videos))
	for _, v := range videos {
		owner, ok := ownerByID[v.OwnerID]
		if !ok {
			continue
		}
		result = append(result, WatchedVideo{
			Video: v,
			Owner: OwnerSummary{
				Username: owner.Username,
				FullName: owner.FullName,
				Avatar:   owner.Avatar.URL,
			},
		})
	}
	return result, nil
}

// 点赞过的视频：只看指向视频的点赞记录，保持点赞的先后顺序
func (a *aggregator) BuildLikedVideos(ctx context.Context, viewerID uint64) ([]model.Video, error) {
	ids, err := a.likes.LikedVideoIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return a.videosInOrder(ctx, ids)
}

// 视频列表：
// 1、没有搜索词时直接返回该用户的全部视频，不分页
// 2、否则 标题包含q 且 简介包含q 且 作者匹配 → 排序 → 跳过(page-1)*10条 → 取limit条 → 投影
func (a *aggregator) ListVideos(ctx context.Context, q VideoQuery) (*VideoPage, error) {
	if q.OwnerID == 0 {
		return nil, apperr.Validation("userId 不能为空")
	}
	query := strings.TrimSpace(q.Query)
	if query == "" {
		videos, err := a.videos.FindByOwner(ctx, q.OwnerID)
		if err != nil {
			return nil, err
		}
		return &VideoPage{Videos: videos, Length: len(videos)}, nil
	}

	p, err := buildVideoSearch(q.OwnerID, query, q.Page, q.Limit, q.SortBy, q.SortDesc)
	if err != nil {
		return nil, err
	}
	videos, err := a.videos.Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return &VideoPage{Videos: videos, Length: len(videos), NextPage: page + 1}, nil
}

func buildVideoSearch(ownerID uint64, query string, page, limit int, sortBy string, desc bool) (pipeline.Pipeline, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if sortBy == "" {
		sortBy = "title"
	}
	column, ok := sortableVideoFields[sortBy]
	if !ok {
		return pipeline.Pipeline{}, apperr.Validation("不支持的排序字段: " + sortBy)
	}

	p, err := pipeline.New(
		pipeline.Match{Conditions: []pipeline.Condition{
			pipeline.ContainsFold("title", query),
			pipeline.ContainsFold("description", query),
			pipeline.Eq("owner_id", ownerID),
		}},
		pipeline.Sort{Field: column, Desc: desc},
		// 排序字段相同时按id保证分页稳定
		pipeline.Sort{Field: "id"},
		pipeline.Skip{N: (page - 1) * listSkipPageSize},
		pipeline.Limit{N: limit},
		pipeline.Project{Fields: publicVideoColumns},
	)
	if err != nil {
		return pipeline.Pipeline{}, apperr.Internal("构造查询失败", err)
	}
	return p, nil
}

// 按ids的顺序取出视频，不存在的跳过
func (a *aggregator) videosInOrder(ctx context.Context, ids []uint64) ([]model.Video, error) {
	if len(ids) == 0 {
		return []model.Video{}, nil
	}
	videos, err := a.videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}
