package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/pipeline"
	"VidTube/internal/repository"

	"gorm.io/gorm"
)

// memStore 所有fake仓库共享的内存“数据库”
type memStore struct {
	mu     sync.Mutex
	nextID uint64

	users    map[uint64]*model.User
	videos   map[uint64]*model.Video
	tweets   map[uint64]*model.Tweet
	comments map[uint64]*model.Comment
	likes    []model.Like
	subs     []model.Subscription
	history  []model.WatchHistoryEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uint64]*model.User{},
		videos:   map[uint64]*model.Video{},
		tweets:   map[uint64]*model.Tweet{},
		comments: map[uint64]*model.Comment{},
	}
}

func (s *memStore) newID() uint64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) now() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.nextID) * time.Minute)
}

type fakeUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.Conflict("记录已存在")
		}
	}
	user.ID = r.s.newID()
	user.CreatedAt = r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, userID uint64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, apperr.NotFound("用户不存在")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, userIDs []uint64) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, id := range userIDs {
		if u, ok := r.s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.FindByUsernameOrEmail(ctx, username, "")
}

func (r *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("用户不存在")
}

func (r *fakeUserRepo) update(userID uint64, fn func(u *model.User) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	return fn(u)
}

func (r *fakeUserRepo) UpdateRefreshToken(ctx context.Context, userID uint64, refreshToken string) error {
	return r.update(userID, func(u *model.User) error { u.RefreshToken = refreshToken; return nil })
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	return r.update(userID, func(u *model.User) error { u.Password = passwordHash; return nil })
}

func (r *fakeUserRepo) UpdateAccount(ctx context.Context, userID uint64, fullName, email string) error {
	r.s.mu.Lock()
	for id, u := range r.s.users {
		if id != userID && u.Email == email {
			r.s.mu.Unlock()
			return apperr.Conflict("记录已存在")
		}
	}
	r.s.mu.Unlock()
	return r.update(userID, func(u *model.User) error { u.FullName, u.Email = fullName, email; return nil })
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userID uint64, avatar model.Asset) error {
	return r.update(userID, func(u *model.User) error { u.Avatar = avatar; return nil })
}

func (r *fakeUserRepo) UpdateCoverImage(ctx context.Context, userID uint64, cover model.Asset) error {
	return r.update(userID, func(u *model.User) error { u.CoverImage = cover; return nil })
}

type fakeVideoRepo struct {
	s *memStore

	cache     map[uint64]model.Video
	cacheErr  error
	findCalls int32
	findDelay time.Duration
}

var _ repository.VideoRepository = (*fakeVideoRepo)(nil)

func (r *fakeVideoRepo) WithTx(tx *gorm.DB) repository.VideoRepository { return r }

func (r *fakeVideoRepo) Create(ctx context.Context, video *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	video.ID = r.s.newID()
	video.CreatedAt = r.s.now()
	cp := *video
	r.s.videos[video.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) FindByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	atomic.AddInt32(&r.findCalls, 1)
	if r.findDelay > 0 {
		time.Sleep(r.findDelay)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[videoID]
	if !ok {
		return nil, apperr.NotFound("视频不存在")
	}
	cp := *v
	if owner, ok := r.s.users[v.OwnerID]; ok {
		cp.Owner = *owner
	}
	return &cp, nil
}

// 故意按ID倒序返回，调用方必须自己恢复顺序
func (r *fakeVideoRepo) FindByIDs(ctx context.Context, videoIDs []uint64) ([]model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Video
	for _, id := range videoIDs {
		if v, ok := r.s.videos[id]; ok {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeVideoRepo) all() []model.Video {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Video, 0, len(r.s.videos))
	for _, v := range r.s.videos {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeVideoRepo) FindByOwner(ctx context.Context, ownerID uint64) ([]model.Video, error) {
	var out []model.Video
	for _, v := range r.all() {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Aggregate(ctx context.Context, p pipeline.Pipeline) ([]model.Video, error) {
	return evalVideoPipeline(r.all(), p)
}

func (r *fakeVideoRepo) mutate(videoID uint64, fn func(v *model.Video)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[videoID]
	if !ok {
		return apperr.NotFound("视频不存在")
	}
	fn(v)
	return nil
}

func (r *fakeVideoRepo) UpdateDetails(ctx context.Context, videoID uint64, fields map[string]interface{}) error {
	return r.mutate(videoID, func(v *model.Video) {
		if t, ok := fields["title"].(string); ok {
			v.Title = t
		}
		if d, ok := fields["description"].(string); ok {
			v.Description = d
		}
	})
}

func (r *fakeVideoRepo) SetPublished(ctx context.Context, videoID uint64, published bool) error {
	return r.mutate(videoID, func(v *model.Video) { v.IsPublished = published })
}

func (r *fakeVideoRepo) Delete(ctx context.Context, videoID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.videos, videoID)
	return nil
}

func (r *fakeVideoRepo) IncrementViews(ctx context.Context, videoID uint64) error {
	return r.mutate(videoID, func(v *model.Video) { v.Views++ })
}

func (r *fakeVideoRepo) AdjustLikeCount(ctx context.Context, videoID uint64, delta int) error {
	return r.mutate(videoID, func(v *model.Video) { v.LikeCount = adjust(v.LikeCount, delta) })
}

func (r *fakeVideoRepo) GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.cacheErr != nil {
		return nil, r.cacheErr
	}
	v, ok := r.cache[videoID]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *fakeVideoRepo) SetVideoCache(ctx context.Context, video *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.cache == nil {
		r.cache = map[uint64]model.Video{}
	}
	r.cache[video.ID] = *video
	return nil
}

func (r *fakeVideoRepo) DeleteVideoCache(ctx context.Context, videoID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.cache, videoID)
	return nil
}

func adjust(n uint64, delta int) uint64 {
	if delta < 0 && n < uint64(-delta) {
		return n
	}
	return uint64(int64(n) + int64(delta))
}

// evalVideoPipeline 在内存里按阶段顺序执行管道，语义和SQL版本保持一致
func evalVideoPipeline(videos []model.Video, p pipeline.Pipeline) ([]model.Video, error) {
	out := videos
	var pending []pipeline.Sort
	flush := func() {
		if len(pending) == 0 {
			return
		}
		keys := pending
		sort.SliceStable(out, func(i, j int) bool {
			for _, k := range keys {
				c := compareField(videoField(out[i], k.Field), videoField(out[j], k.Field))
				if c == 0 {
					continue
				}
				if k.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
		pending = nil
	}
	for _, st := range p.Stages() {
		switch s := st.(type) {
		case pipeline.Match:
			var kept []model.Video
			for _, v := range out {
				if matches(v, s.Conditions) {
					kept = append(kept, v)
				}
			}
			out = kept
		case pipeline.Sort:
			pending = append(pending, s)
		case pipeline.Skip:
			flush()
			if s.N >= len(out) {
				out = nil
			} else if s.N > 0 {
				out = out[s.N:]
			}
		case pipeline.Limit:
			flush()
			if s.N > 0 && s.N < len(out) {
				out = out[:s.N]
			}
		case pipeline.Project:
			flush()
		default:
			return nil, fmt.Errorf("unknown stage %T", st)
		}
	}
	flush()
	return out, nil
}

func matches(v model.Video, conds []pipeline.Condition) bool {
	for _, c := range conds {
		field := videoField(v, c.Field)
		switch c.Op {
		case pipeline.OpContainsFold:
			if !strings.Contains(strings.ToLower(fmt.Sprint(field)), strings.ToLower(fmt.Sprint(c.Value))) {
				return false
			}
		default:
			if fmt.Sprint(field) != fmt.Sprint(c.Value) {
				return false
			}
		}
	}
	return true
}

func videoField(v model.Video, field string) interface{} {
	switch field {
	case "id":
		return v.ID
	case "title":
		return v.Title
	case "description":
		return v.Description
	case "owner_id":
		return v.OwnerID
	case "created_at":
		return v.CreatedAt
	case "updated_at":
		return v.UpdatedAt
	case "views":
		return v.Views
	case "duration":
		return v.Duration
	case "like_count":
		return v.LikeCount
	case "is_published":
		return v.IsPublished
	}
	panic("unknown video field " + field)
}

func compareField(a, b interface{}) int {
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case uint64:
		y := b.(uint64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	return 0
}

type fakeTweetRepo struct{ s *memStore }

var _ repository.TweetRepository = (*fakeTweetRepo)(nil)

func (r *fakeTweetRepo) WithTx(tx *gorm.DB) repository.TweetRepository { return r }

func (r *fakeTweetRepo) Create(ctx context.Context, tweet *model.Tweet) error {
	tweet.ID = r.s.newID()
	tweet.CreatedAt = r.s.now()
	cp := *tweet
	r.s.tweets[tweet.ID] = &cp
	return nil
}

func (r *fakeTweetRepo) FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error) {
	t, ok := r.s.tweets[tweetID]
	if !ok {
		return nil, apperr.NotFound("动态不存在")
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTweetRepo) FindByOwner(ctx context.Context, ownerID uint64) ([]model.Tweet, error) {
	var out []model.Tweet
	for _, t := range r.s.tweets {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeTweetRepo) UpdateContent(ctx context.Context, tweetID uint64, content string) error {
	t, ok := r.s.tweets[tweetID]
	if !ok {
		return apperr.NotFound("动态不存在")
	}
	t.Content = content
	return nil
}

func (r *fakeTweetRepo) Delete(ctx context.Context, tweetID uint64) error {
	delete(r.s.tweets, tweetID)
	return nil
}

func (r *fakeTweetRepo) AdjustLikeCount(ctx context.Context, tweetID uint64, delta int) error {
	t, ok := r.s.tweets[tweetID]
	if !ok {
		return apperr.NotFound("动态不存在")
	}
	t.LikeCount = adjust(t.LikeCount, delta)
	return nil
}

type fakeCommentRepo struct{ s *memStore }

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)

func (r *fakeCommentRepo) WithTx(tx *gorm.DB) repository.CommentRepository { return r }

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = r.s.newID()
	comment.CreatedAt = r.s.now()
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	c, ok := r.s.comments[commentID]
	if !ok {
		return nil, apperr.NotFound("评论不存在")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) byVideo(videoID uint64) []model.Comment {
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.VideoID == videoID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeCommentRepo) GetCommentsByVideoID(ctx context.Context, videoID uint64, offset, limit int) ([]model.Comment, error) {
	all := r.byVideo(videoID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeCommentRepo) CountByVideoID(ctx context.Context, videoID uint64) (int64, error) {
	return int64(len(r.byVideo(videoID))), nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, commentID uint64) error {
	delete(r.s.comments, commentID)
	return nil
}

func (r *fakeCommentRepo) AdjustLikeCount(ctx context.Context, commentID uint64, delta int) error {
	c, ok := r.s.comments[commentID]
	if !ok {
		return apperr.NotFound("评论不存在")
	}
	c.LikeCount = adjust(c.LikeCount, delta)
	return nil
}

type fakeLikeRepo struct{ s *memStore }

var _ repository.LikeRepository = (*fakeLikeRepo)(nil)

func (r *fakeLikeRepo) WithTx(tx *gorm.DB) repository.LikeRepository { return r }

func (r *fakeLikeRepo) Find(ctx context.Context, userID uint64, target model.LikeTarget) (*model.Like, error) {
	for _, l := range r.s.likes {
		if l.LikedBy == userID && l.Target() == target {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLikeRepo) Create(ctx context.Context, like *model.Like) error {
	if existing, _ := r.Find(ctx, like.LikedBy, like.Target()); existing != nil {
		return apperr.Conflict("记录已存在")
	}
	like.ID = r.s.newID()
	r.s.likes = append(r.s.likes, *like)
	return nil
}

func (r *fakeLikeRepo) Delete(ctx context.Context, likeID uint64) error {
	for i, l := range r.s.likes {
		if l.ID == likeID {
			r.s.likes = append(r.s.likes[:i], r.s.likes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeLikeRepo) LikedVideoIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	for _, l := range r.s.likes {
		if l.LikedBy == userID && l.TargetKind == model.TargetVideo {
			ids = append(ids, l.TargetID)
		}
	}
	return ids, nil
}

type fakeSubscriptionRepo struct{ s *memStore }

var _ repository.SubscriptionRepository = (*fakeSubscriptionRepo)(nil)

func (r *fakeSubscriptionRepo) WithTx(tx *gorm.DB) repository.SubscriptionRepository { return r }

func (r *fakeSubscriptionRepo) Find(ctx context.Context, channelID, subscriberID uint64) (*model.Subscription, error) {
	for _, sub := range r.s.subs {
		if sub.ChannelID == channelID && sub.SubscriberID == subscriberID {
			cp := sub
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	if existing, _ := r.Find(ctx, sub.ChannelID, sub.SubscriberID); existing != nil {
		return apperr.Conflict("记录已存在")
	}
	sub.ID = r.s.newID()
	r.s.subs = append(r.s.subs, *sub)
	return nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, subID uint64) error {
	for i, sub := range r.s.subs {
		if sub.ID == subID {
			r.s.subs = append(r.s.subs[:i], r.s.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) CountSubscribers(ctx context.Context, channelID uint64) (int64, error) {
	return int64(len(r.pluck(func(s model.Subscription) (uint64, bool) { return s.SubscriberID, s.ChannelID == channelID }))), nil
}

func (r *fakeSubscriptionRepo) CountSubscribedTo(ctx context.Context, subscriberID uint64) (int64, error) {
	return int64(len(r.pluck(func(s model.Subscription) (uint64, bool) { return s.ChannelID, s.SubscriberID == subscriberID }))), nil
}

func (r *fakeSubscriptionRepo) SubscriberIDs(ctx context.Context, channelID uint64) ([]uint64, error) {
	return r.pluck(func(s model.Subscription) (uint64, bool) { return s.SubscriberID, s.ChannelID == channelID }), nil
}

func (r *fakeSubscriptionRepo) ChannelIDs(ctx context.Context, subscriberID uint64) ([]uint64, error) {
	return r.pluck(func(s model.Subscription) (uint64, bool) { return s.ChannelID, s.SubscriberID == subscriberID }), nil
}

func (r *fakeSubscriptionRepo) pluck(fn func(model.Subscription) (uint64, bool)) []uint64 {
	var ids []uint64
	for _, sub := range r.s.subs {
		if id, ok := fn(sub); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

type fakeHistoryRepo struct{ s *memStore }

var _ repository.WatchHistoryRepository = (*fakeHistoryRepo)(nil)

func (r *fakeHistoryRepo) WithTx(tx *gorm.DB) repository.WatchHistoryRepository { return r }

func (r *fakeHistoryRepo) Append(ctx context.Context, userID, videoID uint64) error {
	kept := r.s.history[:0]
	for _, h := range r.s.history {
		if h.UserID != userID || h.VideoID != videoID {
			kept = append(kept, h)
		}
	}
	r.s.history = append(kept, model.WatchHistoryEntry{
		BaseModel: model.BaseModel{ID: r.s.newID()},
		UserID:    userID,
		VideoID:   videoID,
	})
	return nil
}

func (r *fakeHistoryRepo) VideoIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	for _, h := range r.s.history {
		if h.UserID == userID {
			ids = append(ids, h.VideoID)
		}
	}
	return ids, nil
}

// fakeUnitOfWork 不做真正的回滚，只负责把fake仓库交给业务函数
type fakeUnitOfWork struct {
	repos data.TransactionalRepositories
	calls int
}

func (u *fakeUnitOfWork) Execute(ctx context.Context, fn func(repos *data.TransactionalRepositories) error) error {
	u.calls++
	repos := u.repos
	return fn(&repos)
}

type fakeStorage struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(ctx context.Context, localPath string) (model.Asset, error) {
	if f.uploadErr != nil {
		return model.Asset{}, f.uploadErr
	}
	f.uploaded = append(f.uploaded, localPath)
	id := fmt.Sprintf("asset-%d", len(f.uploaded))
	return model.Asset{PublicID: id, URL: "https://cdn.test/" + id}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []EngagementMessage
	err  error
}

func (p *fakePublisher) Publish(queue string, msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if queue != QueueEngagement {
		return errors.New("unexpected queue " + queue)
	}
	p.msgs = append(p.msgs, msg.(EngagementMessage))
	return nil
}

// fixture 组装好一整套基于内存的仓库和服务依赖
type fixture struct {
	store     *memStore
	users     *fakeUserRepo
	videos    *fakeVideoRepo
	tweets    *fakeTweetRepo
	comments  *fakeCommentRepo
	likes     *fakeLikeRepo
	subs      *fakeSubscriptionRepo
	history   *fakeHistoryRepo
	uow       *fakeUnitOfWork
	storage   *fakeStorage
	publisher *fakePublisher
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{
		store:     s,
		users:     &fakeUserRepo{s: s},
		videos:    &fakeVideoRepo{s: s},
		tweets:    &fakeTweetRepo{s: s},
		comments:  &fakeCommentRepo{s: s},
		likes:     &fakeLikeRepo{s: s},
		subs:      &fakeSubscriptionRepo{s: s},
		history:   &fakeHistoryRepo{s: s},
		storage:   &fakeStorage{},
		publisher: &fakePublisher{},
	}
	f.uow = &fakeUnitOfWork{repos: data.TransactionalRepositories{
		VideoRepo:        f.videos,
		CommentRepo:      f.comments,
		TweetRepo:        f.tweets,
		LikeRepo:         f.likes,
		SubscriptionRepo: f.subs,
		WatchHistoryRepo: f.history,
	}}
	return f
}

func (f *fixture) aggregator() Aggregator {
	return NewAggregator(f.users, f.videos, f.subs, f.likes, f.history)
}

func (f *fixture) addUser(username string) *model.User {
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: strings.ToUpper(username[:1]) + username[1:],
		Avatar:   model.Asset{PublicID: "avatar-" + username, URL: "https://cdn.test/avatar-" + username},
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) addVideo(owner *model.User, title, description string) *model.Video {
	v := &model.Video{
		OwnerID:     owner.ID,
		Title:       title,
		Description: description,
		VideoFile:   model.Asset{PublicID: "file-" + title, URL: "https://cdn.test/file"},
		Thumbnail:   model.Asset{PublicID: "thumb-" + title, URL: "https://cdn.test/thumb"},
		IsPublished: true,
	}
	if err := f.videos.Create(context.Background(), v); err != nil {
		panic(err)
	}
	return v
}

func identityOf(u *model.User) auth.Identity {
	return auth.IdentityFromUser(u)
}
