package data

import (
	"context"

	"VidTube/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 定义了我们事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行，fn返回错误时整个事务回滚
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository
type TransactionalRepositories struct {
	VideoRepo        repository.VideoRepository
	CommentRepo      repository.CommentRepository
	TweetRepo        repository.TweetRepository
	LikeRepo         repository.LikeRepository
	SubscriptionRepo repository.SubscriptionRepository
	WatchHistoryRepo repository.WatchHistoryRepository
}

// Repositories 非事务的仓库集合，UnitOfWork用它们派生出事务内的副本
type Repositories struct {
	Videos        repository.VideoRepository
	Comments      repository.CommentRepository
	Tweets        repository.TweetRepository
	Likes         repository.LikeRepository
	Subscriptions repository.SubscriptionRepository
	WatchHistory  repository.WatchHistoryRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db    *gorm.DB
	repos Repositories
}

func NewUnitOfWork(db *gorm.DB, repos Repositories) UnitOfWork {
	return &gormUnitOfWork{
		db:    db,
		repos: repos,
	}
}

// 契约：fn func(repos *TransactionalRepositories) error
// GORM开启事务，把绑定了tx的“一次性”Repo副本注入到业务函数里，业务函数的结果决定提交还是回滚
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TransactionalRepositories{
			VideoRepo:        u.repos.Videos.WithTx(tx),
			CommentRepo:      u.repos.Comments.WithTx(tx),
			TweetRepo:        u.repos.Tweets.WithTx(tx),
			LikeRepo:         u.repos.Likes.WithTx(tx),
			SubscriptionRepo: u.repos.Subscriptions.WithTx(tx),
			WatchHistoryRepo: u.repos.WatchHistory.WithTx(tx),
		})
	})
}
