package service

import (
	"context"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/model"
	"VidTube/internal/repository"
)

const maxTweetLength = 1000

type TweetService interface {
	Create(ctx context.Context, identity auth.Identity, content string) (*model.Tweet, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Tweet, error)
	Update(ctx context.Context, identity auth.Identity, tweetID uint64, content string) (*model.Tweet, error)
	Delete(ctx context.Context, identity auth.Identity, tweetID uint64) error
	GetOwner(ctx context.Context, tweetID uint64) (*model.User, error)
}

type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) TweetService {
	return &tweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
	}
}

func normalizeTweet(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.Validation("内容不能为空")
	}
	if len([]rune(content)) > maxTweetLength {
		return "", apperr.Validation("内容过长")
	}
	return content, nil
}

func (s *tweetService) Create(ctx context.Context, identity auth.Identity, content string) (*model.Tweet, error) {
	content, err := normalizeTweet(content)
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{OwnerID: identity.UserID, Content: content}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *tweetService) ListByUser(ctx context.Context, userID uint64) ([]model.Tweet, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.tweetRepo.FindByOwner(ctx, userID)
}

// 修改和删除之前先校验所有者，非所有者不会产生任何写操作
func (s *tweetService) Update(ctx context.Context, identity auth.Identity, tweetID uint64, content string) (*model.Tweet, error) {
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(tweet.OwnerID, identity); err != nil {
		return nil, err
	}
	content, err = normalizeTweet(content)
	if err != nil {
		return nil, err
	}
	if err := s.tweetRepo.UpdateContent(ctx, tweetID, content); err != nil {
		return nil, err
	}
	tweet.Content = content
	return tweet, nil
}

func (s *tweetService) Delete(ctx context.Context, identity auth.Identity, tweetID uint64) error {
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(tweet.OwnerID, identity); err != nil {
		return err
	}
	return s.tweetRepo.Delete(ctx, tweetID)
}

func (s *tweetService) GetOwner(ctx context.Context, tweetID uint64) (*model.User, error) {
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, tweet.OwnerID)
}
