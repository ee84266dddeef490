package service

import (
	"context"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/data"
	"VidTube/internal/model"
	"VidTube/internal/repository"
)

type SubscriptionService interface {
	// ToggleSubscription 返回操作之后是否处于订阅状态
	ToggleSubscription(ctx context.Context, identity auth.Identity, channelID uint64) (bool, error)
	ListSubscribers(ctx context.Context, channelID uint64) ([]model.User, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uint64) ([]model.User, error)
}

type subscriptionService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	uow      data.UnitOfWork
}

func NewSubscriptionService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository, uow data.UnitOfWork) SubscriptionService {
	return &subscriptionService{
		userRepo: userRepo,
		subRepo:  subRepo,
		uow:      uow,
	}
}

// 订阅开关：1、不能订阅自己 2、频道必须存在 3、事务中有则删除，无则插入
func (s *subscriptionService) ToggleSubscription(ctx context.Context, identity auth.Identity, channelID uint64) (bool, error) {
	if channelID == 0 {
		return false, apperr.Validation("无效的频道ID")
	}
	if channelID == identity.UserID {
		return false, apperr.Validation("不能订阅自己的频道")
	}
	if _, err := s.userRepo.FindByID(ctx, channelID); err != nil {
		return false, err
	}

	var subscribed bool
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		existing, err := repos.SubscriptionRepo.Find(ctx, channelID, identity.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			subscribed = false
			return repos.SubscriptionRepo.Delete(ctx, existing.ID)
		}
		subscribed = true
		return repos.SubscriptionRepo.Create(ctx, &model.Subscription{
			ChannelID:    channelID,
			SubscriberID: identity.UserID,
		})
	})
	if err != nil {
		return false, err
	}
	return subscribed, nil
}

func (s *subscriptionService) ListSubscribers(ctx context.Context, channelID uint64) ([]model.User, error) {
	if _, err := s.userRepo.FindByID(ctx, channelID); err != nil {
		return nil, err
	}
	ids, err := s.subRepo.SubscriberIDs(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.usersInOrder(ctx, ids)
}

func (s *subscriptionService) ListSubscribedChannels(ctx context.Context, subscriberID uint64) ([]model.User, error) {
	if _, err := s.userRepo.FindByID(ctx, subscriberID); err != nil {
		return nil, err
	}
	ids, err := s.subRepo.ChannelIDs(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	return s.usersInOrder(ctx, ids)
}

func (s *subscriptionService) usersInOrder(ctx context.Context, ids []uint64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}
