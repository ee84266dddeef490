package dto

import (
	"time"

	"VidTube/internal/model"
	"VidTube/internal/service"
)

// UserResponse 不包含密码哈希和refresh token
type UserResponse struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar.URL,
		CoverImage: u.CoverImage.URL,
		CreatedAt:  u.CreatedAt,
	}
}

func ToUserResponses(users []model.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, ToUserResponse(&users[i]))
	}
	return resp
}

// OwnerInfo 嵌在视频、动态、评论里的作者信息
type OwnerInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// 检查Owner是否被成功preload，没有的话只返回ID
func toOwnerInfo(ownerID uint64, owner model.User) OwnerInfo {
	info := OwnerInfo{ID: ownerID}
	if owner.ID != 0 {
		info.Username = owner.Username
		info.FullName = owner.FullName
		info.Avatar = owner.Avatar.URL
	}
	return info
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func ToLoginResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		User:         ToUserResponse(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}
}

// ChannelProfileResponse 频道主页只有这几个字段
type ChannelProfileResponse struct {
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	Email             string `json:"email"`
}

func ToChannelProfileResponse(p *service.ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		FullName:          p.FullName,
		Username:          p.Username,
		SubscriberCount:   p.SubscriberCount,
		SubscribedToCount: p.SubscribedToCount,
		IsSubscribed:      p.IsSubscribed,
		Avatar:            p.Avatar,
		CoverImage:        p.CoverImage,
		Email:             p.Email,
	}
}
