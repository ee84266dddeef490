package dto

import (
	"time"

	"VidTube/internal/model"
)

type TweetResponse struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	LikeCount uint64    `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Owner     OwnerInfo `json:"owner"`
}

func ToTweetResponse(t *model.Tweet) TweetResponse {
	return TweetResponse{
		ID:        t.ID,
		Content:   t.Content,
		LikeCount: t.LikeCount,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Owner:     toOwnerInfo(t.OwnerID, t.Owner),
	}
}

func ToTweetResponses(tweets []model.Tweet) []TweetResponse {
	resp := make([]TweetResponse, 0, len(tweets))
	for i := range tweets {
		resp = append(resp, ToTweetResponse(&tweets[i]))
	}
	return resp
}
