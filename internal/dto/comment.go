package dto

import (
	"time"

	"VidTube/internal/model"
	"VidTube/internal/service"
)

type CommentResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"videoId"`
	Content   string    `json:"content"`
	LikeCount uint64    `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	Owner     OwnerInfo `json:"owner"`
}

func ToCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Content:   c.Content,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt,
		Owner:     toOwnerInfo(c.OwnerID, c.Owner),
	}
}

type CommentPageResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

func ToCommentPageResponse(page *service.CommentPage) CommentPageResponse {
	comments := make([]CommentResponse, 0, len(page.Comments))
	for i := range page.Comments {
		comments = append(comments, ToCommentResponse(&page.Comments[i]))
	}
	return CommentPageResponse{
		Comments: comments,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}
