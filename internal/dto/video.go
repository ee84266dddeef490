package dto

import (
	"time"

	"VidTube/internal/model"
	"VidTube/internal/service"
)

type VideoResponse struct {
	ID          uint64    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       uint64    `json:"views"`
	LikeCount   uint64    `json:"likeCount"`
	IsPublished bool      `json:"isPublished"`
	Owner       OwnerInfo `json:"owner"`
}

// ToVideoResponse 把DB模型转换为API响应模型
func ToVideoResponse(video *model.Video) VideoResponse {
	return VideoResponse{
		ID:          video.ID,
		CreatedAt:   video.CreatedAt,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile.URL,
		Thumbnail:   video.Thumbnail.URL,
		Duration:    video.Duration,
		Views:       video.Views,
		LikeCount:   video.LikeCount,
		IsPublished: video.IsPublished,
		Owner:       toOwnerInfo(video.OwnerID, video.Owner),
	}
}

func ToVideoResponses(videos []model.Video) []VideoResponse {
	resp := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		resp = append(resp, ToVideoResponse(&videos[i]))
	}
	return resp
}

// 观看历史里的作者只有用户名、姓名和头像
func ToWatchHistoryResponse(history []service.WatchedVideo) []VideoResponse {
	resp := make([]VideoResponse, 0, len(history))
	for i := range history {
		v := ToVideoResponse(&history[i].Video)
		v.Owner = OwnerInfo{
			ID:       history[i].Video.OwnerID,
			Username: history[i].Owner.Username,
			FullName: history[i].Owner.FullName,
			Avatar:   history[i].Owner.Avatar,
		}
		resp = append(resp, v)
	}
	return resp
}

type VideoPageResponse struct {
	Videos   []VideoResponse `json:"videos"`
	Length   int             `json:"length"`
	NextPage int             `json:"nextPage,omitempty"`
}

func ToVideoPageResponse(page *service.VideoPage) VideoPageResponse {
	return VideoPageResponse{
		Videos:   ToVideoResponses(page.Videos),
		Length:   page.Length,
		NextPage: page.NextPage,
	}
}
