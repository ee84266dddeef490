package handler

import (
	"net/http"
	"strconv"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/dto"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	ListVideos(c *gin.Context)
	PublishVideo(c *gin.Context)
	GetVideoByID(c *gin.Context)
	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
	TogglePublishStatus(c *gin.Context)
	WatchVideo(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
	Aggregator   service.Aggregator
	opts         Options
}

func NewVideoHandler(videoService service.VideoService, aggregator service.Aggregator, opts Options) VideoHandler {
	return &videoHandler{VideoService: videoService, Aggregator: aggregator, opts: opts}
}

type PublishVideoRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Duration    string `form:"duration"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// 视频列表：?userId&query&page&limit&sortBy&sortType，不带query时返回该用户全部视频
func (h *videoHandler) ListVideos(c *gin.Context) {
	if _, ok := mustIdentity(c); !ok {
		return
	}
	ownerID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil {
		sendErrorResponse(c, nil, apperr.Validation("userId 不能为空"))
		return
	}
	sortType := strings.ToLower(c.Query("sortType"))

	page, err := h.Aggregator.ListVideos(c.Request.Context(), service.VideoQuery{
		OwnerID:  ownerID,
		Query:    c.Query("query"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		SortBy:   c.Query("sortBy"),
		SortDesc: sortType == "descending" || sortType == "desc",
	})
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToVideoPageResponse(page), "成功获取视频列表")
}

// 发布视频：1、解析表单并把视频和封面落到临时目录 2、service层上传到对象存储并入库 3、删除临时文件，返回视频
func (h *videoHandler) PublishVideo(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("无效的参数"))
		return
	}
	var duration float64
	if req.Duration != "" {
		d, err := strconv.ParseFloat(req.Duration, 64)
		if err != nil {
			sendErrorResponse(c, nil, apperr.Validation("无效的视频时长"))
			return
		}
		duration = d
	}
	logCtx := requestLogger(c).WithField("author_id", identity.UserID)
	logCtx.Info("开始处理发布视频请求")

	videoPath, err := saveUpload(c, h.opts.UploadTmpDir, "video")
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	defer removeTemp(videoPath)
	thumbnailPath, err := saveUpload(c, h.opts.UploadTmpDir, "thumbnail")
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	defer removeTemp(thumbnailPath)

	video, err := h.VideoService.Publish(c.Request.Context(), identity, service.PublishVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Duration:      duration,
	})
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	// 没有赋值，临时追加上下文，避免污染后续其他日志
	logCtx.WithField("video_id", video.ID).Info("视频发布成功")
	sendSuccess(c, http.StatusCreated, dto.ToVideoResponse(video), "视频发布成功")
}

func (h *videoHandler) GetVideoByID(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}
	video, err := h.VideoService.GetVideoByID(c.Request.Context(), identity, videoID)
	if err != nil {
		sendErrorResponse(c, requestLogger(c).WithField("video_id", videoID), err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToVideoResponse(video), "成功获取视频")
}

func (h *videoHandler) UpdateVideo(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}
	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("无效的参数"))
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("video_id", videoID)

	video, err := h.VideoService.Update(c.Request.Context(), identity, videoID, req.Title, req.Description)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("视频信息已更新")
	sendSuccess(c, http.StatusOK, dto.ToVideoResponse(video), "视频信息已更新")
}

func (h *videoHandler) DeleteVideo(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("video_id", videoID)

	if err := h.VideoService.Delete(c.Request.Context(), identity, videoID); err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("视频已删除")
	sendSuccess(c, http.StatusOK, gin.H{}, "视频已删除")
}

func (h *videoHandler) TogglePublishStatus(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("video_id", videoID)

	video, err := h.VideoService.TogglePublish(c.Request.Context(), identity, videoID)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.WithField("is_published", video.IsPublished).Info("视频发布状态已切换")
	sendSuccess(c, http.StatusOK, dto.ToVideoResponse(video), "视频发布状态已切换")
}

// 观看视频：写入观看历史，播放量由消费者异步累加
func (h *videoHandler) WatchVideo(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id", "视频ID")
	if !ok {
		return
	}
	video, err := h.VideoService.Watch(c.Request.Context(), identity, videoID)
	if err != nil {
		sendErrorResponse(c, requestLogger(c).WithField("video_id", videoID), err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToVideoResponse(video), "已记录观看")
}
