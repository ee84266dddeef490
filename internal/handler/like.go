package handler

import (
	"net/http"

	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	ToggleVideoLike(c *gin.Context)
	ToggleCommentLike(c *gin.Context)
	ToggleTweetLike(c *gin.Context)
	GetLikedVideos(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
	Aggregator  service.Aggregator
}

func NewLikeHandler(likeService service.LikeService, aggregator service.Aggregator) LikeHandler {
	return &likeHandler{LikeService: likeService, Aggregator: aggregator}
}

func (h *likeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggle(c, model.TargetVideo)
}

func (h *likeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, model.TargetComment)
}

func (h *likeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggle(c, model.TargetTweet)
}

// 点赞/取消点赞：1、从URL的:id取对象ID 2、service层在事务里切换点赞状态 3、返回切换后的状态
func (h *likeHandler) toggle(c *gin.Context, kind model.TargetKind) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	// :id用来定位资源(Resource)，对象种类由路由决定
	id, ok := parseIDParam(c, "id", "ID")
	if !ok {
		return
	}
	target := model.LikeTarget{Kind: kind, ID: id}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("target", target.String())

	liked, err := h.LikeService.ToggleLike(c.Request.Context(), identity, target)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	message := "取消点赞成功"
	if liked {
		message = "点赞成功"
	}
	logCtx.WithField("liked", liked).Info(message)
	sendSuccess(c, http.StatusOK, gin.H{"liked": liked}, message)
}

func (h *likeHandler) GetLikedVideos(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	videos, err := h.Aggregator.BuildLikedVideos(c.Request.Context(), identity.UserID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToVideoResponses(videos), "成功获取点赞过的视频")
}
