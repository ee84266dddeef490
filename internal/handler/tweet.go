package handler

import (
	"net/http"

	"VidTube/internal/apperr"
	"VidTube/internal/dto"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler interface {
	CreateTweet(c *gin.Context)
	GetUserTweets(c *gin.Context)
	UpdateTweet(c *gin.Context)
	DeleteTweet(c *gin.Context)
	GetTweetOwner(c *gin.Context)
}

type tweetHandler struct {
	TweetService service.TweetService
}

func NewTweetHandler(tweetService service.TweetService) TweetHandler {
	return &tweetHandler{TweetService: tweetService}
}

type TweetRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *tweetHandler) CreateTweet(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("动态内容不能为空"))
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID)

	tweet, err := h.TweetService.Create(c.Request.Context(), identity, req.Content)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.WithField("tweet_id", tweet.ID).Info("动态发布成功")
	sendSuccess(c, http.StatusCreated, dto.ToTweetResponse(tweet), "动态发布成功")
}

func (h *tweetHandler) GetUserTweets(c *gin.Context) {
	if _, ok := mustIdentity(c); !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id", "用户ID")
	if !ok {
		return
	}
	tweets, err := h.TweetService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToTweetResponses(tweets), "成功获取动态列表")
}

func (h *tweetHandler) UpdateTweet(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	tweetID, ok := parseIDParam(c, "tweet_id", "动态ID")
	if !ok {
		return
	}
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("动态内容不能为空"))
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("tweet_id", tweetID)

	tweet, err := h.TweetService.Update(c.Request.Context(), identity, tweetID, req.Content)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("动态已更新")
	sendSuccess(c, http.StatusOK, dto.ToTweetResponse(tweet), "动态已更新")
}

func (h *tweetHandler) DeleteTweet(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	tweetID, ok := parseIDParam(c, "tweet_id", "动态ID")
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("tweet_id", tweetID)

	if err := h.TweetService.Delete(c.Request.Context(), identity, tweetID); err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("动态已删除")
	sendSuccess(c, http.StatusOK, gin.H{}, "动态已删除")
}

// 公开接口，不需要登录
func (h *tweetHandler) GetTweetOwner(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id", "动态ID")
	if !ok {
		return
	}
	owner, err := h.TweetService.GetOwner(c.Request.Context(), tweetID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToUserResponse(owner), "成功获取动态作者")
}
