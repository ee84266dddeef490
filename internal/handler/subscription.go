package handler

import (
	"net/http"

	"VidTube/internal/dto"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler interface {
	ToggleSubscription(c *gin.Context)
	GetChannelSubscribers(c *gin.Context)
	GetSubscribedChannels(c *gin.Context)
}

type subscriptionHandler struct {
	SubscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{SubscriptionService: subscriptionService}
}

func (h *subscriptionHandler) ToggleSubscription(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	channelID, ok := parseIDParam(c, "channel_id", "频道ID")
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("channel_id", channelID)

	subscribed, err := h.SubscriptionService.ToggleSubscription(c.Request.Context(), identity, channelID)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	message := "已取消订阅"
	if subscribed {
		message = "订阅成功"
	}
	logCtx.Info(message)
	sendSuccess(c, http.StatusOK, gin.H{"subscribed": subscribed}, message)
}

func (h *subscriptionHandler) GetChannelSubscribers(c *gin.Context) {
	if _, ok := mustIdentity(c); !ok {
		return
	}
	channelID, ok := parseIDParam(c, "channel_id", "频道ID")
	if !ok {
		return
	}
	users, err := h.SubscriptionService.ListSubscribers(c.Request.Context(), channelID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToUserResponses(users), "成功获取订阅者列表")
}

func (h *subscriptionHandler) GetSubscribedChannels(c *gin.Context) {
	if _, ok := mustIdentity(c); !ok {
		return
	}
	subscriberID, ok := parseIDParam(c, "subscriber_id", "用户ID")
	if !ok {
		return
	}
	users, err := h.SubscriptionService.ListSubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToUserResponses(users), "成功获取订阅的频道")
}
