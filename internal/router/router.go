package router

import (
	"net/http"

	"VidTube/internal/handler"
	"VidTube/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 所有路由用到的handler，由main统一组装
type Handlers struct {
	User         handler.UserHandler
	Video        handler.VideoHandler
	Comment      handler.CommentHandler
	Tweet        handler.TweetHandler
	Like         handler.LikeHandler
	Subscription handler.SubscriptionHandler
	Health       handler.HealthHandler
}

// SetupRouter 注册全部路由：authMiddleware保护需要登录的接口，authLimiter限制注册、登录、刷新token的频率
func SetupRouter(h Handlers, authMiddleware gin.HandlerFunc, authLimiter middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/healthcheck", h.Health.HealthCheck)
		apiV1.GET("/tweets/:tweet_id/owner", h.Tweet.GetTweetOwner)

		public := apiV1.Group("/users")
		public.Use(middleware.RateLimit(authLimiter))
		{
			public.POST("/register", h.User.Register)
			public.POST("/login", h.User.Login)
			public.POST("/refresh-token", h.User.RefreshToken)
		}

		authorized := apiV1.Group("/")
		authorized.Use(authMiddleware)
		{
			users := authorized.Group("/users")
			users.POST("/logout", h.User.Logout)
			users.POST("/change-password", h.User.ChangePassword)
			users.GET("/current", h.User.GetCurrentUser)
			users.PATCH("/account", h.User.UpdateAccount)
			users.PATCH("/avatar", h.User.UpdateAvatar)
			users.PATCH("/cover-image", h.User.UpdateCoverImage)
			users.GET("/channel/:username", h.User.GetChannelProfile)
			users.GET("/history", h.User.GetWatchHistory)

			videos := authorized.Group("/videos")
			videos.GET("", h.Video.ListVideos)
			videos.POST("", h.Video.PublishVideo)
			videos.GET("/:video_id", h.Video.GetVideoByID)
			videos.PATCH("/:video_id", h.Video.UpdateVideo)
			videos.DELETE("/:video_id", h.Video.DeleteVideo)
			videos.PATCH("/:video_id/publish", h.Video.TogglePublishStatus)
			videos.POST("/:video_id/watch", h.Video.WatchVideo)
			videos.GET("/:video_id/comments", h.Comment.GetComments)
			videos.POST("/:video_id/comments", h.Comment.CreateComment)

			authorized.DELETE("/comments/:comment_id", h.Comment.DeleteComment)

			tweets := authorized.Group("/tweets")
			tweets.POST("", h.Tweet.CreateTweet)
			tweets.GET("/user/:user_id", h.Tweet.GetUserTweets)
			tweets.PATCH("/:tweet_id", h.Tweet.UpdateTweet)
			tweets.DELETE("/:tweet_id", h.Tweet.DeleteTweet)

			likes := authorized.Group("/likes")
			likes.POST("/video/:id", h.Like.ToggleVideoLike)
			likes.POST("/comment/:id", h.Like.ToggleCommentLike)
			likes.POST("/tweet/:id", h.Like.ToggleTweetLike)
			likes.GET("/videos", h.Like.GetLikedVideos)

			subs := authorized.Group("/subscriptions")
			subs.POST("/c/:channel_id", h.Subscription.ToggleSubscription)
			subs.GET("/c/:channel_id", h.Subscription.GetChannelSubscribers)
			subs.GET("/u/:subscriber_id", h.Subscription.GetSubscribedChannels)
		}
	}

	return r
}
