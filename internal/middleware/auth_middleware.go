package middleware

import (
	"context"
	"errors"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/model"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	identityKey = "identity"
)

// UserLoader 认证时按ID加载用户，用户已被删除时返回NotFound
type UserLoader interface {
	FindByID(ctx context.Context, userID uint64) (*model.User, error)
}

// 流程：1、先从cookie取accessToken，没有再取"Authorization: Bearer [token]" 2、校验token 3、按token里的ID加载用户 4、把Identity放入context
func AuthMiddleware(tokens auth.TokenService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWithError(c, apperr.Unauthenticated("请求未包含授权令牌"))
			return
		}

		claims, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			abortWithError(c, err)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				abortWithError(c, apperr.Unauthenticated("无效的授权令牌"))
				return
			}
			logger.Log.WithField("user_id", claims.UserID).WithError(err).Error("认证时加载用户失败")
			abortWithError(c, err)
			return
		}

		// 身份信息以数据库中的最新资料为准，而不是token签发时的快照
		c.Set(identityKey, auth.IdentityFromUser(user))
		c.Next()
	}
}

// cookie优先于请求头
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFrom 取出AuthMiddleware放入的调用者身份
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(apperr.KindOf(err)), gin.H{
		"code":    apperr.HTTPStatus(apperr.KindOf(err)),
		"data":    nil,
		"message": apperr.PublicMessage(err),
	})
}
