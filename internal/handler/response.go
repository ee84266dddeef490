package handler

import (
	"strconv"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/middleware"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response 所有接口统一的响应结构
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func sendSuccess(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Response{Code: code, Data: data, Message: message})
}

// sendErrorResponse 根据错误分类决定状态码，内部错误记录日志但不把细节返回给用户
func sendErrorResponse(c *gin.Context, logCtx *logrus.Entry, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if logCtx == nil {
		logCtx = requestLogger(c)
	}
	if kind == apperr.KindInternal {
		logCtx.WithError(err).Error("请求处理失败")
	} else {
		logCtx.WithError(err).WithField("kind", kind.String()).Warn("请求被拒绝")
	}
	c.AbortWithStatusJSON(status, Response{Code: status, Data: nil, Message: apperr.PublicMessage(err)})
}

// 理论上中间件会拦截未认证的请求，这里只是防止路由配置出错
func mustIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		sendErrorResponse(c, nil, apperr.Unauthenticated("用户未认证"))
		return auth.Identity{}, false
	}
	return identity, true
}

// c.Param返回字符串，统一转化为uint64
func parseIDParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, nil, apperr.Validation("无效的"+label))
		return 0, false
	}
	return id, true
}

// 查询参数里的数字，缺省或解析失败都返回0，由service层填默认值
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func requestLogger(c *gin.Context) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"path":       c.FullPath(),
		"ip":         c.ClientIP(),
	})
}
