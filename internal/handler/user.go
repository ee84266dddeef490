package handler

import (
	"context"
	"net/http"
	"strings"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/dto"
	"VidTube/internal/middleware"
	"VidTube/internal/model"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	RefreshToken(c *gin.Context)
	ChangePassword(c *gin.Context)

	GetCurrentUser(c *gin.Context)
	UpdateAccount(c *gin.Context)
	UpdateAvatar(c *gin.Context)
	UpdateCoverImage(c *gin.Context)

	GetChannelProfile(c *gin.Context)
	GetWatchHistory(c *gin.Context)
}

type userHandler struct {
	UserService service.UserService
	Aggregator  service.Aggregator
	opts        Options
}

func NewUserHandler(userService service.UserService, aggregator service.Aggregator, opts Options) UserHandler {
	return &userHandler{UserService: userService, Aggregator: aggregator, opts: opts}
}

// 注册同时支持multipart（带头像和封面）和JSON
type RegisterRequest struct {
	FullName string `form:"fullName" json:"fullName"`
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// username和email提供一个即可
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// 注册：1、解析表单字段 2、头像和封面先落到临时目录 3、service层注册（上传、哈希、入库） 4、删除临时文件并返回用户
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("无效的参数"))
		return
	}
	logCtx := requestLogger(c).WithField("username", req.Username)
	logCtx.Info("开始处理用户注册请求")

	avatarPath, err := saveUpload(c, h.opts.UploadTmpDir, "avatar")
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	defer removeTemp(avatarPath)
	coverPath, err := saveUpload(c, h.opts.UploadTmpDir, "coverImage")
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	defer removeTemp(coverPath)

	user, err := h.UserService.Register(c.Request.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")
	sendSuccess(c, http.StatusCreated, dto.ToUserResponse(user), "注册成功")
}

// 登录：1、解析用户名/邮箱和密码 2、service层校验并签发token 3、token同时写入httpOnly cookie和响应体
func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("无效的参数"))
		return
	}
	logCtx := requestLogger(c).WithField("username", req.Username).WithField("email", req.Email)
	logCtx.Info("开始处理用户登录请求")

	res, err := h.UserService.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}

	h.setAuthCookies(c, res.Tokens)
	logCtx.WithField("user_id", res.User.ID).Info("用户登录成功")
	sendSuccess(c, http.StatusOK, dto.ToLoginResponse(res), "登录成功")
}

func (h *userHandler) Logout(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID)

	if err := h.UserService.Logout(c.Request.Context(), identity); err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	h.clearAuthCookies(c)
	logCtx.Info("用户已退出登录")
	sendSuccess(c, http.StatusOK, gin.H{}, "退出登录成功")
}

// 刷新token：cookie优先，其次是请求体里的refreshToken
func (h *userHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req RefreshTokenRequest
		// 请求体可以为空，绑定失败不代表请求无效
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		sendErrorResponse(c, nil, apperr.Unauthenticated("缺少refresh token"))
		return
	}

	pair, err := h.UserService.RefreshToken(c.Request.Context(), token)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	h.setAuthCookies(c, pair)
	sendSuccess(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "token已刷新")
}

func (h *userHandler) ChangePassword(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("旧密码和新密码都必须填写"))
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID)

	if err := h.UserService.ChangePassword(c.Request.Context(), identity, req.OldPassword, req.NewPassword); err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("密码修改成功")
	sendSuccess(c, http.StatusOK, gin.H{}, "密码修改成功")
}

func (h *userHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetCurrentUser(c.Request.Context(), identity)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToUserResponse(user), "成功获取当前用户")
}

func (h *userHandler) UpdateAccount(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, nil, apperr.Validation("姓名和邮箱都必须填写"))
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID)

	user, err := h.UserService.UpdateAccount(c.Request.Context(), identity, req.FullName, req.Email)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info("账户信息已更新")
	sendSuccess(c, http.StatusOK, dto.ToUserResponse(user), "账户信息已更新")
}

func (h *userHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", h.UserService.UpdateAvatar, "头像已更新")
}

func (h *userHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", h.UserService.UpdateCoverImage, "封面已更新")
}

type imageUpdater func(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error)

// 头像和封面的处理流程一样：1、保存上传文件 2、service层上传并替换 3、删除临时文件
func (h *userHandler) replaceImage(c *gin.Context, field string, update imageUpdater, message string) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	logCtx := requestLogger(c).WithField("user_id", identity.UserID).WithField("field", field)

	localPath, err := saveUpload(c, h.opts.UploadTmpDir, field)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	defer removeTemp(localPath)

	user, err := update(c.Request.Context(), identity, localPath)
	if err != nil {
		sendErrorResponse(c, logCtx, err)
		return
	}
	logCtx.Info(message)
	sendSuccess(c, http.StatusOK, dto.ToUserResponse(user), message)
}

func (h *userHandler) GetChannelProfile(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		sendErrorResponse(c, nil, apperr.Validation("用户名不能为空"))
		return
	}

	profile, err := h.Aggregator.BuildChannelProfile(c.Request.Context(), username, identity.UserID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToChannelProfileResponse(profile), "成功获取频道信息")
}

func (h *userHandler) GetWatchHistory(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	history, err := h.Aggregator.BuildWatchHistory(c.Request.Context(), identity.UserID)
	if err != nil {
		sendErrorResponse(c, nil, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToWatchHistoryResponse(history), "成功获取观看历史")
}

func (h *userHandler) setAuthCookies(c *gin.Context, pair auth.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.opts.AccessTTL.Seconds()), "/", "", h.opts.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(h.opts.RefreshTTL.Seconds()), "/", "", h.opts.CookieSecure, true)
}

// MaxAge为负数时浏览器立即删除cookie
func (h *userHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.opts.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.opts.CookieSecure, true)
}
