package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"VidTube/internal/apperr"
	"VidTube/internal/auth"
	"VidTube/internal/middleware"
	"VidTube/internal/model"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// access token的格式是 "token-<userID>"
type stubTokens struct{}

func (stubTokens) IssuePair(ctx context.Context, userID uint64) (auth.TokenPair, error) {
	return auth.TokenPair{}, nil
}

func (stubTokens) VerifyAccess(token string) (*auth.AccessClaims, error) {
	if !strings.HasPrefix(token, "token-") {
		return nil, apperr.Unauthenticated("无效的授权令牌")
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(token, "token-"), 10, 64)
	if err != nil {
		return nil, apperr.Unauthenticated("无效的授权令牌")
	}
	return &auth.AccessClaims{UserID: id}, nil
}

func (stubTokens) Rotate(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	return auth.TokenPair{}, nil
}

func (stubTokens) Revoke(ctx context.Context, userID uint64) error { return nil }

type stubUsers map[uint64]*model.User

func (s stubUsers) FindByID(ctx context.Context, userID uint64) (*model.User, error) {
	u, ok := s[userID]
	if !ok {
		return nil, apperr.NotFound("用户不存在")
	}
	return u, nil
}

var testUsers = stubUsers{
	1: {BaseModel: model.BaseModel{ID: 1}, Username: "alice", Email: "alice@example.com", FullName: "Alice"},
	2: {BaseModel: model.BaseModel{ID: 2}, Username: "bob", Email: "bob@example.com", FullName: "Bob"},
}

var testOptions = Options{
	CookieSecure: true,
	AccessTTL:    time.Minute,
	RefreshTTL:   time.Hour,
}

func newEngine() (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(middleware.RequestLogger())
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(stubTokens{}, testUsers))
	return r, authed
}

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func perform(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是JSON: %v, body=%s", err, rec.Body.String())
	}
	if body.Code != rec.Code {
		t.Fatalf("body中的code=%d，状态码=%d", body.Code, rec.Code)
	}
	return rec, body
}

func jsonRequest(method, path string, payload interface{}) *http.Request {
	var buf bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&buf).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, userID uint64) *http.Request {
	req.Header.Set("Authorization", "Bearer token-"+strconv.FormatUint(userID, 10))
	return req
}

// files: 表单字段 -> 文件名
func multipartRequest(t *testing.T, method, path string, fields, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, name := range files {
		fw, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("content of " + name))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type stubUserService struct {
	registered    service.RegisterInput
	avatarExisted bool
	registerErr   error

	loginResult *service.LoginResult
	loginErr    error

	rotatedFrom string
	logouts     int
	currentErr  error
}

func (s *stubUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	s.registered = in
	s.avatarExisted = in.AvatarPath != "" && fileExists(in.AvatarPath)
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &model.User{BaseModel: model.BaseModel{ID: 10}, Username: in.Username, Email: in.Email, FullName: in.FullName}, nil
}

func (s *stubUserService) Login(ctx context.Context, username, email, password string) (*service.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubUserService) Logout(ctx context.Context, identity auth.Identity) error {
	s.logouts++
	return nil
}

func (s *stubUserService) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	s.rotatedFrom = refreshToken
	return auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
}

func (s *stubUserService) ChangePassword(ctx context.Context, identity auth.Identity, oldPassword, newPassword string) error {
	return nil
}

func (s *stubUserService) GetCurrentUser(ctx context.Context, identity auth.Identity) (*model.User, error) {
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return testUsers.FindByID(ctx, identity.UserID)
}

func (s *stubUserService) UpdateAccount(ctx context.Context, identity auth.Identity, fullName, email string) (*model.User, error) {
	return &model.User{BaseModel: model.BaseModel{ID: identity.UserID}, FullName: fullName, Email: email}, nil
}

func (s *stubUserService) UpdateAvatar(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error) {
	if localPath == "" {
		return nil, apperr.Validation("缺少头像文件")
	}
	return testUsers.FindByID(ctx, identity.UserID)
}

func (s *stubUserService) UpdateCoverImage(ctx context.Context, identity auth.Identity, localPath string) (*model.User, error) {
	return s.UpdateAvatar(ctx, identity, localPath)
}

type stubAggregator struct {
	lastQuery service.VideoQuery
	liked     []model.Video
	viewer    uint64
}

func (a *stubAggregator) BuildChannelProfile(ctx context.Context, username string, viewerID uint64) (*service.ChannelProfile, error) {
	if username != "alice" {
		return nil, apperr.NotFound("频道不存在")
	}
	a.viewer = viewerID
	return &service.ChannelProfile{Username: "alice", FullName: "Alice", SubscriberCount: 3, IsSubscribed: true}, nil
}

func (a *stubAggregator) BuildWatchHistory(ctx context.Context, viewerID uint64) ([]service.WatchedVideo, error) {
	return []service.WatchedVideo{{
		Video: model.Video{BaseModel: model.BaseModel{ID: 5}, OwnerID: 2, Title: "v5"},
		Owner: service.OwnerSummary{Username: "bob", FullName: "Bob"},
	}}, nil
}

func (a *stubAggregator) BuildLikedVideos(ctx context.Context, viewerID uint64) ([]model.Video, error) {
	a.viewer = viewerID
	return a.liked, nil
}

func (a *stubAggregator) ListVideos(ctx context.Context, q service.VideoQuery) (*service.VideoPage, error) {
	a.lastQuery = q
	videos := []model.Video{{BaseModel: model.BaseModel{ID: 1}, OwnerID: q.OwnerID, Title: "go tour"}}
	return &service.VideoPage{Videos: videos, Length: len(videos), NextPage: q.Page + 1}, nil
}

type stubVideoService struct {
	published   service.PublishVideoInput
	filesExist  bool
	watchedBy   uint64
	toggleState bool
}

func (s *stubVideoService) Publish(ctx context.Context, identity auth.Identity, in service.PublishVideoInput) (*model.Video, error) {
	s.published = in
	s.filesExist = fileExists(in.VideoPath) && fileExists(in.ThumbnailPath)
	if in.VideoPath == "" {
		return nil, apperr.Validation("缺少视频文件")
	}
	return &model.Video{BaseModel: model.BaseModel{ID: 42}, OwnerID: identity.UserID, Title: in.Title, Duration: in.Duration, IsPublished: true}, nil
}

func (s *stubVideoService) GetVideoByID(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	if videoID != 42 {
		return nil, apperr.NotFound("视频不存在")
	}
	return &model.Video{BaseModel: model.BaseModel{ID: 42}, OwnerID: 1, Title: "hello", IsPublished: true}, nil
}

func (s *stubVideoService) Update(ctx context.Context, identity auth.Identity, videoID uint64, title, description string) (*model.Video, error) {
	if identity.UserID != 1 {
		return nil, apperr.Forbidden("无权操作该资源，只有所有者可以修改")
	}
	return &model.Video{BaseModel: model.BaseModel{ID: videoID}, OwnerID: 1, Title: title, Description: description}, nil
}

func (s *stubVideoService) Delete(ctx context.Context, identity auth.Identity, videoID uint64) error {
	return nil
}

func (s *stubVideoService) TogglePublish(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	s.toggleState = !s.toggleState
	return &model.Video{BaseModel: model.BaseModel{ID: videoID}, OwnerID: identity.UserID, IsPublished: s.toggleState}, nil
}

func (s *stubVideoService) Watch(ctx context.Context, identity auth.Identity, videoID uint64) (*model.Video, error) {
	s.watchedBy = identity.UserID
	return s.GetVideoByID(ctx, identity, videoID)
}

type stubLikeService struct {
	targets []model.LikeTarget
	liked   map[model.LikeTarget]bool
}

func (s *stubLikeService) ToggleLike(ctx context.Context, identity auth.Identity, target model.LikeTarget) (bool, error) {
	if s.liked == nil {
		s.liked = make(map[model.LikeTarget]bool)
	}
	s.targets = append(s.targets, target)
	s.liked[target] = !s.liked[target]
	return s.liked[target], nil
}
