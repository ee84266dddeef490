package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"VidTube/internal/apperr"
	"VidTube/internal/config"
	"VidTube/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CredentialStore 是Token服务对用户表的全部依赖：读用户、改写refresh token这一个字段
type CredentialStore interface {
	FindByID(ctx context.Context, userID uint64) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, userID uint64, refreshToken string) error
}

// AccessClaims access token的Payload，Payload不加密，不能放密码
type AccessClaims struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// RefreshClaims refresh token只带用户ID，不泄露任何资料
type RefreshClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenService interface {
	IssuePair(ctx context.Context, userID uint64) (TokenPair, error)
	VerifyAccess(token string) (*AccessClaims, error)
	Rotate(ctx context.Context, refreshToken string) (TokenPair, error)
	Revoke(ctx context.Context, userID uint64) error
}

type tokenService struct {
	store CredentialStore

	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

func NewTokenService(store CredentialStore, cfg config.TokenConfig) (*tokenService, error) {
	if store == nil {
		return nil, errors.New("auth: credential store must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &tokenService{
		store:         store,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// 签发一对token：1、读取用户 2、分别用两个密钥签名 3、只改写refresh_token这一列，覆盖掉之前的会话
func (s *tokenService) IssuePair(ctx context.Context, userID uint64) (TokenPair, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return TokenPair{}, apperr.Internal("生成access token和refresh token时出错", err)
	}

	now := s.now()
	access := &AccessClaims{
		UserID:           user.ID,
		Email:            user.Email,
		Username:         user.Username,
		FullName:         user.FullName,
		RegisteredClaims: s.registered(now, s.accessTTL),
	}
	refresh := &RefreshClaims{
		UserID:           user.ID,
		RegisteredClaims: s.registered(now, s.refreshTTL),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(s.accessSecret)
	if err != nil {
		return TokenPair{}, apperr.Internal("生成access token时出错", err)
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(s.refreshSecret)
	if err != nil {
		return TokenPair{}, apperr.Internal("生成refresh token时出错", err)
	}

	if err := s.store.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return TokenPair{}, apperr.Internal("保存refresh token时出错", err)
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// jti保证同一秒内签发的两个token也不相同，否则轮换后旧token会和新token字节相等
func (s *tokenService) registered(now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *tokenService) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(token, claims, s.accessSecret); err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "无效的授权令牌", err)
	}
	return claims, nil
}

// 轮换：1、校验签名和过期时间 2、读取用户 3、必须和库里保存的token完全一致 4、重新签发（旧token立即作废）
func (s *tokenService) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, apperr.Unauthenticated("请求未包含refresh token")
	}
	claims := &RefreshClaims{}
	if err := s.parse(refreshToken, claims, s.refreshSecret); err != nil {
		return TokenPair{}, apperr.Wrap(apperr.KindUnauthenticated, "无效的refresh token", err)
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return TokenPair{}, apperr.Wrap(apperr.KindNotFound, "refresh token对应的用户不存在", err)
		}
		return TokenPair{}, apperr.Internal("读取用户失败", err)
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return TokenPair{}, apperr.TokenStale("refresh token已过期或已被使用")
	}

	return s.IssuePair(ctx, user.ID)
}

func (s *tokenService) Revoke(ctx context.Context, userID uint64) error {
	if err := s.store.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return apperr.Internal("注销会话失败", err)
	}
	return nil
}

// parse 只接受HS256，并且要求必须带exp
func (s *tokenService) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("token无效")
	}
	return nil
}
